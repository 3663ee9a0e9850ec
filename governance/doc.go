/*
Governance contract is the stake-weighted voting ledger of the publishing
platform.

Token holders lock platform tokens into contract custody to acquire voting
weight. Any staker may register a funding proposal for a flat fee, opening a
fixed voting window. Votes carry the voter's stake weight snapshotted at
vote time. After the window, anyone may settle the proposal: the cast weight
must reach a quorum share of the total currently staked, and a simple
majority of yes weight passes it. A failing tally leaves the proposal open
for later settlement attempts.

# Contract notifications

TokensStaked notification. Produced when stake is locked.

	TokensStaked:
	  - name: staker
	    type: Hash160
	  - name: amount
	    type: Integer

TokensUnstaked notification. Produced when stake is released.

	TokensUnstaked:
	  - name: staker
	    type: Hash160
	  - name: amount
	    type: Integer

ProposalCreated notification. Produced when a proposal is registered.

	ProposalCreated:
	  - name: id
	    type: Integer
	  - name: proposer
	    type: Hash160

VoteCast notification. Produced when a vote is recorded.

	VoteCast:
	  - name: proposalID
	    type: Integer
	  - name: voter
	    type: Hash160
	  - name: support
	    type: Boolean
	  - name: weight
	    type: Integer

ProposalExecuted notification. Produced when a proposal passes settlement.

	ProposalExecuted:
	  - name: id
	    type: Integer
*/
package governance
