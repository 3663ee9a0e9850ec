/*
Submission contract is the paper ledger of the publishing platform.

It owns paper records and their stake escrow. A researcher submits a paper by
referencing its off-ledger content hash and staking a fixed amount of
platform tokens, which the contract holds in custody while the paper is
pending. The configured review authority finalizes papers: acceptance is
terminal and refunds the stake, rejection records the score and keeps the
paper open for further rounds. An author may withdraw a pending paper, which
refunds the stake and purges the record.

# Contract notifications

PaperSubmitted notification. Produced when a new paper is registered.

	PaperSubmitted:
	  - name: id
	    type: Integer
	  - name: author
	    type: Hash160
	  - name: contentHash
	    type: String

PaperFinalized notification. Produced on every finalization round.

	PaperFinalized:
	  - name: id
	    type: Integer
	  - name: accepted
	    type: Boolean
	  - name: reviewScore
	    type: Integer

StakeWithdrawn notification. Produced when an author withdraws a pending
paper.

	StakeWithdrawn:
	  - name: id
	    type: Integer
	  - name: author
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package submission
