/*
Review contract is the peer-review ledger of the publishing platform.

It owns the reviewer registry, per-paper assignment lists and submitted
reviews. The platform administrator assigns up to three registered reviewers
per paper. Each assigned reviewer may submit a single scored review within a
bounded window measured from the paper's submission block, read from the
submission contract. Accepted reviews pay a fixed reward from the review
contract's own token custody and update the reviewer's running average
incrementally. The administrator closes a round by forwarding the mean score
to the submission contract, on which this contract acts as the configured
review authority.

# Contract notifications

ReviewerRegistered notification. Produced when a new reviewer registers.

	ReviewerRegistered:
	  - name: reviewer
	    type: Hash160
	  - name: expertise
	    type: String

PaperAssigned notification. Produced when a reviewer is appended to a
paper's assignment list.

	PaperAssigned:
	  - name: paperID
	    type: Integer
	  - name: reviewer
	    type: Hash160

ReviewSubmitted notification. Produced when a review is recorded and the
reward paid.

	ReviewSubmitted:
	  - name: paperID
	    type: Integer
	  - name: reviewer
	    type: Hash160
	  - name: score
	    type: Integer

ReviewRoundCompleted notification. Produced when the outcome is forwarded to
the submission contract.

	ReviewRoundCompleted:
	  - name: paperID
	    type: Integer
	  - name: accepted
	    type: Boolean
	  - name: averageScore
	    type: Integer
*/
package review
