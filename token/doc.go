/*
Token contract is the fungible platform token of the publishing platform.

It is a NEP-17 compatible contract so it can be tracked and controlled by N3
compatible network monitors and wallet software. All other platform contracts
use it for custody of value: paper stakes and governance stakes are escrowed
on the submission and governance contract accounts, review rewards are paid
from the review contract account. Tokens are issued and destroyed by the
platform administrator.

# Contract notifications

Transfer notification. This is the NEP-17 standard notification, also
produced by Mint (with empty from) and Burn (with empty to).

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package token
