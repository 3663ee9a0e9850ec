package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
)

// TransferTokens invokes the transfer method of the NEP-17 token contract
// and reports whether the token accepted the transfer. The token fails
// closed, so callers must treat a false result as fatal for the whole
// transaction. Outgoing transfers from contract custody are authorized by
// the calling script hash matching the sender.
func TransferTokens(token interop.Hash160, from, to interop.Hash160, amount int) bool {
	return contract.Call(token, "transfer", contract.All, from, to, amount, nil).(bool)
}
