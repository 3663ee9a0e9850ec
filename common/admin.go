package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	// AdminKey is a storage key of the contract administrator address.
	AdminKey = "contractAdmin"

	pausedKey = "contractPaused"
)

// ContractAdmin returns the administrator address of the contract.
func ContractAdmin(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, AdminKey).(interop.Hash160)
}

// SetAdmin stores admin as the contract administrator address.
func SetAdmin(ctx storage.Context, admin interop.Hash160) {
	storage.Put(ctx, AdminKey, admin)
}

// IsAdmin returns true if the invocation carries a witness of the contract
// administrator.
func IsAdmin(ctx storage.Context) bool {
	return runtime.CheckWitness(ContractAdmin(ctx))
}

// IsPaused returns true if the contract circuit breaker is set. While it is
// set, all mutating ledger operations must fail; read-only lookups and
// administrative methods stay available.
func IsPaused(ctx storage.Context) bool {
	return storage.Get(ctx, pausedKey) != nil
}

// SetPause sets or clears the contract circuit breaker.
func SetPause(ctx storage.Context, paused bool) {
	if paused {
		storage.Put(ctx, pausedKey, []byte{1})
	} else {
		storage.Delete(ctx, pausedKey)
	}
}

// IsZeroAddress returns true if addr has a wrong length or consists of zero
// bytes only. Administrative methods must refuse to store such an address.
func IsZeroAddress(addr interop.Hash160) bool {
	if len(addr) != interop.Hash160Len {
		return true
	}

	for i := 0; i < len(addr); i++ {
		if addr[i] != 0 {
			return false
		}
	}

	return true
}
