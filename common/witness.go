package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

// BytesEqual compares two slices of bytes by wrapping them into strings,
// which is necessary with new util.Equals interop behaviour, see neo-go#1176.
func BytesEqual(a []byte, b []byte) bool {
	return util.Equals(string(a), string(b))
}

// CalledByContract returns true if the current invocation was made by the
// contract whose script hash is stored under key. It is the capability check
// for privileged cross-contract calls: the callee compares the verified
// calling script hash against a single configured trusted address.
func CalledByContract(ctx storage.Context, key string) bool {
	data := storage.Get(ctx, key)
	if data == nil {
		return false
	}

	return BytesEqual(runtime.GetCallingScriptHash(), data.([]byte))
}
