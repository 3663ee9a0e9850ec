package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/depubnet/depub-contract/common"
)

// Token holds all token info.
type Token struct {
	// Ticker symbol
	Symbol string
	// Amount of decimals
	Decimals int
	// Storage key for circulation value
	CirculationKey string
}

const (
	symbol      = "DPUB"
	decimals    = 8
	circulation = "TotalSupply"
)

var token Token

func createToken() Token {
	return Token{
		Symbol:         symbol,
		Decimals:       decimals,
		CirculationKey: circulation,
	}
}

func init() {
	token = createToken()
}

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.([]interface{})
	admin := args[0].(interop.Hash160)

	if len(admin) != interop.Hash160Len {
		panic("incorrect length of admin script hash")
	}

	ctx := storage.GetContext()
	common.SetAdmin(ctx, admin)

	runtime.Log("publishing token contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by the contract administrator.
func Update(script []byte, manifest []byte, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	if !common.IsAdmin(ctx) {
		panic("only administrator can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, data)
	runtime.Log("publishing token contract updated")
}

// Symbol is a NEP-17 standard method that returns the platform token symbol.
func Symbol() string {
	return token.Symbol
}

// Decimals is a NEP-17 standard method that returns precision of platform
// token balances.
func Decimals() int {
	return token.Decimals
}

// TotalSupply is a NEP-17 standard method that returns the total amount of
// platform tokens in circulation.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, token.CirculationKey)
}

// BalanceOf is a NEP-17 standard method that returns the platform token
// balance of the specified account.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, account)
}

// Transfer is a NEP-17 standard method that transfers platform tokens from
// one account to another. It can be invoked by the account owner or by a
// contract spending from its own custody account. It fails closed: any
// unauthorized or unfunded transfer returns false without state changes.
func Transfer(from, to interop.Hash160, amount int, data interface{}) bool {
	ctx := storage.GetContext()

	if amount < 0 || len(to) != interop.Hash160Len || !isUsableAddress(from) {
		runtime.Log("transfer: invalid transfer arguments")
		return false
	}

	fromBalance := common.GetInt(ctx, from)
	if fromBalance < amount {
		runtime.Log("transfer: not enough tokens")
		return false
	}

	if fromBalance == amount {
		storage.Delete(ctx, from)
	} else {
		storage.Put(ctx, from, fromBalance-amount)
	}

	toBalance := common.GetInt(ctx, to)
	storage.Put(ctx, to, toBalance+amount)

	runtime.Notify("Transfer", from, to, amount)

	return true
}

// Mint creates the specified amount of platform tokens on the account. Can
// be invoked only by the contract administrator.
func Mint(to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	if !common.IsAdmin(ctx) {
		panic("only administrator can mint tokens")
	}

	if amount <= 0 {
		panic("non positive mint amount")
	}

	if len(to) != interop.Hash160Len {
		panic("incorrect length of account script hash")
	}

	storage.Put(ctx, to, common.GetInt(ctx, to)+amount)
	storage.Put(ctx, token.CirculationKey, common.GetInt(ctx, token.CirculationKey)+amount)

	runtime.Notify("Transfer", interop.Hash160(nil), to, amount)
	runtime.Log("mint: tokens issued")
}

// Burn destroys the specified amount of platform tokens on the account. Can
// be invoked only by the contract administrator.
func Burn(from interop.Hash160, amount int) {
	ctx := storage.GetContext()
	if !common.IsAdmin(ctx) {
		panic("only administrator can burn tokens")
	}

	if amount <= 0 {
		panic("non positive burn amount")
	}

	fromBalance := common.GetInt(ctx, from)
	if fromBalance < amount {
		panic("not enough tokens to burn")
	}

	if fromBalance == amount {
		storage.Delete(ctx, from)
	} else {
		storage.Put(ctx, from, fromBalance-amount)
	}

	supply := common.GetInt(ctx, token.CirculationKey)
	if supply < amount {
		panic("negative supply after burn")
	}
	storage.Put(ctx, token.CirculationKey, supply-amount)

	runtime.Notify("Transfer", from, interop.Hash160(nil), amount)
	runtime.Log("burn: tokens destroyed")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// isUsableAddress checks if the sender is either a signing account or the
// calling contract spending its own funds.
func isUsableAddress(addr interop.Hash160) bool {
	if len(addr) == interop.Hash160Len {
		if runtime.CheckWitness(addr) {
			return true
		}

		if common.BytesEqual(runtime.GetCallingScriptHash(), addr) {
			return true
		}
	}

	return false
}
