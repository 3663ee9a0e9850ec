package submission

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/depubnet/depub-contract/common"
)

// Paper is a submitted paper record with its escrowed stake.
type Paper struct {
	// Sequential paper id, 1-based.
	ID int
	// Author account, receives the stake back on acceptance or withdrawal.
	Author interop.Hash160
	// Content hash referencing the off-ledger stored paper content.
	ContentHash string
	// Stake amount held in contract custody while the paper is pending.
	Stake int
	// Accepted transitions false to true exactly once.
	Accepted bool
	// Block height of the submission, anchors the review window.
	SubmissionBlock int
	// Last review score recorded by the review authority.
	ReviewScore int
}

const (
	// ErrNotAuthorized is thrown when the caller lacks the required witness.
	ErrNotAuthorized = "(100) not authorized"
	// ErrInsufficientBalance is thrown when the author cannot cover the stake.
	ErrInsufficientBalance = "(101) insufficient token balance for stake"
	// ErrInvalidHash is thrown when the content hash fails the format check.
	ErrInvalidHash = "(102) invalid content hash"
	// ErrNotFound is thrown when the requested paper does not exist.
	ErrNotFound = "(103) paper not found"
	// ErrAlreadySubmitted is thrown when the content hash is already
	// registered or the registry refuses new submissions.
	ErrAlreadySubmitted = "(104) paper already submitted"
	// ErrPaused is thrown by mutating methods while the circuit breaker is set.
	ErrPaused = "(105) contract is paused"
	// ErrZeroAddress is thrown when an administrative method receives a zero
	// address.
	ErrZeroAddress = "(106) zero address"
	// ErrInvalidStake is thrown when there is no stake left to withdraw.
	ErrInvalidStake = "(107) invalid stake amount"
	// ErrNotSubmitted is thrown when withdrawing a paper that was never
	// submitted or has been removed.
	ErrNotSubmitted = "(108) paper not submitted"
	// ErrAlreadyAccepted is thrown when mutating a paper in its terminal
	// accepted state.
	ErrAlreadyAccepted = "(109) paper already accepted"
)

const (
	stakeAmount          = 1_000_000
	maxPapers            = 10_000
	contentHashMinLength = 46
	contentHashPrefix    = "Qm"

	paperCountKey     = "paperCount"
	tokenContractKey  = "tokenScriptHash"
	reviewContractKey = "reviewScriptHash"

	paperPrefix   = 'p'
	hashPrefix    = 'h'
	balancePrefix = 'b'
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.([]interface{})
	admin := args[0].(interop.Hash160)
	addrToken := args[1].(interop.Hash160)

	if len(admin) != interop.Hash160Len || len(addrToken) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	ctx := storage.GetContext()
	common.SetAdmin(ctx, admin)
	storage.Put(ctx, tokenContractKey, addrToken)

	runtime.Log("submission contract initialized")
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
	runtime.Log("submission contract updated")
}

// SubmitPaper registers a new paper for the author and escrows the fixed
// stake from the author's token balance into contract custody. The content
// hash must be longer than 46 characters, carry the Qm prefix and be unique
// across live papers. Returns the new paper id; the nth successful
// submission yields id n.
func SubmitPaper(author interop.Hash160, contentHash string) int {
	ctx := storage.GetContext()
	if common.IsPaused(ctx) {
		panic(ErrPaused)
	}

	if !runtime.CheckWitness(author) {
		panic(ErrNotAuthorized)
	}

	if len(contentHash) <= contentHashMinLength ||
		!common.BytesEqual([]byte(contentHash[:2]), []byte(contentHashPrefix)) {
		panic(ErrInvalidHash)
	}

	hKey := hashKey(contentHash)
	if storage.Get(ctx, hKey) != nil {
		panic(ErrAlreadySubmitted)
	}

	count := common.GetInt(ctx, paperCountKey)
	if count >= maxPapers {
		panic(ErrAlreadySubmitted)
	}

	token := tokenContract(ctx)
	balance := contract.Call(token, "balanceOf", contract.ReadOnly, author).(int)
	if balance < stakeAmount {
		panic(ErrInsufficientBalance)
	}

	if !common.TransferTokens(token, author, runtime.GetExecutingScriptHash(), stakeAmount) {
		panic("submitPaper: failed to escrow stake, aborting")
	}

	id := count + 1
	p := Paper{
		ID:              id,
		Author:          author,
		ContentHash:     contentHash,
		Stake:           stakeAmount,
		Accepted:        false,
		SubmissionBlock: ledger.CurrentIndex(),
		ReviewScore:     0,
	}

	common.SetSerialized(ctx, paperKey(id), p)
	storage.Put(ctx, hKey, id)
	storage.Put(ctx, paperCountKey, id)

	runtime.Notify("PaperSubmitted", id, author, contentHash)
	runtime.Log("submitPaper: stake escrowed, paper registered")

	return id
}

// FinalizePaper records the review outcome for a pending paper. It can be
// invoked only by the configured review authority: either the review
// contract calling directly or a transaction carrying the authority's
// witness. Accepting a paper refunds the escrowed stake to the author and is
// terminal. Rejecting only records the score, keeps the stake in custody and
// leaves the paper open for further finalization rounds, each overwriting
// the stored score.
func FinalizePaper(paperID int, accepted bool, reviewScore int) {
	ctx := storage.GetContext()
	if !isReviewAuthority(ctx) {
		panic(ErrNotAuthorized)
	}

	p := getPaper(ctx, paperID)
	if p.Accepted {
		panic(ErrAlreadyAccepted)
	}

	p.ReviewScore = reviewScore

	if accepted {
		stake := p.Stake
		p.Accepted = true
		p.Stake = 0

		if !common.TransferTokens(tokenContract(ctx), runtime.GetExecutingScriptHash(), p.Author, stake) {
			panic("finalizePaper: failed to refund stake, aborting")
		}
	}

	common.SetSerialized(ctx, paperKey(paperID), p)

	runtime.Notify("PaperFinalized", paperID, accepted, reviewScore)
}

// WithdrawStake returns the escrowed stake to the author of a pending paper
// and deletes the paper record entirely, including its content hash index.
// Can be invoked only by the author.
func WithdrawStake(paperID int) {
	ctx := storage.GetContext()
	if common.IsPaused(ctx) {
		panic(ErrPaused)
	}

	data := storage.Get(ctx, paperKey(paperID))
	if data == nil {
		panic(ErrNotSubmitted)
	}
	p := std.Deserialize(data.([]byte)).(Paper)

	if !runtime.CheckWitness(p.Author) {
		panic(ErrNotAuthorized)
	}

	if p.Accepted {
		panic(ErrAlreadyAccepted)
	}

	if p.Stake <= 0 {
		panic(ErrInvalidStake)
	}

	if !common.TransferTokens(tokenContract(ctx), runtime.GetExecutingScriptHash(), p.Author, p.Stake) {
		panic("withdrawStake: failed to refund stake, aborting")
	}

	storage.Delete(ctx, paperKey(paperID))
	storage.Delete(ctx, hashKey(p.ContentHash))

	runtime.Notify("StakeWithdrawn", paperID, p.Author, p.Stake)
	runtime.Log("withdrawStake: paper record removed")
}

// GetPaper returns the paper with the specified id.
func GetPaper(paperID int) Paper {
	ctx := storage.GetReadOnlyContext()
	return getPaper(ctx, paperID)
}

// BalanceOf returns the generic per-address balance record of the account.
// No submission operation populates it, custody is tracked by the token
// contract only.
func BalanceOf(owner interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, balanceKey(owner))
}

// PaperCount returns the number of papers ever submitted.
func PaperCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, paperCountKey)
}

// SetPaused sets or clears the circuit breaker. Can be invoked only by the
// contract administrator.
func SetPaused(paused bool) {
	ctx := storage.GetContext()
	if !common.IsAdmin(ctx) {
		panic(ErrNotAuthorized)
	}

	common.SetPause(ctx, paused)
	if paused {
		runtime.Log("submission contract paused")
	} else {
		runtime.Log("submission contract resumed")
	}
}

// TransferAdmin hands contract administration over to another address. Can
// be invoked only by the current administrator.
func TransferAdmin(admin interop.Hash160) {
	ctx := storage.GetContext()
	if !common.IsAdmin(ctx) {
		panic(ErrNotAuthorized)
	}

	if common.IsZeroAddress(admin) {
		panic(ErrZeroAddress)
	}

	common.SetAdmin(ctx, admin)
	runtime.Log("submission contract administrator changed")
}

// SetPeerContract configures the review authority address allowed to invoke
// FinalizePaper. Can be invoked only by the contract administrator.
func SetPeerContract(addr interop.Hash160) {
	ctx := storage.GetContext()
	if !common.IsAdmin(ctx) {
		panic(ErrNotAuthorized)
	}

	if common.IsZeroAddress(addr) {
		panic(ErrZeroAddress)
	}

	storage.Put(ctx, reviewContractKey, addr)
	runtime.Log("submission contract review authority changed")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func isReviewAuthority(ctx storage.Context) bool {
	if common.CalledByContract(ctx, reviewContractKey) {
		return true
	}

	data := storage.Get(ctx, reviewContractKey)
	if data == nil {
		return false
	}

	return runtime.CheckWitness(data.(interop.Hash160))
}

func getPaper(ctx storage.Context, paperID int) Paper {
	data := storage.Get(ctx, paperKey(paperID))
	if data == nil {
		panic(ErrNotFound)
	}

	return std.Deserialize(data.([]byte)).(Paper)
}

func tokenContract(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, tokenContractKey).(interop.Hash160)
}

func paperKey(paperID int) []byte {
	var buf interface{} = paperID
	return append([]byte{paperPrefix}, buf.([]byte)...)
}

func hashKey(contentHash string) []byte {
	return append([]byte{hashPrefix}, []byte(contentHash)...)
}

func balanceKey(owner interop.Hash160) []byte {
	return append([]byte{balancePrefix}, owner...)
}
