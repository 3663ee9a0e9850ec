package governance

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

// Proposal is a funding proposal with its tallies. YesVotes and NoVotes are
// sums of voter stake weights snapshotted at vote time.
type Proposal struct {
	ID              int
	Proposer        interop.Hash160
	Description     string
	RequestedAmount int
	// Block height of proposal creation.
	StartBlock int
	// First block at which voting is closed.
	EndBlock int
	YesVotes int
	NoVotes  int
	Executed bool
}

const (
	// ErrNotAuthorized is thrown when the caller lacks the required witness.
	ErrNotAuthorized = "(300) not authorized"
	// ErrPaused is thrown by mutating methods while the circuit breaker is set.
	ErrPaused = "(301) contract is paused"
	// ErrZeroAddress is thrown when an administrative method receives a zero
	// address.
	ErrZeroAddress = "(302) zero address"
	// ErrInvalidProposal is thrown when the proposal does not exist, is not
	// executable yet, was already executed, or the proposal cap is reached.
	ErrInvalidProposal = "(303) invalid proposal"
	// ErrAlreadyVoted is thrown when the account has already voted on the
	// proposal.
	ErrAlreadyVoted = "(304) already voted"
	// ErrVotingClosed is thrown when the proposal's voting window has ended.
	ErrVotingClosed = "(305) voting closed"
	// ErrQuorumNotMet is thrown when the cast weight falls short of the
	// quorum share of the currently staked total.
	ErrQuorumNotMet = "(306) quorum not met"
	// ErrInvalidAmount is thrown when the requested amount is outside the
	// allowed bounds.
	ErrInvalidAmount = "(307) invalid amount"
	// ErrInvalidDescription is thrown when the description length is outside
	// the allowed bounds.
	ErrInvalidDescription = "(308) invalid description"
	// ErrInvalidStake is thrown when the stake amount is not positive, does
	// not fit the account, or the account holds no stake where one is
	// required.
	ErrInvalidStake = "(309) invalid stake amount"
)

const (
	votingPeriod         = 20
	quorumPercent        = 1_000
	quorumDenominator    = 10_000
	proposalFee          = 10_000
	maxStakeAmount       = 1_000_000_000
	maxProposals         = 1_000
	minDescriptionLength = 10
	maxDescriptionLength = 500

	proposalCountKey = "proposalCount"
	totalStakedKey   = "totalStaked"
	tokenContractKey = "tokenScriptHash"

	stakePrefix    = 's'
	proposalPrefix = 'p'
	votePrefix     = 'v'
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

	runtime.Log("governance contract initialized")
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
	runtime.Log("governance contract updated")
}

// StakeTokens locks tokens of the account into the governance contract's
// custody and raises its voting weight accordingly. Can be invoked only by
// the account owner.
func StakeTokens(staker interop.Hash160, amount int) {
	ctx := storage.GetContext()
	if common.IsPaused(ctx) {
		panic(ErrPaused)
	}

	if !runtime.CheckWitness(staker) {
		panic(ErrNotAuthorized)
	}

	if amount <= 0 {
		panic(ErrInvalidStake)
	}

	staked := common.GetInt(ctx, stakeKey(staker))

	if !common.TransferTokens(tokenContract(ctx), staker, runtime.GetExecutingScriptHash(), amount) {
		panic("stakeTokens: failed to lock tokens, aborting")
	}

	storage.Put(ctx, stakeKey(staker), staked+amount)
	storage.Put(ctx, totalStakedKey, common.GetInt(ctx, totalStakedKey)+amount)

	runtime.Notify("TokensStaked", staker, amount)
	runtime.Log("stakeTokens: stake increased")
}

// UnstakeTokens releases tokens from custody back to the account and lowers
// its voting weight. The tokens carry no lockup, weight already cast on open
// proposals is unaffected. Can be invoked only by the account owner.
func UnstakeTokens(staker interop.Hash160, amount int) {
	ctx := storage.GetContext()
	if common.IsPaused(ctx) {
		panic(ErrPaused)
	}

	if !runtime.CheckWitness(staker) {
		panic(ErrNotAuthorized)
	}

	staked := common.GetInt(ctx, stakeKey(staker))
	if amount <= 0 || amount > staked {
		panic(ErrInvalidStake)
	}

	if !common.TransferTokens(tokenContract(ctx), runtime.GetExecutingScriptHash(), staker, amount) {
		panic("unstakeTokens: failed to release tokens, aborting")
	}

	if staked == amount {
		storage.Delete(ctx, stakeKey(staker))
	} else {
		storage.Put(ctx, stakeKey(staker), staked-amount)
	}
	storage.Put(ctx, totalStakedKey, common.GetInt(ctx, totalStakedKey)-amount)

	runtime.Notify("TokensUnstaked", staker, amount)
	runtime.Log("unstakeTokens: stake decreased")
}

// CreateProposal registers a funding proposal, charges the flat proposal fee
// into contract custody and opens its voting window. Only accounts with a
// non-zero stake may propose. Can be invoked only by the account owner.
func CreateProposal(proposer interop.Hash160, description string, requestedAmount int) int {
	ctx := storage.GetContext()
	if common.IsPaused(ctx) {
		panic(ErrPaused)
	}

	if !runtime.CheckWitness(proposer) {
		panic(ErrNotAuthorized)
	}

	if len(description) < minDescriptionLength || len(description) > maxDescriptionLength {
		panic(ErrInvalidDescription)
	}

	if requestedAmount <= 0 || requestedAmount > maxStakeAmount {
		panic(ErrInvalidAmount)
	}

	count := common.GetInt(ctx, proposalCountKey)
	if count >= maxProposals {
		panic(ErrInvalidProposal)
	}

	if common.GetInt(ctx, stakeKey(proposer)) == 0 {
		panic(ErrInvalidStake)
	}

	if !common.TransferTokens(tokenContract(ctx), proposer, runtime.GetExecutingScriptHash(), proposalFee) {
		panic("createProposal: failed to charge proposal fee, aborting")
	}

	id := count + 1
	height := ledger.CurrentIndex()
	p := Proposal{
		ID:              id,
		Proposer:        proposer,
		Description:     description,
		RequestedAmount: requestedAmount,
		StartBlock:      height,
		EndBlock:        height + votingPeriod,
		YesVotes:        0,
		NoVotes:         0,
		Executed:        false,
	}

	common.SetSerialized(ctx, proposalKey(id), p)
	storage.Put(ctx, proposalCountKey, id)

	runtime.Notify("ProposalCreated", id, proposer)
	runtime.Log("createProposal: proposal registered")

	return id
}

// CastVote adds the account's current stake weight to the yes or no tally of
// an open proposal. One vote per account per proposal; the weight is
// snapshotted at vote time and unaffected by later stake changes. Can be
// invoked only by the account owner.
func CastVote(voter interop.Hash160, proposalID int, support bool) {
	ctx := storage.GetContext()
	if common.IsPaused(ctx) {
		panic(ErrPaused)
	}

	if !runtime.CheckWitness(voter) {
		panic(ErrNotAuthorized)
	}

	p := getProposal(ctx, proposalID)

	if ledger.CurrentIndex() >= p.EndBlock {
		panic(ErrVotingClosed)
	}

	vKey := voteKey(proposalID, voter)
	if storage.Get(ctx, vKey) != nil {
		panic(ErrAlreadyVoted)
	}

	weight := common.GetInt(ctx, stakeKey(voter))
	if weight == 0 {
		panic(ErrInvalidStake)
	}

	if support {
		storage.Put(ctx, vKey, []byte{1})
		p.YesVotes += weight
	} else {
		storage.Put(ctx, vKey, []byte{0})
		p.NoVotes += weight
	}
	common.SetSerialized(ctx, proposalKey(proposalID), p)

	runtime.Notify("VoteCast", proposalID, voter, support, weight)
}

// ExecuteProposal settles a proposal after its voting window: the cast
// weight must reach the quorum share of the total currently staked. A
// passing proposal is marked executed and the method returns true; a failing
// tally leaves the proposal settleable again and returns false. Can be
// invoked by anyone.
func ExecuteProposal(proposalID int) bool {
	ctx := storage.GetContext()
	if common.IsPaused(ctx) {
		panic(ErrPaused)
	}

	p := getProposal(ctx, proposalID)

	if ledger.CurrentIndex() < p.EndBlock {
		panic(ErrInvalidProposal)
	}

	if p.Executed {
		panic(ErrInvalidProposal)
	}

	quorum := common.GetInt(ctx, totalStakedKey) * quorumPercent / quorumDenominator
	if p.YesVotes+p.NoVotes < quorum {
		panic(ErrQuorumNotMet)
	}

	if p.YesVotes <= p.NoVotes {
		runtime.Log("executeProposal: proposal rejected by vote")
		return false
	}

	p.Executed = true
	common.SetSerialized(ctx, proposalKey(proposalID), p)

	runtime.Notify("ProposalExecuted", proposalID)
	runtime.Log("executeProposal: proposal passed")

	return true
}

// GetProposal returns the proposal record by identifier.
func GetProposal(proposalID int) Proposal {
	ctx := storage.GetReadOnlyContext()
	return getProposal(ctx, proposalID)
}

// HasVoted returns whether the account has voted on the proposal.
func HasVoted(proposalID int, voter interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, voteKey(proposalID, voter)) != nil
}

// GetVote returns the vote direction of the account on the proposal. A
// missing vote reads as false, use HasVoted to tell the two apart.
func GetVote(proposalID int, voter interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, voteKey(proposalID, voter))
	if data == nil {
		return false
	}

	val := data.([]byte)
	return len(val) > 0 && val[0] == 1
}

// GetStakedBalance returns the account's staked amount.
func GetStakedBalance(staker interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, stakeKey(staker))
}

// TotalStaked returns the total amount staked across all accounts.
func TotalStaked() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, totalStakedKey)
}

// ProposalCount returns the number of proposals ever created.
func ProposalCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, proposalCountKey)
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
		runtime.Log("governance contract paused")
	} else {
		runtime.Log("governance contract resumed")
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
	runtime.Log("governance contract administrator changed")
}

// SetPeerContract configures the platform token contract address. Can be
// invoked only by the contract administrator.
func SetPeerContract(addr interop.Hash160) {
	ctx := storage.GetContext()
	if !common.IsAdmin(ctx) {
		panic(ErrNotAuthorized)
	}

	if common.IsZeroAddress(addr) {
		panic(ErrZeroAddress)
	}

	storage.Put(ctx, tokenContractKey, addr)
	runtime.Log("governance contract token peer changed")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getProposal(ctx storage.Context, proposalID int) Proposal {
	data := storage.Get(ctx, proposalKey(proposalID))
	if data == nil {
		panic(ErrInvalidProposal)
	}

	return std.Deserialize(data.([]byte)).(Proposal)
}

func tokenContract(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, tokenContractKey).(interop.Hash160)
}

func stakeKey(staker interop.Hash160) []byte {
	return append([]byte{stakePrefix}, staker...)
}

func proposalKey(proposalID int) []byte {
	var buf interface{} = proposalID
	return append([]byte{proposalPrefix}, buf.([]byte)...)
}

func voteKey(proposalID int, voter interop.Hash160) []byte {
	var buf interface{} = proposalID
	key := append([]byte{votePrefix}, buf.([]byte)...)
	return append(key, voter...)
}
