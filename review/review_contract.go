package review

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

type (
	// Reviewer is a registered reviewer with its running review statistics.
	Reviewer struct {
		// Reviewer account.
		Address interop.Hash160
		// Free-form expertise tag supplied at registration.
		Expertise string
		// Number of accepted review submissions.
		ReviewCount int
		// Integer running average of submitted scores, floored.
		AverageScore int
	}

	// Review is an immutable review record for a (paper, reviewer) pair.
	Review struct {
		PaperID  int
		Reviewer interop.Hash160
		Score    int
		Comments string
		// Block height of the review submission.
		SubmittedBlock int
	}

	// paperRecord mirrors the paper structure of the submission contract.
	paperRecord struct {
		id              int
		author          interop.Hash160
		contentHash     string
		stake           int
		accepted        bool
		submissionBlock int
		reviewScore     int
	}
)

const (
	// ErrNotAuthorized is thrown when the caller lacks the required witness
	// or is not assigned to the operation target.
	ErrNotAuthorized = "(200) not authorized"
	// ErrInvalidPaper is thrown when the paper has no assignment the caller
	// belongs to.
	ErrInvalidPaper = "(201) paper is not assigned to reviewer"
	// ErrAlreadyReviewed is thrown when a (paper, reviewer) review already
	// exists or the reviewer is already registered.
	ErrAlreadyReviewed = "(202) already reviewed"
	// ErrPaused is thrown by mutating methods while the circuit breaker is set.
	ErrPaused = "(203) contract is paused"
	// ErrZeroAddress is thrown when an administrative method receives a zero
	// address.
	ErrZeroAddress = "(204) zero address"
	// ErrInvalidScore is thrown when a score is outside the closed [0,100]
	// bound.
	ErrInvalidScore = "(205) review score out of range"
	// ErrNotRegistered is thrown when the account is not a registered
	// reviewer.
	ErrNotRegistered = "(206) reviewer is not registered"
	// ErrInsufficientReviewers is thrown when reviewer capacity is exhausted
	// or a paper has no submitted reviews to finalize on.
	ErrInsufficientReviewers = "(207) insufficient reviewers"
	// ErrPeriodExpired is thrown when the review window anchored to the
	// paper submission block has elapsed.
	ErrPeriodExpired = "(208) review period expired"
)

const (
	maxReviewersPerPaper = 3
	maxReviewers         = 1_000
	maxScore             = 100
	reviewPeriod         = 30
	reviewReward         = 10_000

	reviewerCountKey      = "reviewerCount"
	tokenContractKey      = "tokenScriptHash"
	submissionContractKey = "submissionScriptHash"

	reviewerPrefix = 'r'
	assignPrefix   = 'a'
	reviewPrefix   = 'v'
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.([]interface{})
	admin := args[0].(interop.Hash160)
	addrToken := args[1].(interop.Hash160)
	addrSubmission := args[2].(interop.Hash160)

	if len(admin) != interop.Hash160Len ||
		len(addrToken) != interop.Hash160Len ||
		len(addrSubmission) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	ctx := storage.GetContext()
	common.SetAdmin(ctx, admin)
	storage.Put(ctx, tokenContractKey, addrToken)
	storage.Put(ctx, submissionContractKey, addrSubmission)

	runtime.Log("review contract initialized")
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
	runtime.Log("review contract updated")
}

// RegisterReviewer adds the account to the reviewer registry with zero
// review statistics. Can be invoked only by the account owner.
func RegisterReviewer(reviewer interop.Hash160, expertise string) {
	ctx := storage.GetContext()
	if common.IsPaused(ctx) {
		panic(ErrPaused)
	}

	if !runtime.CheckWitness(reviewer) {
		panic(ErrNotAuthorized)
	}

	count := common.GetInt(ctx, reviewerCountKey)
	if count >= maxReviewers {
		panic(ErrInsufficientReviewers)
	}

	key := reviewerKey(reviewer)
	if storage.Get(ctx, key) != nil {
		panic(ErrAlreadyReviewed)
	}

	r := Reviewer{
		Address:      reviewer,
		Expertise:    expertise,
		ReviewCount:  0,
		AverageScore: 0,
	}

	common.SetSerialized(ctx, key, r)
	storage.Put(ctx, reviewerCountKey, count+1)

	runtime.Notify("ReviewerRegistered", reviewer, expertise)
	runtime.Log("registerReviewer: reviewer added")
}

// AssignPaper appends a registered reviewer to the paper's assignment list.
// The list holds at most three entries and is append-only; assigning the
// same reviewer twice is not rejected here, the review uniqueness check in
// SubmitReview still holds. Can be invoked only by the contract
// administrator.
func AssignPaper(paperID int, reviewer interop.Hash160) {
	ctx := storage.GetContext()
	if !common.IsAdmin(ctx) {
		panic(ErrNotAuthorized)
	}

	if storage.Get(ctx, reviewerKey(reviewer)) == nil {
		panic(ErrNotRegistered)
	}

	list := common.GetList(ctx, assignKey(paperID))
	if len(list) >= maxReviewersPerPaper {
		panic(ErrInsufficientReviewers)
	}

	list = append(list, reviewer)
	common.SetSerialized(ctx, assignKey(paperID), list)

	runtime.Notify("PaperAssigned", paperID, reviewer)
}

// SubmitReview records an immutable review for the (paper, reviewer) pair,
// pays the fixed reward from the review contract's own token custody and
// updates the reviewer's running average. The review must arrive within the
// review window measured from the paper's submission block; the paper is
// read from the submission contract, a missing paper aborts the whole
// transaction with the submission ledger's not-found error. Callers must
// keep the contract account funded for rewards.
func SubmitReview(reviewer interop.Hash160, paperID int, score int, comments string) {
	ctx := storage.GetContext()
	if common.IsPaused(ctx) {
		panic(ErrPaused)
	}

	if !runtime.CheckWitness(reviewer) {
		panic(ErrNotAuthorized)
	}

	rKey := reviewerKey(reviewer)
	data := storage.Get(ctx, rKey)
	if data == nil {
		panic(ErrNotRegistered)
	}

	if score < 0 || score > maxScore {
		panic(ErrInvalidScore)
	}

	if !isAssigned(ctx, paperID, reviewer) {
		panic(ErrInvalidPaper)
	}

	vKey := reviewKey(paperID, reviewer)
	if storage.Get(ctx, vKey) != nil {
		panic(ErrAlreadyReviewed)
	}

	paper := contract.Call(submissionContract(ctx), "getPaper",
		contract.ReadOnly, paperID).(paperRecord)

	height := ledger.CurrentIndex()
	if height-paper.submissionBlock >= reviewPeriod {
		panic(ErrPeriodExpired)
	}

	rv := Review{
		PaperID:        paperID,
		Reviewer:       reviewer,
		Score:          score,
		Comments:       comments,
		SubmittedBlock: height,
	}
	common.SetSerialized(ctx, vKey, rv)

	if !common.TransferTokens(tokenContract(ctx), runtime.GetExecutingScriptHash(), reviewer, reviewReward) {
		panic("submitReview: failed to pay review reward, aborting")
	}

	r := std.Deserialize(data.([]byte)).(Reviewer)
	r.AverageScore = (r.AverageScore*r.ReviewCount + score) / (r.ReviewCount + 1)
	r.ReviewCount = r.ReviewCount + 1
	common.SetSerialized(ctx, rKey, r)

	runtime.Notify("ReviewSubmitted", paperID, reviewer, score)
	runtime.Log("submitReview: review recorded, reward paid")
}

// FinalizeReview closes a review round for the paper: it computes the
// floored mean of all submitted review scores and forwards the outcome to
// the submission contract as the configured review authority. At least one
// review must exist. Can be invoked only by the contract administrator.
func FinalizeReview(paperID int, accepted bool) {
	ctx := storage.GetContext()
	if !common.IsAdmin(ctx) {
		panic(ErrNotAuthorized)
	}

	list := common.GetList(ctx, assignKey(paperID))

	sum := 0
	n := 0
	for i := 0; i < len(list); i++ {
		// a reviewer assigned more than once still holds a single review
		dup := false
		for j := 0; j < i; j++ {
			if common.BytesEqual(list[j], list[i]) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		data := storage.Get(ctx, reviewKey(paperID, list[i]))
		if data == nil {
			continue
		}

		rv := std.Deserialize(data.([]byte)).(Review)
		sum += rv.Score
		n++
	}

	if n == 0 {
		panic(ErrInsufficientReviewers)
	}

	avg := sum / n
	contract.Call(submissionContract(ctx), "finalizePaper",
		contract.All, paperID, accepted, avg)

	runtime.Notify("ReviewRoundCompleted", paperID, accepted, avg)
	runtime.Log("finalizeReview: outcome forwarded")
}

// GetReviewer returns the registered reviewer record of the account.
func GetReviewer(reviewer interop.Hash160) Reviewer {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, reviewerKey(reviewer))
	if data == nil {
		panic(ErrNotRegistered)
	}

	return std.Deserialize(data.([]byte)).(Reviewer)
}

// GetReview returns the review of the (paper, reviewer) pair, or an empty
// record if none was submitted.
func GetReview(paperID int, reviewer interop.Hash160) Review {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, reviewKey(paperID, reviewer))
	if data == nil {
		return Review{
			PaperID:        0,
			Reviewer:       nil,
			Score:          0,
			Comments:       "",
			SubmittedBlock: 0,
		}
	}

	return std.Deserialize(data.([]byte)).(Review)
}

// GetAssignedReviewers returns the ordered assignment list of the paper, or
// an empty list if nothing was assigned.
func GetAssignedReviewers(paperID int) [][]byte {
	ctx := storage.GetReadOnlyContext()
	return common.GetList(ctx, assignKey(paperID))
}

// ReviewerCount returns the number of registered reviewers.
func ReviewerCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, reviewerCountKey)
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
		runtime.Log("review contract paused")
	} else {
		runtime.Log("review contract resumed")
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
	runtime.Log("review contract administrator changed")
}

// SetPeerContract configures the submission contract address papers are
// read from and finalized on. Can be invoked only by the contract
// administrator.
func SetPeerContract(addr interop.Hash160) {
	ctx := storage.GetContext()
	if !common.IsAdmin(ctx) {
		panic(ErrNotAuthorized)
	}

	if common.IsZeroAddress(addr) {
		panic(ErrZeroAddress)
	}

	storage.Put(ctx, submissionContractKey, addr)
	runtime.Log("review contract submission peer changed")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func isAssigned(ctx storage.Context, paperID int, reviewer interop.Hash160) bool {
	list := common.GetList(ctx, assignKey(paperID))
	for i := 0; i < len(list); i++ {
		if common.BytesEqual(list[i], reviewer) {
			return true
		}
	}

	return false
}

func submissionContract(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, submissionContractKey).(interop.Hash160)
}

func tokenContract(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, tokenContractKey).(interop.Hash160)
}

func reviewerKey(reviewer interop.Hash160) []byte {
	return append([]byte{reviewerPrefix}, reviewer...)
}

func assignKey(paperID int) []byte {
	var buf interface{} = paperID
	return append([]byte{assignPrefix}, buf.([]byte)...)
}

func reviewKey(paperID int, reviewer interop.Hash160) []byte {
	var buf interface{} = paperID
	key := append([]byte{reviewPrefix}, buf.([]byte)...)
	return append(key, reviewer...)
}
