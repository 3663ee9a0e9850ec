package governance_test

import (
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/depubnet/depub-contract/common"
	"github.com/depubnet/depub-contract/governance"
)

const (
	governancePath = "."
	tokenPath      = "../token"

	votingPeriod   = 20
	proposalFee    = 10_000
	maxStakeAmount = 1_000_000_000
)

type govEnv struct {
	e       *neotest.Executor
	gov     *neotest.ContractInvoker
	tok     *neotest.ContractInvoker
	addrGov util.Uint160
}

func newGovEnv(t *testing.T) *govEnv {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)

	cTok := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	e.DeployContract(t, cTok, []interface{}{e.CommitteeHash})

	cGov := neotest.CompileFile(t, e.CommitteeHash, governancePath, path.Join(governancePath, "config.yml"))
	e.DeployContract(t, cGov, []interface{}{e.CommitteeHash, cTok.Hash})

	return &govEnv{
		e:       e,
		gov:     e.CommitteeInvoker(cGov.Hash),
		tok:     e.CommitteeInvoker(cTok.Hash),
		addrGov: cGov.Hash,
	}
}

// fundedStaker creates an account holding balance tokens with staked of them
// locked into governance custody.
func (env *govEnv) fundedStaker(t *testing.T, balance, staked int) neotest.Signer {
	acc := env.gov.NewAccount(t)
	env.tok.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), balance)
	if staked > 0 {
		env.gov.WithSigners(acc).Invoke(t, stackitem.Null{},
			"stakeTokens", acc.ScriptHash(), staked)
	}
	return acc
}

func randomDescription() string {
	return "Proposal " + uuid.NewString()
}

func (env *govEnv) createProposal(t *testing.T, proposer neotest.Signer, expectedID int) {
	env.gov.WithSigners(proposer).Invoke(t, expectedID,
		"createProposal", proposer.ScriptHash(), randomDescription(), 50_000)
}

func (env *govEnv) closeVoting(t *testing.T) {
	for i := 0; i < votingPeriod; i++ {
		env.e.AddNewBlock(t)
	}
}

func getProposalItems(t *testing.T, c *neotest.ContractInvoker, id int) []stackitem.Item {
	s, err := c.TestInvoke(t, "getProposal", id)
	require.NoError(t, err)
	return s.Pop().Array()
}

func TestGovernance_Version(t *testing.T) {
	env := newGovEnv(t)
	env.gov.Invoke(t, common.Version, "version")
}

func TestGovernance_StakeTokens(t *testing.T) {
	env := newGovEnv(t)
	c := env.gov

	acc := env.fundedStaker(t, 1_000_000, 300_000)
	c.Invoke(t, 300_000, "getStakedBalance", acc.ScriptHash())
	c.Invoke(t, 300_000, "totalStaked")
	env.tok.Invoke(t, 700_000, "balanceOf", acc.ScriptHash())
	env.tok.Invoke(t, 300_000, "balanceOf", env.addrGov)

	c.WithSigners(acc).InvokeFail(t, governance.ErrInvalidStake,
		"stakeTokens", acc.ScriptHash(), 0)
	c.WithSigners(acc).InvokeFail(t, "failed to lock tokens",
		"stakeTokens", acc.ScriptHash(), 800_000)
	c.InvokeFail(t, governance.ErrNotAuthorized,
		"stakeTokens", acc.ScriptHash(), 100_000)

	// any funded positive amount stakes, there is no per-account cap
	whale := env.fundedStaker(t, maxStakeAmount+1, maxStakeAmount+1)
	c.Invoke(t, maxStakeAmount+1, "getStakedBalance", whale.ScriptHash())

	c.Invoke(t, stackitem.Null{}, "setPaused", true)
	c.WithSigners(acc).InvokeFail(t, governance.ErrPaused,
		"stakeTokens", acc.ScriptHash(), 100_000)
}

func TestGovernance_UnstakeTokens(t *testing.T) {
	env := newGovEnv(t)
	c := env.gov

	acc := env.fundedStaker(t, 1_000_000, 300_000)

	c.WithSigners(acc).InvokeFail(t, governance.ErrInvalidStake,
		"unstakeTokens", acc.ScriptHash(), 300_001)
	c.WithSigners(acc).InvokeFail(t, governance.ErrInvalidStake,
		"unstakeTokens", acc.ScriptHash(), 0)

	c.WithSigners(acc).Invoke(t, stackitem.Null{},
		"unstakeTokens", acc.ScriptHash(), 100_000)
	c.Invoke(t, 200_000, "getStakedBalance", acc.ScriptHash())
	c.Invoke(t, 200_000, "totalStaked")
	env.tok.Invoke(t, 800_000, "balanceOf", acc.ScriptHash())

	c.WithSigners(acc).Invoke(t, stackitem.Null{},
		"unstakeTokens", acc.ScriptHash(), 200_000)
	c.Invoke(t, 0, "getStakedBalance", acc.ScriptHash())
	c.Invoke(t, 0, "totalStaked")
	env.tok.Invoke(t, 1_000_000, "balanceOf", acc.ScriptHash())

	c.WithSigners(acc).InvokeFail(t, governance.ErrInvalidStake,
		"unstakeTokens", acc.ScriptHash(), 1)
}

func TestGovernance_CreateProposal(t *testing.T) {
	env := newGovEnv(t)
	c := env.gov

	acc := env.fundedStaker(t, 1_000_000, 300_000)
	accH := acc.ScriptHash()

	c.WithSigners(acc).InvokeFail(t, governance.ErrInvalidDescription,
		"createProposal", accH, "short", 50_000)
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	c.WithSigners(acc).InvokeFail(t, governance.ErrInvalidDescription,
		"createProposal", accH, string(long), 50_000)

	c.WithSigners(acc).InvokeFail(t, governance.ErrInvalidAmount,
		"createProposal", accH, randomDescription(), 0)
	c.WithSigners(acc).InvokeFail(t, governance.ErrInvalidAmount,
		"createProposal", accH, randomDescription(), maxStakeAmount+1)

	// only stakers may propose
	outsider := env.fundedStaker(t, 100_000, 0)
	c.WithSigners(outsider).InvokeFail(t, governance.ErrInvalidStake,
		"createProposal", outsider.ScriptHash(), randomDescription(), 50_000)

	env.createProposal(t, acc, 1)
	env.createProposal(t, acc, 2)
	c.Invoke(t, 2, "proposalCount")

	// the flat fee went into contract custody
	env.tok.Invoke(t, 700_000-2*proposalFee, "balanceOf", accH)
	env.tok.Invoke(t, 300_000+2*proposalFee, "balanceOf", env.addrGov)

	items := getProposalItems(t, c, 1)
	require.Equal(t, 9, len(items))
	start, err := items[4].TryInteger()
	require.NoError(t, err)
	end, err := items[5].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, votingPeriod, end.Int64()-start.Int64())
}

func TestGovernance_CastVote(t *testing.T) {
	env := newGovEnv(t)
	c := env.gov

	proposer := env.fundedStaker(t, 1_000_000, 300_000)
	env.createProposal(t, proposer, 1)

	voter := env.fundedStaker(t, 100_000, 50_000)
	voterH := voter.ScriptHash()

	c.WithSigners(voter).InvokeFail(t, governance.ErrInvalidProposal,
		"castVote", voterH, 42, true)
	c.InvokeFail(t, governance.ErrNotAuthorized, "castVote", voterH, 1, true)

	// a never-voted account reads as an absent vote
	c.Invoke(t, stackitem.NewBool(false), "hasVoted", 1, voterH)
	c.Invoke(t, stackitem.NewBool(false), "getVote", 1, voterH)

	c.WithSigners(voter).Invoke(t, stackitem.Null{}, "castVote", voterH, 1, true)
	c.Invoke(t, stackitem.NewBool(true), "hasVoted", 1, voterH)
	c.Invoke(t, stackitem.NewBool(true), "getVote", 1, voterH)

	c.WithSigners(voter).InvokeFail(t, governance.ErrAlreadyVoted,
		"castVote", voterH, 1, false)

	naysayer := env.fundedStaker(t, 100_000, 20_000)
	c.WithSigners(naysayer).Invoke(t, stackitem.Null{},
		"castVote", naysayer.ScriptHash(), 1, false)
	c.Invoke(t, stackitem.NewBool(false), "getVote", 1, naysayer.ScriptHash())

	broke := env.fundedStaker(t, 100_000, 0)
	c.WithSigners(broke).InvokeFail(t, governance.ErrInvalidStake,
		"castVote", broke.ScriptHash(), 1, true)

	// cast weight is snapshotted, later unstaking does not change tallies
	c.WithSigners(voter).Invoke(t, stackitem.Null{},
		"unstakeTokens", voterH, 50_000)
	items := getProposalItems(t, c, 1)
	yes, err := items[6].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 50_000, yes.Int64())
	no, err := items[7].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 20_000, no.Int64())

	env.closeVoting(t)
	c.WithSigners(proposer).InvokeFail(t, governance.ErrVotingClosed,
		"castVote", proposer.ScriptHash(), 1, true)
}

func TestGovernance_ExecuteProposal(t *testing.T) {
	env := newGovEnv(t)
	c := env.gov

	proposer := env.fundedStaker(t, 1_000_000, 300_000)
	env.createProposal(t, proposer, 1)
	c.WithSigners(proposer).Invoke(t, stackitem.Null{},
		"castVote", proposer.ScriptHash(), 1, true)

	c.InvokeFail(t, governance.ErrInvalidProposal, "executeProposal", 1)

	env.closeVoting(t)
	c.InvokeFail(t, governance.ErrInvalidProposal, "executeProposal", 42)

	c.Invoke(t, stackitem.NewBool(true), "executeProposal", 1)
	items := getProposalItems(t, c, 1)
	executed, err := items[8].TryBool()
	require.NoError(t, err)
	require.True(t, executed)

	c.InvokeFail(t, governance.ErrInvalidProposal, "executeProposal", 1)
}

func TestGovernance_ExecuteProposalRejected(t *testing.T) {
	env := newGovEnv(t)
	c := env.gov

	proposer := env.fundedStaker(t, 1_000_000, 100_000)
	naysayer := env.fundedStaker(t, 1_000_000, 100_000)
	env.createProposal(t, proposer, 1)

	c.WithSigners(proposer).Invoke(t, stackitem.Null{},
		"castVote", proposer.ScriptHash(), 1, true)
	c.WithSigners(naysayer).Invoke(t, stackitem.Null{},
		"castVote", naysayer.ScriptHash(), 1, false)

	env.closeVoting(t)

	// a tie does not pass and the proposal stays settleable
	c.Invoke(t, stackitem.NewBool(false), "executeProposal", 1)
	c.Invoke(t, stackitem.NewBool(false), "executeProposal", 1)
}

func TestGovernance_ExecuteProposalQuorum(t *testing.T) {
	env := newGovEnv(t)
	c := env.gov

	proposer := env.fundedStaker(t, 1_000_000, 10_000)
	silent := env.fundedStaker(t, 1_000_000, 200_000)
	env.createProposal(t, proposer, 1)

	c.WithSigners(proposer).Invoke(t, stackitem.Null{},
		"castVote", proposer.ScriptHash(), 1, true)

	env.closeVoting(t)

	// 10k of 210k staked falls short of the 10% quorum
	c.InvokeFail(t, governance.ErrQuorumNotMet, "executeProposal", 1)

	// quorum tracks the total staked at settlement time
	c.WithSigners(silent).Invoke(t, stackitem.Null{},
		"unstakeTokens", silent.ScriptHash(), 200_000)
	c.Invoke(t, stackitem.NewBool(true), "executeProposal", 1)
}

func TestGovernance_Admin(t *testing.T) {
	env := newGovEnv(t)
	c := env.gov
	stranger := c.NewAccount(t)

	c.WithSigners(stranger).InvokeFail(t, governance.ErrNotAuthorized,
		"setPaused", true)
	c.InvokeFail(t, governance.ErrZeroAddress, "transferAdmin", util.Uint160{})
	c.InvokeFail(t, governance.ErrZeroAddress, "setPeerContract", util.Uint160{})

	c.Invoke(t, stackitem.Null{}, "transferAdmin", stranger.ScriptHash())
	c.InvokeFail(t, governance.ErrNotAuthorized, "setPaused", true)
	c.WithSigners(stranger).Invoke(t, stackitem.Null{}, "setPaused", true)

	c.WithSigners(stranger).InvokeFail(t, governance.ErrPaused,
		"executeProposal", 1)
}
