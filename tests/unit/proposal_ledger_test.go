package unit

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	proposalledger "parkpulse/contexts/governance/proposal-ledger"
	"parkpulse/contexts/governance/proposal-ledger/adapters/memory"
	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	httptransport "parkpulse/contexts/governance/proposal-ledger/transport/http"
	"parkpulse/internal/platform/identity"
)

const adminAccount = "0.0.2"

type movableClock struct {
	now time.Time
}

func (c *movableClock) Now() time.Time {
	return c.now
}

func (c *movableClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newLedgerModule() (proposalledger.Module, *memory.Store, *memory.Treasury, *movableClock) {
	store := memory.NewStore()
	treasury := memory.NewTreasury()
	clock := &movableClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	module := proposalledger.NewModule(proposalledger.Dependencies{
		Ledger:       store,
		Reader:       store,
		Outbox:       store,
		Identity:     identity.NewNormalizer(),
		Treasury:     treasury,
		Clock:        clock,
		IDGen:        store,
		AdminAccount: adminAccount,
		Network:      "testnet",
	})
	module.Store = store
	module.Treasury = treasury
	return module, store, treasury, clock
}

func createProposal(t *testing.T, module proposalledger.Module, clock *movableClock, creator string) uint64 {
	t.Helper()
	resp, err := module.Handler.CreateProposalHandler(context.Background(), creator, httptransport.CreateProposalRequest{
		ParkName:       "Riverside Commons",
		ParkID:         "park-001",
		VotingDeadline: clock.Now().Add(72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create proposal failed: %v", err)
	}
	return resp.ProposalID
}

func TestCreateProposalAllocatesMonotonicIDs(t *testing.T) {
	module, _, _, clock := newLedgerModule()

	first := createProposal(t, module, clock, "0.0.1001")
	second := createProposal(t, module, clock, "0.0.1002")

	if first != 1 || second != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first, second)
	}

	proposal, err := module.Handler.GetProposalHandler(context.Background(), first)
	if err != nil {
		t.Fatalf("load proposal failed: %v", err)
	}
	if proposal.Status != "active" {
		t.Fatalf("new proposal status: got %q want active", proposal.Status)
	}
	if proposal.YesVotes != 0 || proposal.NoVotes != 0 {
		t.Fatalf("new proposal tallies must be zero, got %d/%d", proposal.YesVotes, proposal.NoVotes)
	}
	if proposal.FundingEnabled {
		t.Fatalf("funding must be disabled at creation")
	}
	if proposal.Description == "" {
		t.Fatalf("empty description must fall back to the default text")
	}
}

func TestCreateProposalValidation(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()

	_, err := module.Handler.CreateProposalHandler(ctx, "0.0.1001", httptransport.CreateProposalRequest{
		ParkID:         "park-001",
		VotingDeadline: clock.Now().Add(time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrInvalidProposalInput) {
		t.Fatalf("missing park name: got %v, want ErrInvalidProposalInput", err)
	}

	_, err = module.Handler.CreateProposalHandler(ctx, "0.0.1001", httptransport.CreateProposalRequest{
		ParkName:       "Riverside Commons",
		ParkID:         "park-001",
		VotingDeadline: clock.Now().Add(-time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrDeadlineNotFuture) {
		t.Fatalf("past deadline: got %v, want ErrDeadlineNotFuture", err)
	}

	_, err = module.Handler.CreateProposalHandler(ctx, "not-an-account", httptransport.CreateProposalRequest{
		ParkName:       "Riverside Commons",
		ParkID:         "park-001",
		VotingDeadline: clock.Now().Add(time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrInvalidIdentity) {
		t.Fatalf("malformed creator: got %v, want ErrInvalidIdentity", err)
	}
}

func TestCastVoteTalliesAndOneVotePerAccount(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := createProposal(t, module, clock, "0.0.1001")

	resp, err := module.Handler.CastVoteHandler(ctx, "0.0.5001", httptransport.CastVoteRequest{
		ProposalID: proposalID,
		Support:    true,
	})
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if resp.YesVotes != 1 || resp.NoVotes != 0 {
		t.Fatalf("tallies after yes vote: got %d/%d want 1/0", resp.YesVotes, resp.NoVotes)
	}

	_, err = module.Handler.CastVoteHandler(ctx, "0.0.5001", httptransport.CastVoteRequest{
		ProposalID: proposalID,
		Support:    false,
	})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("double vote: got %v, want ErrAlreadyVoted", err)
	}

	status, err := module.Handler.GetVoteHandler(ctx, proposalID, "0.0.5001")
	if err != nil {
		t.Fatalf("get vote failed: %v", err)
	}
	if !status.HasVoted || !status.Support {
		t.Fatalf("recorded vote: got voted=%v support=%v want true/true", status.HasVoted, status.Support)
	}
}

func TestCastVoteAfterDeadlineRejected(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := createProposal(t, module, clock, "0.0.1001")

	clock.Advance(96 * time.Hour)
	_, err := module.Handler.CastVoteHandler(ctx, "0.0.5001", httptransport.CastVoteRequest{
		ProposalID: proposalID,
		Support:    true,
	})
	if !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("late vote: got %v, want ErrVotingClosed", err)
	}
}

func TestCastVoteOnMissingProposal(t *testing.T) {
	module, _, _, _ := newLedgerModule()

	_, err := module.Handler.CastVoteHandler(context.Background(), "0.0.5001", httptransport.CastVoteRequest{
		ProposalID: 42,
		Support:    true,
	})
	if !errors.Is(err, domainerrors.ErrProposalNotFound) {
		t.Fatalf("vote on missing proposal: got %v, want ErrProposalNotFound", err)
	}
}

func TestResolveByDeadlineMajorityAccepts(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := createProposal(t, module, clock, "0.0.1001")

	for _, voter := range []string{"0.0.5001", "0.0.5002", "0.0.5003"} {
		if _, err := module.Handler.CastVoteHandler(ctx, voter, httptransport.CastVoteRequest{ProposalID: proposalID, Support: true}); err != nil {
			t.Fatalf("vote by %s failed: %v", voter, err)
		}
	}
	if _, err := module.Handler.CastVoteHandler(ctx, "0.0.5004", httptransport.CastVoteRequest{ProposalID: proposalID, Support: false}); err != nil {
		t.Fatalf("no vote failed: %v", err)
	}

	_, err := module.Handler.CloseProposalHandler(ctx, adminAccount, httptransport.CloseProposalRequest{ProposalID: proposalID})
	if !errors.Is(err, domainerrors.ErrVotingStillOpen) {
		t.Fatalf("close before deadline: got %v, want ErrVotingStillOpen", err)
	}

	clock.Advance(96 * time.Hour)
	_, err = module.Handler.CloseProposalHandler(ctx, "0.0.9999", httptransport.CloseProposalRequest{ProposalID: proposalID})
	if !errors.Is(err, domainerrors.ErrNotAdministrator) {
		t.Fatalf("close by non-admin: got %v, want ErrNotAdministrator", err)
	}

	resolved, err := module.Handler.CloseProposalHandler(ctx, adminAccount, httptransport.CloseProposalRequest{ProposalID: proposalID})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if resolved.Status != "accepted" {
		t.Fatalf("majority yes: got %q want accepted", resolved.Status)
	}

	_, err = module.Handler.CloseProposalHandler(ctx, adminAccount, httptransport.CloseProposalRequest{ProposalID: proposalID})
	if !errors.Is(err, domainerrors.ErrProposalResolved) {
		t.Fatalf("re-close: got %v, want ErrProposalResolved", err)
	}
}

func TestResolveByDeadlineTieDeclines(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := createProposal(t, module, clock, "0.0.1001")

	if _, err := module.Handler.CastVoteHandler(ctx, "0.0.5001", httptransport.CastVoteRequest{ProposalID: proposalID, Support: true}); err != nil {
		t.Fatalf("yes vote failed: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(ctx, "0.0.5002", httptransport.CastVoteRequest{ProposalID: proposalID, Support: false}); err != nil {
		t.Fatalf("no vote failed: %v", err)
	}

	clock.Advance(96 * time.Hour)
	resolved, err := module.Handler.CloseProposalHandler(ctx, adminAccount, httptransport.CloseProposalRequest{ProposalID: proposalID})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if resolved.Status != "declined" {
		t.Fatalf("tie: got %q want declined", resolved.Status)
	}

	_, err = module.Handler.CastVoteHandler(ctx, "0.0.5003", httptransport.CastVoteRequest{ProposalID: proposalID, Support: true})
	if !errors.Is(err, domainerrors.ErrProposalNotActive) {
		t.Fatalf("vote on resolved proposal: got %v, want ErrProposalNotActive", err)
	}
}

func TestForceCloseSkipsTalliesAndTiming(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := createProposal(t, module, clock, "0.0.1001")

	_, err := module.Handler.ForceCloseHandler(ctx, adminAccount, httptransport.ForceCloseRequest{
		ProposalID: proposalID,
		Status:     "active",
	})
	if !errors.Is(err, domainerrors.ErrInvalidProposalInput) {
		t.Fatalf("force-close to non-terminal status: got %v, want ErrInvalidProposalInput", err)
	}

	resolved, err := module.Handler.ForceCloseHandler(ctx, adminAccount, httptransport.ForceCloseRequest{
		ProposalID: proposalID,
		Status:     "declined",
	})
	if err != nil {
		t.Fatalf("force-close failed: %v", err)
	}
	if resolved.Status != "declined" {
		t.Fatalf("force-close: got %q want declined", resolved.Status)
	}
}

func TestListProposalsByStatusAscendingAndRecomputed(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()

	first := createProposal(t, module, clock, "0.0.1001")
	second := createProposal(t, module, clock, "0.0.1002")
	third := createProposal(t, module, clock, "0.0.1003")

	active, err := module.Handler.ListProposalsHandler(ctx, "active")
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(active.ProposalIDs) != 3 || active.ProposalIDs[0] != first || active.ProposalIDs[2] != third {
		t.Fatalf("active ids: got %v want [%d %d %d]", active.ProposalIDs, first, second, third)
	}

	if _, err := module.Handler.ForceCloseHandler(ctx, adminAccount, httptransport.ForceCloseRequest{ProposalID: second, Status: "accepted"}); err != nil {
		t.Fatalf("force-close failed: %v", err)
	}

	active, err = module.Handler.ListProposalsHandler(ctx, "active")
	if err != nil {
		t.Fatalf("list active after close failed: %v", err)
	}
	if len(active.ProposalIDs) != 2 {
		t.Fatalf("active after close: got %v want two ids", active.ProposalIDs)
	}
	accepted, err := module.Handler.ListProposalsHandler(ctx, "accepted")
	if err != nil {
		t.Fatalf("list accepted failed: %v", err)
	}
	if len(accepted.ProposalIDs) != 1 || accepted.ProposalIDs[0] != second {
		t.Fatalf("accepted ids: got %v want [%d]", accepted.ProposalIDs, second)
	}

	if _, err := module.Handler.ListProposalsHandler(ctx, "pending"); !errors.Is(err, domainerrors.ErrInvalidStatusFilter) {
		t.Fatalf("unknown status filter: want ErrInvalidStatusFilter")
	}
}

func acceptWithGoal(t *testing.T, module proposalledger.Module, clock *movableClock, goal uint64) uint64 {
	t.Helper()
	ctx := context.Background()
	resp, err := module.Handler.CreateProposalHandler(ctx, "0.0.1001", httptransport.CreateProposalRequest{
		ParkName:           "Riverside Commons",
		ParkID:             "park-001",
		VotingDeadline:     clock.Now().Add(72 * time.Hour),
		FundraisingEnabled: goal > 0,
		FundingGoal:        goal,
	})
	if err != nil {
		t.Fatalf("create proposal failed: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(ctx, "0.0.5001", httptransport.CastVoteRequest{ProposalID: resp.ProposalID, Support: true}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	clock.Advance(96 * time.Hour)
	if _, err := module.Handler.CloseProposalHandler(ctx, adminAccount, httptransport.CloseProposalRequest{ProposalID: resp.ProposalID}); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	return resp.ProposalID
}

func TestAcceptanceWithGoalEnablesFunding(t *testing.T) {
	module, _, treasury, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := acceptWithGoal(t, module, clock, 1000)

	progress, err := module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: proposalID, Amount: 400})
	if err != nil {
		t.Fatalf("first donation failed: %v", err)
	}
	if progress.Raised != 400 || progress.Percentage != 40 {
		t.Fatalf("after first donation: got raised=%d pct=%d want 400/40", progress.Raised, progress.Percentage)
	}

	progress, err = module.Handler.DonateHandler(ctx, "0.0.6002", httptransport.DonateRequest{ProposalID: proposalID, Amount: 400})
	if err != nil {
		t.Fatalf("second donation failed: %v", err)
	}
	if progress.Raised != 800 || progress.Percentage != 80 {
		t.Fatalf("after second donation: got raised=%d pct=%d want 800/80", progress.Raised, progress.Percentage)
	}

	donations, err := module.Handler.DonationsHandler(ctx, proposalID)
	if err != nil {
		t.Fatalf("list donations failed: %v", err)
	}
	if len(donations.Items) != 2 || donations.Items[0].Donor != "0.0.6001" {
		t.Fatalf("donation history: got %+v", donations.Items)
	}

	withdraw, err := module.Handler.WithdrawHandler(ctx, adminAccount, httptransport.WithdrawRequest{ProposalID: proposalID, Recipient: "0.0.1001"})
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if withdraw.Amount != 800 {
		t.Fatalf("withdraw amount: got %d want 800", withdraw.Amount)
	}
	transfers := treasury.Transfers()
	if len(transfers) != 1 || transfers[0].Amount != 800 || transfers[0].Recipient != "0.0.1001" {
		t.Fatalf("treasury transfers: got %+v", transfers)
	}

	proposal, err := module.Handler.GetProposalHandler(ctx, proposalID)
	if err != nil {
		t.Fatalf("load proposal failed: %v", err)
	}
	if proposal.TotalRaised != 0 || proposal.TotalWithdrawn != 800 {
		t.Fatalf("post-withdraw accounting: raised=%d withdrawn=%d want 0/800", proposal.TotalRaised, proposal.TotalWithdrawn)
	}

	_, err = module.Handler.WithdrawHandler(ctx, adminAccount, httptransport.WithdrawRequest{ProposalID: proposalID, Recipient: "0.0.1001"})
	if !errors.Is(err, domainerrors.ErrNothingToWithdraw) {
		t.Fatalf("withdraw empty escrow: got %v, want ErrNothingToWithdraw", err)
	}
}

func TestDonateRequiresAcceptedAndEnabled(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()

	activeID := createProposal(t, module, clock, "0.0.1001")
	_, err := module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: activeID, Amount: 100})
	if !errors.Is(err, domainerrors.ErrProposalNotOpen) {
		t.Fatalf("donate to active proposal: got %v, want ErrProposalNotOpen", err)
	}

	acceptedNoGoal := acceptWithGoal(t, module, clock, 0)
	_, err = module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: acceptedNoGoal, Amount: 100})
	if !errors.Is(err, domainerrors.ErrFundingDisabled) {
		t.Fatalf("donate before funding enabled: got %v, want ErrFundingDisabled", err)
	}

	_, err = module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: acceptedNoGoal, Amount: 0})
	if !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("zero donation: got %v, want ErrInvalidAmount", err)
	}
}

func TestSetFundingGoalAfterAcceptanceEnablesFunding(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := acceptWithGoal(t, module, clock, 0)

	_, err := module.Handler.SetFundingGoalHandler(ctx, "0.0.9999", httptransport.SetFundingGoalRequest{ProposalID: proposalID, Goal: 500})
	if !errors.Is(err, domainerrors.ErrNotAdministrator) {
		t.Fatalf("goal by non-admin: got %v, want ErrNotAdministrator", err)
	}

	progress, err := module.Handler.SetFundingGoalHandler(ctx, adminAccount, httptransport.SetFundingGoalRequest{ProposalID: proposalID, Goal: 500})
	if err != nil {
		t.Fatalf("set goal failed: %v", err)
	}
	if progress.Goal != 500 {
		t.Fatalf("goal: got %d want 500", progress.Goal)
	}

	if _, err := module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: proposalID, Amount: 100}); err != nil {
		t.Fatalf("donation after goal set failed: %v", err)
	}
}

func TestSetFundingGoalRejectedWhileActive(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	proposalID := createProposal(t, module, clock, "0.0.1001")

	_, err := module.Handler.SetFundingGoalHandler(context.Background(), adminAccount, httptransport.SetFundingGoalRequest{ProposalID: proposalID, Goal: 500})
	if !errors.Is(err, domainerrors.ErrProposalNotOpen) {
		t.Fatalf("goal on active proposal: got %v, want ErrProposalNotOpen", err)
	}
}

func TestWithdrawFailedTransferKeepsBalance(t *testing.T) {
	module, _, treasury, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := acceptWithGoal(t, module, clock, 1000)

	if _, err := module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: proposalID, Amount: 600}); err != nil {
		t.Fatalf("donation failed: %v", err)
	}

	treasury.FailNext(errors.New("bridge timeout"))
	_, err := module.Handler.WithdrawHandler(ctx, adminAccount, httptransport.WithdrawRequest{ProposalID: proposalID, Recipient: "0.0.1001"})
	if !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("failed transfer: got %v, want ErrTransferFailed", err)
	}

	proposal, err := module.Handler.GetProposalHandler(ctx, proposalID)
	if err != nil {
		t.Fatalf("load proposal failed: %v", err)
	}
	if proposal.TotalRaised != 600 || proposal.TotalWithdrawn != 0 {
		t.Fatalf("after failed transfer: raised=%d withdrawn=%d want 600/0", proposal.TotalRaised, proposal.TotalWithdrawn)
	}

	withdraw, err := module.Handler.WithdrawHandler(ctx, adminAccount, httptransport.WithdrawRequest{ProposalID: proposalID, Recipient: "0.0.1001"})
	if err != nil {
		t.Fatalf("retry withdraw failed: %v", err)
	}
	if withdraw.Amount != 600 {
		t.Fatalf("retry amount: got %d want 600", withdraw.Amount)
	}
}

func TestDonationProgressZeroGoalReportsZeroPercent(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := acceptWithGoal(t, module, clock, 0)

	if _, err := module.Handler.SetFundingGoalHandler(ctx, adminAccount, httptransport.SetFundingGoalRequest{ProposalID: proposalID, Goal: 100}); err != nil {
		t.Fatalf("set goal failed: %v", err)
	}
	if _, err := module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: proposalID, Amount: 50}); err != nil {
		t.Fatalf("donation failed: %v", err)
	}
	if _, err := module.Handler.SetFundingGoalHandler(ctx, adminAccount, httptransport.SetFundingGoalRequest{ProposalID: proposalID, Goal: 0}); err != nil {
		t.Fatalf("zero goal update failed: %v", err)
	}

	progress, err := module.Handler.DonationProgressHandler(ctx, proposalID)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if progress.Percentage != 0 {
		t.Fatalf("zero goal percentage: got %d want 0", progress.Percentage)
	}
	if progress.Raised != 50 {
		t.Fatalf("raised after goal cleared: got %d want 50", progress.Raised)
	}
}

func TestDonorTotalsAccumulatePerAccount(t *testing.T) {
	module, store, _, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := acceptWithGoal(t, module, clock, 1000)

	for _, amount := range []uint64{100, 150} {
		if _, err := module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: proposalID, Amount: amount}); err != nil {
			t.Fatalf("donation of %d failed: %v", amount, err)
		}
	}

	total, err := store.GetDonorTotal(ctx, proposalID, "0.0.6001")
	if err != nil {
		t.Fatalf("donor total failed: %v", err)
	}
	if total != 250 {
		t.Fatalf("donor total: got %d want 250", total)
	}
}

func TestIdentityAliasesShareOneVote(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := createProposal(t, module, clock, "0.0.1001")

	if _, err := module.Handler.CastVoteHandler(ctx, "0xde709f2102306220921060314715629080e2fb77", httptransport.CastVoteRequest{ProposalID: proposalID, Support: true}); err != nil {
		t.Fatalf("lowercase alias vote failed: %v", err)
	}
	_, err := module.Handler.CastVoteHandler(ctx, "0xDE709F2102306220921060314715629080E2FB77", httptransport.CastVoteRequest{ProposalID: proposalID, Support: false})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("uppercase alias vote: got %v, want ErrAlreadyVoted", err)
	}
}

func TestDonationRejectsAmountThatWouldWrapEscrow(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()
	proposalID := acceptWithGoal(t, module, clock, 1000)

	half := uint64(1) << 63
	if _, err := module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: proposalID, Amount: half}); err != nil {
		t.Fatalf("first large donation failed: %v", err)
	}
	_, err := module.Handler.DonateHandler(ctx, "0.0.6002", httptransport.DonateRequest{ProposalID: proposalID, Amount: half})
	if !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("wrapping donation: got %v, want ErrInvalidAmount", err)
	}

	proposal, err := module.Handler.GetProposalHandler(ctx, proposalID)
	if err != nil {
		t.Fatalf("load proposal failed: %v", err)
	}
	if proposal.TotalRaised != half {
		t.Fatalf("raised after rejected donation: got %d want %d", proposal.TotalRaised, half)
	}
	donations, err := module.Handler.DonationsHandler(ctx, proposalID)
	if err != nil {
		t.Fatalf("list donations failed: %v", err)
	}
	if len(donations.Items) != 1 {
		t.Fatalf("rejected donation must leave no record, got %d items", len(donations.Items))
	}
}

func TestDonationProgressStaysExactForLargeBalances(t *testing.T) {
	module, _, _, clock := newLedgerModule()
	ctx := context.Background()

	proposalID := acceptWithGoal(t, module, clock, uint64(1)<<62)
	progress, err := module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: proposalID, Amount: uint64(1) << 63})
	if err != nil {
		t.Fatalf("large donation failed: %v", err)
	}
	if progress.Percentage != 200 {
		t.Fatalf("large balance percentage: got %d want 200", progress.Percentage)
	}

	tinyGoalID := acceptWithGoal(t, module, clock, 1)
	progress, err = module.Handler.DonateHandler(ctx, "0.0.6001", httptransport.DonateRequest{ProposalID: tinyGoalID, Amount: math.MaxUint64})
	if err != nil {
		t.Fatalf("max donation failed: %v", err)
	}
	if progress.Percentage != math.MaxUint64 {
		t.Fatalf("saturating percentage: got %d want MaxUint64", progress.Percentage)
	}
}
