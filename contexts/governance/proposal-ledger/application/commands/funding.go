package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	application "parkpulse/contexts/governance/proposal-ledger/application"
	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	"parkpulse/contexts/governance/proposal-ledger/ports"
)

type SetFundingGoalCommand struct {
	ProposalID uint64
	Goal       uint64
	Caller     string
}

type DonateCommand struct {
	ProposalID uint64
	Amount     uint64
	Donor      string
}

type WithdrawCommand struct {
	ProposalID uint64
	Recipient  string
	Caller     string
}

type WithdrawResult struct {
	Amount uint64
}

// EscrowUseCase manages the post-acceptance fundraising ledger: goal updates,
// append-only donations, and administrator withdrawal through the external
// treasury. Funding becomes enabled when a proposal is accepted with a
// non-zero goal, or when a goal is set after acceptance; once enabled it
// never reverts.
type EscrowUseCase struct {
	Ledger   ports.TxRunner
	Outbox   ports.OutboxWriter
	Admin    AdminGate
	Identity ports.IdentityNormalizer
	Treasury ports.Treasury
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc EscrowUseCase) SetFundingGoal(ctx context.Context, cmd SetFundingGoalCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	admin, err := uc.Admin.Require(cmd.Caller)
	if err != nil {
		return err
	}

	now := resolveNow(uc.Clock)
	err = uc.Ledger.InProposalTx(ctx, cmd.ProposalID, func(tx ports.ProposalTx) error {
		proposal, err := tx.Proposal()
		if err != nil {
			return err
		}
		if proposal.Status != entities.ProposalStatusAccepted {
			return domainerrors.ErrProposalNotOpen
		}
		proposal.FundingGoal = cmd.Goal
		if cmd.Goal > 0 {
			proposal.FundingEnabled = true
		}
		proposal.UpdatedAt = now
		return tx.SaveProposal(proposal)
	})
	if err != nil {
		logger.Warn("funding goal update rejected",
			"event", "ledger_funding_goal_rejected",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"goal", cmd.Goal,
			"error", err.Error(),
		)
		return err
	}

	appendAudit(ctx, uc.Outbox, uc.IDGen, logger, "funding.goal_set", cmd.ProposalID, now, map[string]any{
		"proposal_id": cmd.ProposalID,
		"goal":        cmd.Goal,
		"set_by":      admin,
	})

	logger.Info("funding goal set",
		"event", "ledger_funding_goal_set",
		"module", "governance/proposal-ledger",
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"goal", cmd.Goal,
	)
	return nil
}

// Donate appends one donation record and adds to the running totals. The
// accounting is purely additive, so concurrent donors commute.
func (uc EscrowUseCase) Donate(ctx context.Context, cmd DonateCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.Amount == 0 {
		return domainerrors.ErrInvalidAmount
	}
	donor, err := uc.Identity.Normalize(cmd.Donor)
	if err != nil {
		return err
	}
	donationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}

	now := resolveNow(uc.Clock)
	err = uc.Ledger.InProposalTx(ctx, cmd.ProposalID, func(tx ports.ProposalTx) error {
		proposal, err := tx.Proposal()
		if err != nil {
			return err
		}
		if proposal.Status != entities.ProposalStatusAccepted {
			return domainerrors.ErrProposalNotOpen
		}
		if !proposal.FundingEnabled {
			return domainerrors.ErrFundingDisabled
		}
		// The escrow total must never wrap. raised + withdrawn together bound
		// the lifetime sum of donations at MaxUint64 tinybars.
		if cmd.Amount > math.MaxUint64-proposal.TotalRaised ||
			proposal.TotalRaised+cmd.Amount > math.MaxUint64-proposal.TotalWithdrawn {
			return domainerrors.ErrInvalidAmount
		}
		if err := tx.AppendDonation(entities.Donation{
			DonationID: donationID,
			ProposalID: cmd.ProposalID,
			Donor:      donor,
			Amount:     cmd.Amount,
			DonatedAt:  now,
		}); err != nil {
			return err
		}
		proposal.TotalRaised += cmd.Amount
		proposal.UpdatedAt = now
		return tx.SaveProposal(proposal)
	})
	if err != nil {
		logger.Warn("donation rejected",
			"event", "ledger_donation_rejected",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"donor", donor,
			"amount", cmd.Amount,
			"error", err.Error(),
		)
		return err
	}

	appendAudit(ctx, uc.Outbox, uc.IDGen, logger, "donation.received", cmd.ProposalID, now, map[string]any{
		"proposal_id": cmd.ProposalID,
		"donation_id": donationID,
		"donor":       donor,
		"amount":      cmd.Amount,
	})

	logger.Info("donation recorded",
		"event", "ledger_donation_recorded",
		"module", "governance/proposal-ledger",
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"donor", donor,
		"amount", cmd.Amount,
	)
	return nil
}

// Withdraw transfers the full escrow balance to the recipient. The external
// transfer runs before the balance is cleared and the clearing write commits
// only after the treasury confirms success, so a failed transfer leaves the
// accounted balance intact and the withdrawal retryable.
func (uc EscrowUseCase) Withdraw(ctx context.Context, cmd WithdrawCommand) (WithdrawResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	admin, err := uc.Admin.Require(cmd.Caller)
	if err != nil {
		return WithdrawResult{}, err
	}
	recipient, err := uc.Identity.Normalize(cmd.Recipient)
	if err != nil {
		return WithdrawResult{}, err
	}

	now := resolveNow(uc.Clock)
	var amount uint64
	err = uc.Ledger.InProposalTx(ctx, cmd.ProposalID, func(tx ports.ProposalTx) error {
		proposal, err := tx.Proposal()
		if err != nil {
			return err
		}
		if proposal.TotalRaised == 0 {
			return domainerrors.ErrNothingToWithdraw
		}
		amount = proposal.TotalRaised
		if err := uc.Treasury.Transfer(ctx, amount, recipient); err != nil {
			return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
		}
		proposal.TotalRaised = 0
		proposal.TotalWithdrawn += amount
		proposal.UpdatedAt = now
		return tx.SaveProposal(proposal)
	})
	if err != nil {
		logger.Error("withdrawal failed",
			"event", "ledger_withdraw_failed",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"recipient", recipient,
			"error", err.Error(),
		)
		return WithdrawResult{}, err
	}

	appendAudit(ctx, uc.Outbox, uc.IDGen, logger, "funds.withdrawn", cmd.ProposalID, now, map[string]any{
		"proposal_id": cmd.ProposalID,
		"recipient":   recipient,
		"amount":      amount,
		"approved_by": admin,
	})

	logger.Info("funds withdrawn",
		"event", "ledger_funds_withdrawn",
		"module", "governance/proposal-ledger",
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"recipient", recipient,
		"amount", amount,
	)
	return WithdrawResult{Amount: amount}, nil
}
