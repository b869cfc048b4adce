package commands

import (
	"context"
	"log/slog"

	application "parkpulse/contexts/governance/proposal-ledger/application"
	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	"parkpulse/contexts/governance/proposal-ledger/ports"
)

// ResolveByDeadlineCommand finalizes an expired proposal from its tallies.
type ResolveByDeadlineCommand struct {
	ProposalID uint64
	Caller     string
}

// ForceResolveCommand is the administrative early-closure override.
type ForceResolveCommand struct {
	ProposalID uint64
	Target     entities.ProposalStatus
	Caller     string
}

// ResolveUseCase owns the single Active -> {Accepted, Declined} transition.
// Both paths are administrator-only and valid only while the proposal is
// Active; terminal statuses are frozen afterwards.
type ResolveUseCase struct {
	Ledger ports.TxRunner
	Outbox ports.OutboxWriter
	Admin  AdminGate
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// ResolveByDeadline requires the voting deadline to have passed, then applies
// the majority rule: accepted when yes strictly exceeds no. A tie declines;
// that is a policy default carried over from the contract, not a derived
// necessity.
func (uc ResolveUseCase) ResolveByDeadline(ctx context.Context, cmd ResolveByDeadlineCommand) (entities.ProposalStatus, error) {
	logger := application.ResolveLogger(uc.Logger)
	admin, err := uc.Admin.Require(cmd.Caller)
	if err != nil {
		return "", err
	}

	now := resolveNow(uc.Clock)
	var outcome entities.ProposalStatus
	err = uc.Ledger.InProposalTx(ctx, cmd.ProposalID, func(tx ports.ProposalTx) error {
		proposal, err := tx.Proposal()
		if err != nil {
			return err
		}
		if proposal.Status != entities.ProposalStatusActive {
			return domainerrors.ErrProposalResolved
		}
		if !now.After(proposal.VotingDeadline) {
			return domainerrors.ErrVotingStillOpen
		}
		if proposal.YesVotes > proposal.NoVotes {
			proposal.Status = entities.ProposalStatusAccepted
		} else {
			proposal.Status = entities.ProposalStatusDeclined
		}
		if proposal.Status == entities.ProposalStatusAccepted && proposal.FundingGoal > 0 {
			proposal.FundingEnabled = true
		}
		proposal.UpdatedAt = now
		outcome = proposal.Status
		return tx.SaveProposal(proposal)
	})
	if err != nil {
		logger.Warn("deadline resolution rejected",
			"event", "ledger_resolve_rejected",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"error", err.Error(),
		)
		return "", err
	}

	appendAudit(ctx, uc.Outbox, uc.IDGen, logger, "proposal.resolved", cmd.ProposalID, now, map[string]any{
		"proposal_id": cmd.ProposalID,
		"status":      string(outcome),
		"resolved_by": admin,
		"trigger":     "deadline",
	})

	logger.Info("proposal resolved by deadline",
		"event", "ledger_proposal_resolved",
		"module", "governance/proposal-ledger",
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"status", string(outcome),
	)
	return outcome, nil
}

// ForceResolve sets the target status directly without consulting tallies.
// Used for abuse mitigation and early closure; no timing precondition.
func (uc ResolveUseCase) ForceResolve(ctx context.Context, cmd ForceResolveCommand) (entities.ProposalStatus, error) {
	logger := application.ResolveLogger(uc.Logger)
	admin, err := uc.Admin.Require(cmd.Caller)
	if err != nil {
		return "", err
	}
	if !cmd.Target.Terminal() {
		return "", domainerrors.ErrInvalidProposalInput
	}

	now := resolveNow(uc.Clock)
	err = uc.Ledger.InProposalTx(ctx, cmd.ProposalID, func(tx ports.ProposalTx) error {
		proposal, err := tx.Proposal()
		if err != nil {
			return err
		}
		if proposal.Status != entities.ProposalStatusActive {
			return domainerrors.ErrProposalResolved
		}
		proposal.Status = cmd.Target
		if proposal.Status == entities.ProposalStatusAccepted && proposal.FundingGoal > 0 {
			proposal.FundingEnabled = true
		}
		proposal.UpdatedAt = now
		return tx.SaveProposal(proposal)
	})
	if err != nil {
		logger.Warn("force resolution rejected",
			"event", "ledger_force_resolve_rejected",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"target", string(cmd.Target),
			"error", err.Error(),
		)
		return "", err
	}

	appendAudit(ctx, uc.Outbox, uc.IDGen, logger, "proposal.resolved", cmd.ProposalID, now, map[string]any{
		"proposal_id": cmd.ProposalID,
		"status":      string(cmd.Target),
		"resolved_by": admin,
		"trigger":     "force",
	})

	logger.Info("proposal force resolved",
		"event", "ledger_proposal_force_resolved",
		"module", "governance/proposal-ledger",
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"status", string(cmd.Target),
	)
	return cmd.Target, nil
}
