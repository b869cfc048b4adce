package commands

import (
	"context"
	"log/slog"

	application "parkpulse/contexts/governance/proposal-ledger/application"
	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	"parkpulse/contexts/governance/proposal-ledger/ports"
)

// CastVoteCommand records one binary vote for a proposal.
type CastVoteCommand struct {
	ProposalID uint64
	Choice     bool
	Voter      string
}

// CastVoteUseCase enforces the voting preconditions in their contractual
// order: proposal exists, proposal is active, voter has not voted, deadline
// not passed. The check-and-record sequence runs inside the per-proposal
// transactional scope so two concurrent votes from one identity cannot both
// succeed.
type CastVoteUseCase struct {
	Ledger   ports.TxRunner
	Outbox   ports.OutboxWriter
	Identity ports.IdentityNormalizer
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc CastVoteUseCase) Execute(ctx context.Context, cmd CastVoteCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	voter, err := uc.Identity.Normalize(cmd.Voter)
	if err != nil {
		logger.Warn("vote identity rejected",
			"event", "ledger_vote_identity_rejected",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
		)
		return err
	}

	now := resolveNow(uc.Clock)
	err = uc.Ledger.InProposalTx(ctx, cmd.ProposalID, func(tx ports.ProposalTx) error {
		proposal, err := tx.Proposal()
		if err != nil {
			return err
		}
		if proposal.Status != entities.ProposalStatusActive {
			return domainerrors.ErrProposalNotActive
		}
		voted, err := tx.HasVoted(voter)
		if err != nil {
			return err
		}
		if voted {
			return domainerrors.ErrAlreadyVoted
		}
		if now.After(proposal.VotingDeadline) {
			return domainerrors.ErrVotingClosed
		}
		if err := tx.RecordVote(voter, cmd.Choice); err != nil {
			return err
		}
		if cmd.Choice {
			proposal.YesVotes++
		} else {
			proposal.NoVotes++
		}
		proposal.UpdatedAt = now
		return tx.SaveProposal(proposal)
	})
	if err != nil {
		logger.Warn("vote rejected",
			"event", "ledger_vote_rejected",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"voter", voter,
			"error", err.Error(),
		)
		return err
	}

	appendAudit(ctx, uc.Outbox, uc.IDGen, logger, "vote.cast", cmd.ProposalID, now, map[string]any{
		"proposal_id": cmd.ProposalID,
		"voter":       voter,
		"choice":      cmd.Choice,
	})

	logger.Info("vote recorded",
		"event", "ledger_vote_recorded",
		"module", "governance/proposal-ledger",
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"voter", voter,
		"choice", cmd.Choice,
	)
	return nil
}
