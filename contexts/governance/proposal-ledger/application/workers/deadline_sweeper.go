package workers

import (
	"context"
	"errors"
	"log/slog"

	application "parkpulse/contexts/governance/proposal-ledger/application"
	"parkpulse/contexts/governance/proposal-ledger/application/commands"
	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	"parkpulse/contexts/governance/proposal-ledger/ports"
)

// DeadlineSweeper finalizes Active proposals whose voting window has closed.
// It drives the same administrator-gated resolution command external callers
// use, so the sweep cannot bypass any state-machine precondition.
type DeadlineSweeper struct {
	Reader       ports.ProposalReader
	Resolver     commands.ResolveUseCase
	AdminAccount string
	Clock        ports.Clock
	Logger       *slog.Logger
}

// RunOnce resolves every expired Active proposal. Per-proposal failures are
// logged and skipped; a lost race with a concurrent resolution is expected
// and not an error.
func (s DeadlineSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(s.Logger)

	ids, err := s.Reader.ListProposalIDsByStatus(ctx, entities.ProposalStatusActive)
	if err != nil {
		logger.Error("deadline sweep list failed",
			"event", "ledger_sweep_list_failed",
			"module", "governance/proposal-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := s.Clock.Now().UTC()
	resolved := 0
	for _, id := range ids {
		proposal, err := s.Reader.GetProposal(ctx, id)
		if err != nil {
			if errors.Is(err, domainerrors.ErrProposalNotFound) {
				continue
			}
			return err
		}
		if !now.After(proposal.VotingDeadline) {
			continue
		}
		status, err := s.Resolver.ResolveByDeadline(ctx, commands.ResolveByDeadlineCommand{
			ProposalID: id,
			Caller:     s.AdminAccount,
		})
		if err != nil {
			if errors.Is(err, domainerrors.ErrProposalResolved) {
				continue
			}
			logger.Warn("deadline sweep resolution failed",
				"event", "ledger_sweep_resolve_failed",
				"module", "governance/proposal-ledger",
				"layer", "worker",
				"proposal_id", id,
				"error", err.Error(),
			)
			continue
		}
		resolved++
		logger.Info("expired proposal resolved",
			"event", "ledger_sweep_resolved",
			"module", "governance/proposal-ledger",
			"layer", "worker",
			"proposal_id", id,
			"status", string(status),
		)
	}

	if resolved > 0 {
		logger.Info("deadline sweep completed",
			"event", "ledger_sweep_completed",
			"module", "governance/proposal-ledger",
			"layer", "worker",
			"resolved_count", resolved,
		)
	}
	return nil
}
