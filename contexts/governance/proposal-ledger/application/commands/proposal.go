package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "parkpulse/contexts/governance/proposal-ledger/application"
	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	"parkpulse/contexts/governance/proposal-ledger/ports"
)

// defaultDescription matches the fallback text the proposal pipeline attaches
// when the submitter provides none.
const defaultDescription = "This park provides green space for the community. " +
	"Its removal would impact air quality and vegetation health."

// CreateProposalCommand is the write-model input for proposal registration.
type CreateProposalCommand struct {
	ParkName           string
	ParkID             string
	Description        string
	VotingDeadline     time.Time
	Environmental      entities.EnvironmentalMetrics
	Demographics       entities.Demographics
	Creator            string
	FundraisingEnabled bool
	FundingGoal        uint64
}

type CreateProposalResult struct {
	ProposalID uint64
	Proposal   entities.Proposal
}

// CreateProposalUseCase registers new proposals. Identifiers are allocated by
// the store, strictly increasing from 1, never reused.
type CreateProposalUseCase struct {
	Ledger   ports.TxRunner
	Outbox   ports.OutboxWriter
	Identity ports.IdentityNormalizer
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// Execute validates inputs, stores the proposal as Active with zeroed tallies
// and disabled funding, and mirrors a creation event to the audit outbox.
// Fundraising is never enabled at creation time; acceptance is the only
// enable path.
func (uc CreateProposalUseCase) Execute(ctx context.Context, cmd CreateProposalCommand) (CreateProposalResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	parkName := strings.TrimSpace(cmd.ParkName)
	parkID := strings.TrimSpace(cmd.ParkID)
	if parkName == "" || parkID == "" || strings.TrimSpace(cmd.Creator) == "" {
		logger.Warn("proposal create validation failed",
			"event", "ledger_proposal_create_validation_failed",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"park_id", parkID,
		)
		return CreateProposalResult{}, domainerrors.ErrInvalidProposalInput
	}
	creator, err := uc.Identity.Normalize(cmd.Creator)
	if err != nil {
		return CreateProposalResult{}, err
	}

	now := resolveNow(uc.Clock)
	if !cmd.VotingDeadline.After(now) {
		return CreateProposalResult{}, domainerrors.ErrDeadlineNotFuture
	}

	description := strings.TrimSpace(cmd.Description)
	if description == "" {
		description = defaultDescription
	}
	goal := uint64(0)
	if cmd.FundraisingEnabled {
		goal = cmd.FundingGoal
	}

	proposal := entities.Proposal{
		ParkName:       parkName,
		ParkID:         parkID,
		Description:    description,
		VotingDeadline: cmd.VotingDeadline.UTC(),
		Status:         entities.ProposalStatusActive,
		Environmental:  cmd.Environmental,
		Demographics:   cmd.Demographics,
		Creator:        creator,
		FundingGoal:    goal,
		FundingEnabled: false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	proposalID, err := uc.Ledger.CreateProposal(ctx, proposal)
	if err != nil {
		logger.Error("proposal create store failed",
			"event", "ledger_proposal_create_store_failed",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"park_id", parkID,
			"error", err.Error(),
		)
		return CreateProposalResult{}, err
	}
	proposal.ID = proposalID

	appendAudit(ctx, uc.Outbox, uc.IDGen, logger, "proposal.created", proposalID, now, map[string]any{
		"proposal_id":  proposalID,
		"park_name":    parkName,
		"park_id":      parkID,
		"creator":      creator,
		"deadline":     proposal.VotingDeadline.Format(time.RFC3339),
		"funding_goal": goal,
	})

	logger.Info("proposal created",
		"event", "ledger_proposal_created",
		"module", "governance/proposal-ledger",
		"layer", "application",
		"proposal_id", proposalID,
		"park_id", parkID,
		"creator", creator,
		"deadline", proposal.VotingDeadline.Format(time.RFC3339),
	)
	return CreateProposalResult{ProposalID: proposalID, Proposal: proposal}, nil
}
