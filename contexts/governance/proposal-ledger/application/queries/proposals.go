package queries

import (
	"context"
	"strings"

	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	"parkpulse/contexts/governance/proposal-ledger/ports"
)

// ProposalQueries is the pure read surface over the proposal registry and
// voting ledger. Reads never block writers and observe committed state only.
type ProposalQueries struct {
	Reader   ports.ProposalReader
	Identity ports.IdentityNormalizer
}

func (q ProposalQueries) GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, error) {
	return q.Reader.GetProposal(ctx, proposalID)
}

// ListByStatus returns proposal ids ascending. The sequence is recomputed on
// every call, never cached.
func (q ProposalQueries) ListByStatus(ctx context.Context, status string) ([]uint64, error) {
	parsed := entities.ProposalStatus(strings.ToLower(strings.TrimSpace(status)))
	if !parsed.Valid() {
		return nil, domainerrors.ErrInvalidStatusFilter
	}
	return q.Reader.ListProposalIDsByStatus(ctx, parsed)
}

func (q ProposalQueries) TotalProposals(ctx context.Context) (uint64, error) {
	return q.Reader.CountProposals(ctx)
}

type VoteCounts struct {
	ProposalID uint64
	YesVotes   uint64
	NoVotes    uint64
}

func (q ProposalQueries) GetVoteCounts(ctx context.Context, proposalID uint64) (VoteCounts, error) {
	proposal, err := q.Reader.GetProposal(ctx, proposalID)
	if err != nil {
		return VoteCounts{}, err
	}
	return VoteCounts{
		ProposalID: proposal.ID,
		YesVotes:   proposal.YesVotes,
		NoVotes:    proposal.NoVotes,
	}, nil
}

func (q ProposalQueries) HasVoted(ctx context.Context, proposalID uint64, account string) (bool, error) {
	_, voted, err := q.GetVote(ctx, proposalID, account)
	return voted, err
}

// GetVote returns the recorded choice and whether the identity voted at all.
func (q ProposalQueries) GetVote(ctx context.Context, proposalID uint64, account string) (choice bool, voted bool, err error) {
	canonical, err := q.Identity.Normalize(account)
	if err != nil {
		return false, false, err
	}
	if _, err := q.Reader.GetProposal(ctx, proposalID); err != nil {
		return false, false, err
	}
	return q.Reader.GetVote(ctx, proposalID, canonical)
}
