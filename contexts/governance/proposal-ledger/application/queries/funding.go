package queries

import (
	"context"
	"math"
	"math/bits"

	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
	"parkpulse/contexts/governance/proposal-ledger/ports"
)

// FundingQueries reads the escrow side of the ledger.
type FundingQueries struct {
	Reader   ports.ProposalReader
	Identity ports.IdentityNormalizer
}

// DonationProgress reports raised/goal with a floored integer percentage.
// A zero goal always reports zero percent regardless of the amount raised.
func (q FundingQueries) DonationProgress(ctx context.Context, proposalID uint64) (entities.DonationProgress, error) {
	proposal, err := q.Reader.GetProposal(ctx, proposalID)
	if err != nil {
		return entities.DonationProgress{}, err
	}
	progress := entities.DonationProgress{
		ProposalID: proposal.ID,
		Raised:     proposal.TotalRaised,
		Goal:       proposal.FundingGoal,
	}
	if proposal.FundingGoal > 0 {
		// raised*100 goes through a 128-bit intermediate so large tinybar
		// balances stay exact; a quotient beyond uint64 saturates.
		hi, lo := bits.Mul64(proposal.TotalRaised, 100)
		if hi >= proposal.FundingGoal {
			progress.Percentage = math.MaxUint64
		} else {
			progress.Percentage, _ = bits.Div64(hi, lo, proposal.FundingGoal)
		}
	}
	return progress, nil
}

// Donations returns the append-only donation history, oldest first.
func (q FundingQueries) Donations(ctx context.Context, proposalID uint64) ([]entities.Donation, error) {
	if _, err := q.Reader.GetProposal(ctx, proposalID); err != nil {
		return nil, err
	}
	return q.Reader.ListDonations(ctx, proposalID)
}

// DonorTotal returns the running contribution total of one donor.
func (q FundingQueries) DonorTotal(ctx context.Context, proposalID uint64, donor string) (uint64, error) {
	canonical, err := q.Identity.Normalize(donor)
	if err != nil {
		return 0, err
	}
	if _, err := q.Reader.GetProposal(ctx, proposalID); err != nil {
		return 0, err
	}
	return q.Reader.GetDonorTotal(ctx, proposalID, canonical)
}
