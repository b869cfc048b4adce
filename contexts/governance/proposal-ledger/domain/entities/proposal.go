package entities

import "time"

type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "active"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusDeclined ProposalStatus = "declined"
)

// Terminal reports whether the status can never change again through the
// deadline resolution path.
func (s ProposalStatus) Terminal() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusDeclined
}

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusActive, ProposalStatusAccepted, ProposalStatusDeclined:
		return true
	}
	return false
}

// EnvironmentalMetrics carries the satellite analysis figures attached at
// proposal creation. Values are fixed-point integers scaled by 1e8, matching
// the contract payload produced by the analysis pipeline. The ledger never
// interprets them.
type EnvironmentalMetrics struct {
	NDVIBefore            int64
	NDVIAfter             int64
	PM25Before            int64
	PM25After             int64
	PM25IncreasePercent   int64
	VegetationLossPercent int64
}

// Demographics is the affected-population snapshot attached at creation.
type Demographics struct {
	Children                int
	Adults                  int
	Seniors                 int
	TotalAffectedPopulation int
}

// Proposal is a single park-removal governance item. IDs are monotonic from 1;
// id 0 is reserved for "does not exist". Amounts are tinybars (1e-8 HBAR).
type Proposal struct {
	ID             uint64
	ParkName       string
	ParkID         string
	Description    string
	VotingDeadline time.Time
	Status         ProposalStatus
	YesVotes       uint64
	NoVotes        uint64
	Environmental  EnvironmentalMetrics
	Demographics   Demographics
	Creator        string
	FundingGoal    uint64
	TotalRaised    uint64
	TotalWithdrawn uint64
	FundingEnabled bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Donation is one append-only escrow contribution to an accepted proposal.
type Donation struct {
	DonationID string
	ProposalID uint64
	Donor      string
	Amount     uint64
	DonatedAt  time.Time
}

// DonationProgress is the derived fundraising view of a proposal.
// Percentage is floor(raised*100/goal); zero when no goal is set.
type DonationProgress struct {
	ProposalID uint64
	Raised     uint64
	Goal       uint64
	Percentage uint64
}
