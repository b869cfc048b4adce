package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type EnvironmentalMetricsDTO struct {
	NDVIBefore            int64 `json:"ndvi_before"`
	NDVIAfter             int64 `json:"ndvi_after"`
	PM25Before            int64 `json:"pm25_before"`
	PM25After             int64 `json:"pm25_after"`
	PM25IncreasePercent   int64 `json:"pm25_increase_percent"`
	VegetationLossPercent int64 `json:"vegetation_loss_percent"`
}

type DemographicsDTO struct {
	Children                int `json:"children"`
	Adults                  int `json:"adults"`
	Seniors                 int `json:"seniors"`
	TotalAffectedPopulation int `json:"total_affected_population"`
}

type CreateProposalRequest struct {
	ParkName           string                  `json:"park_name"`
	ParkID             string                  `json:"park_id"`
	Description        string                  `json:"description,omitempty"`
	VotingDeadline     time.Time               `json:"voting_deadline"`
	Environmental      EnvironmentalMetricsDTO `json:"environmental_metrics"`
	Demographics       DemographicsDTO         `json:"demographics"`
	FundraisingEnabled bool                    `json:"fundraising_enabled,omitempty"`
	FundingGoal        uint64                  `json:"funding_goal,omitempty"`
}

type ProposalResponse struct {
	ProposalID     uint64                  `json:"proposal_id"`
	ParkName       string                  `json:"park_name"`
	ParkID         string                  `json:"park_id"`
	Description    string                  `json:"description"`
	VotingDeadline time.Time               `json:"voting_deadline"`
	Status         string                  `json:"status"`
	YesVotes       uint64                  `json:"yes_votes"`
	NoVotes        uint64                  `json:"no_votes"`
	Environmental  EnvironmentalMetricsDTO `json:"environmental_metrics"`
	Demographics   DemographicsDTO         `json:"demographics"`
	Creator        string                  `json:"creator"`
	FundingGoal    uint64                  `json:"funding_goal"`
	TotalRaised    uint64                  `json:"total_raised"`
	TotalWithdrawn uint64                  `json:"total_withdrawn"`
	FundingEnabled bool                    `json:"funding_enabled"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type ProposalListResponse struct {
	Status      string   `json:"status"`
	ProposalIDs []uint64 `json:"proposal_ids"`
	Count       int      `json:"count"`
}

type ContractInfoResponse struct {
	Service        string `json:"service"`
	Network        string `json:"network"`
	AdminAccount   string `json:"admin_account"`
	TotalProposals uint64 `json:"total_proposals"`
}

type CastVoteRequest struct {
	ProposalID uint64 `json:"proposal_id"`
	Support    bool   `json:"support"`
}

type CastVoteResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	YesVotes   uint64 `json:"yes_votes"`
	NoVotes    uint64 `json:"no_votes"`
}

type HasVotedResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	Account    string `json:"account"`
	HasVoted   bool   `json:"has_voted"`
}

type VoteStatusResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	Account    string `json:"account"`
	HasVoted   bool   `json:"has_voted"`
	Support    bool   `json:"support"`
}

type CloseProposalRequest struct {
	ProposalID uint64 `json:"proposal_id"`
}

type ForceCloseRequest struct {
	ProposalID uint64 `json:"proposal_id"`
	Status     string `json:"status"`
}

type ResolutionResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	Status     string `json:"status"`
}

type SetFundingGoalRequest struct {
	ProposalID uint64 `json:"proposal_id"`
	Goal       uint64 `json:"goal"`
}

type DonateRequest struct {
	ProposalID uint64 `json:"proposal_id"`
	Amount     uint64 `json:"amount"`
}

type WithdrawRequest struct {
	ProposalID uint64 `json:"proposal_id"`
	Recipient  string `json:"recipient"`
}

type WithdrawResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	Recipient  string `json:"recipient"`
	Amount     uint64 `json:"amount"`
}

type DonationProgressResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	Raised     uint64 `json:"raised"`
	Goal       uint64 `json:"goal"`
	Percentage uint64 `json:"percentage"`
}

type DonationItem struct {
	DonationID string    `json:"donation_id"`
	ProposalID uint64    `json:"proposal_id"`
	Donor      string    `json:"donor"`
	Amount     uint64    `json:"amount"`
	DonatedAt  time.Time `json:"donated_at"`
}

type DonationsResponse struct {
	ProposalID uint64         `json:"proposal_id"`
	Items      []DonationItem `json:"items"`
}
