package httpadapter

import (
	"context"
	"log/slog"

	"parkpulse/contexts/governance/proposal-ledger/application/commands"
	"parkpulse/contexts/governance/proposal-ledger/application/queries"
	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
	httptransport "parkpulse/contexts/governance/proposal-ledger/transport/http"
)

type Handler struct {
	Proposals     commands.CreateProposalUseCase
	Votes         commands.CastVoteUseCase
	Resolver      commands.ResolveUseCase
	Escrow        commands.EscrowUseCase
	ProposalReads queries.ProposalQueries
	FundingReads  queries.FundingQueries
	AdminAccount  string
	Network       string
	Logger        *slog.Logger
}

// CreateProposalHandler godoc
// @Summary Register a park-removal proposal
// @Description Creates an Active proposal with zeroed tallies; the id is allocated by the ledger.
// @Tags proposal-ledger
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Creator account"
// @Param request body httptransport.CreateProposalRequest true "Proposal payload"
// @Success 201 {object} httptransport.ProposalResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/contract/create-proposal [post]
func (h Handler) CreateProposalHandler(ctx context.Context, creator string, req httptransport.CreateProposalRequest) (httptransport.ProposalResponse, error) {
	result, err := h.Proposals.Execute(ctx, commands.CreateProposalCommand{
		ParkName:       req.ParkName,
		ParkID:         req.ParkID,
		Description:    req.Description,
		VotingDeadline: req.VotingDeadline,
		Environmental: entities.EnvironmentalMetrics{
			NDVIBefore:            req.Environmental.NDVIBefore,
			NDVIAfter:             req.Environmental.NDVIAfter,
			PM25Before:            req.Environmental.PM25Before,
			PM25After:             req.Environmental.PM25After,
			PM25IncreasePercent:   req.Environmental.PM25IncreasePercent,
			VegetationLossPercent: req.Environmental.VegetationLossPercent,
		},
		Demographics: entities.Demographics{
			Children:                req.Demographics.Children,
			Adults:                  req.Demographics.Adults,
			Seniors:                 req.Demographics.Seniors,
			TotalAffectedPopulation: req.Demographics.TotalAffectedPopulation,
		},
		Creator:            creator,
		FundraisingEnabled: req.FundraisingEnabled,
		FundingGoal:        req.FundingGoal,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return mapProposal(result.Proposal), nil
}

// GetProposalHandler godoc
// @Summary Get one proposal
// @Tags proposal-ledger
// @Produce json
// @Param proposal_id path int true "Proposal id"
// @Success 200 {object} httptransport.ProposalResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/contract/proposal/{proposal_id} [get]
func (h Handler) GetProposalHandler(ctx context.Context, proposalID uint64) (httptransport.ProposalResponse, error) {
	proposal, err := h.ProposalReads.GetProposal(ctx, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return mapProposal(proposal), nil
}

// ListProposalsHandler godoc
// @Summary List proposal ids by status
// @Description Returns ids ascending; recomputed on every call.
// @Tags proposal-ledger
// @Produce json
// @Param status query string true "active | accepted | declined"
// @Success 200 {object} httptransport.ProposalListResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/contract/proposals [get]
func (h Handler) ListProposalsHandler(ctx context.Context, status string) (httptransport.ProposalListResponse, error) {
	ids, err := h.ProposalReads.ListByStatus(ctx, status)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	return httptransport.ProposalListResponse{
		Status:      status,
		ProposalIDs: ids,
		Count:       len(ids),
	}, nil
}

// ContractInfoHandler godoc
// @Summary Ledger deployment info
// @Tags proposal-ledger
// @Produce json
// @Success 200 {object} httptransport.ContractInfoResponse
// @Router /api/contract/info [get]
func (h Handler) ContractInfoHandler(ctx context.Context) (httptransport.ContractInfoResponse, error) {
	total, err := h.ProposalReads.TotalProposals(ctx)
	if err != nil {
		return httptransport.ContractInfoResponse{}, err
	}
	return httptransport.ContractInfoResponse{
		Service:        "proposal-ledger",
		Network:        h.Network,
		AdminAccount:   h.AdminAccount,
		TotalProposals: total,
	}, nil
}

// CastVoteHandler godoc
// @Summary Cast a binary vote
// @Description One vote per account per proposal; rejected after the deadline.
// @Tags proposal-ledger
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Voter account"
// @Param request body httptransport.CastVoteRequest true "Vote payload"
// @Success 200 {object} httptransport.CastVoteResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/contract/vote [post]
func (h Handler) CastVoteHandler(ctx context.Context, voter string, req httptransport.CastVoteRequest) (httptransport.CastVoteResponse, error) {
	err := h.Votes.Execute(ctx, commands.CastVoteCommand{
		ProposalID: req.ProposalID,
		Choice:     req.Support,
		Voter:      voter,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	counts, err := h.ProposalReads.GetVoteCounts(ctx, req.ProposalID)
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		ProposalID: counts.ProposalID,
		YesVotes:   counts.YesVotes,
		NoVotes:    counts.NoVotes,
	}, nil
}

// HasVotedHandler godoc
// @Summary Check whether an account has voted
// @Tags proposal-ledger
// @Produce json
// @Param proposal_id path int true "Proposal id"
// @Param account path string true "Account identity"
// @Success 200 {object} httptransport.HasVotedResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/contract/has-voted/{proposal_id}/{account} [get]
func (h Handler) HasVotedHandler(ctx context.Context, proposalID uint64, account string) (httptransport.HasVotedResponse, error) {
	voted, err := h.ProposalReads.HasVoted(ctx, proposalID, account)
	if err != nil {
		return httptransport.HasVotedResponse{}, err
	}
	return httptransport.HasVotedResponse{
		ProposalID: proposalID,
		Account:    account,
		HasVoted:   voted,
	}, nil
}

// GetVoteHandler godoc
// @Summary Get the recorded vote of an account
// @Tags proposal-ledger
// @Produce json
// @Param proposal_id path int true "Proposal id"
// @Param account path string true "Account identity"
// @Success 200 {object} httptransport.VoteStatusResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/contract/vote/{proposal_id}/{account} [get]
func (h Handler) GetVoteHandler(ctx context.Context, proposalID uint64, account string) (httptransport.VoteStatusResponse, error) {
	choice, voted, err := h.ProposalReads.GetVote(ctx, proposalID, account)
	if err != nil {
		return httptransport.VoteStatusResponse{}, err
	}
	return httptransport.VoteStatusResponse{
		ProposalID: proposalID,
		Account:    account,
		HasVoted:   voted,
		Support:    choice,
	}, nil
}

// CloseProposalHandler godoc
// @Summary Resolve an expired proposal from its tallies
// @Description Administrator only; requires the voting deadline to have passed.
// @Tags proposal-ledger
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Administrator account"
// @Param request body httptransport.CloseProposalRequest true "Close payload"
// @Success 200 {object} httptransport.ResolutionResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/contract/close-proposal [post]
func (h Handler) CloseProposalHandler(ctx context.Context, caller string, req httptransport.CloseProposalRequest) (httptransport.ResolutionResponse, error) {
	status, err := h.Resolver.ResolveByDeadline(ctx, commands.ResolveByDeadlineCommand{
		ProposalID: req.ProposalID,
		Caller:     caller,
	})
	if err != nil {
		return httptransport.ResolutionResponse{}, err
	}
	return httptransport.ResolutionResponse{
		ProposalID: req.ProposalID,
		Status:     string(status),
	}, nil
}

// ForceCloseHandler godoc
// @Summary Force a proposal to a terminal status
// @Description Administrator only; bypasses tallies and timing.
// @Tags proposal-ledger
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Administrator account"
// @Param request body httptransport.ForceCloseRequest true "Force-close payload"
// @Success 200 {object} httptransport.ResolutionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/contract/force-close [post]
func (h Handler) ForceCloseHandler(ctx context.Context, caller string, req httptransport.ForceCloseRequest) (httptransport.ResolutionResponse, error) {
	status, err := h.Resolver.ForceResolve(ctx, commands.ForceResolveCommand{
		ProposalID: req.ProposalID,
		Target:     entities.ProposalStatus(req.Status),
		Caller:     caller,
	})
	if err != nil {
		return httptransport.ResolutionResponse{}, err
	}
	return httptransport.ResolutionResponse{
		ProposalID: req.ProposalID,
		Status:     string(status),
	}, nil
}

// SetFundingGoalHandler godoc
// @Summary Set the fundraising goal of an accepted proposal
// @Tags proposal-ledger
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Administrator account"
// @Param request body httptransport.SetFundingGoalRequest true "Goal payload"
// @Success 200 {object} httptransport.DonationProgressResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/contract/set-funding-goal [post]
func (h Handler) SetFundingGoalHandler(ctx context.Context, caller string, req httptransport.SetFundingGoalRequest) (httptransport.DonationProgressResponse, error) {
	err := h.Escrow.SetFundingGoal(ctx, commands.SetFundingGoalCommand{
		ProposalID: req.ProposalID,
		Goal:       req.Goal,
		Caller:     caller,
	})
	if err != nil {
		return httptransport.DonationProgressResponse{}, err
	}
	return h.DonationProgressHandler(ctx, req.ProposalID)
}

// DonateHandler godoc
// @Summary Donate to an accepted proposal
// @Description Requires funding to be enabled and a positive tinybar amount.
// @Tags proposal-ledger
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Donor account"
// @Param request body httptransport.DonateRequest true "Donation payload"
// @Success 200 {object} httptransport.DonationProgressResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/contract/donate [post]
func (h Handler) DonateHandler(ctx context.Context, donor string, req httptransport.DonateRequest) (httptransport.DonationProgressResponse, error) {
	err := h.Escrow.Donate(ctx, commands.DonateCommand{
		ProposalID: req.ProposalID,
		Amount:     req.Amount,
		Donor:      donor,
	})
	if err != nil {
		return httptransport.DonationProgressResponse{}, err
	}
	return h.DonationProgressHandler(ctx, req.ProposalID)
}

// WithdrawHandler godoc
// @Summary Withdraw the full escrow balance
// @Description Administrator only; the balance is cleared only after the treasury confirms the transfer.
// @Tags proposal-ledger
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Administrator account"
// @Param request body httptransport.WithdrawRequest true "Withdrawal payload"
// @Success 200 {object} httptransport.WithdrawResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/contract/withdraw-funds [post]
func (h Handler) WithdrawHandler(ctx context.Context, caller string, req httptransport.WithdrawRequest) (httptransport.WithdrawResponse, error) {
	result, err := h.Escrow.Withdraw(ctx, commands.WithdrawCommand{
		ProposalID: req.ProposalID,
		Recipient:  req.Recipient,
		Caller:     caller,
	})
	if err != nil {
		return httptransport.WithdrawResponse{}, err
	}
	return httptransport.WithdrawResponse{
		ProposalID: req.ProposalID,
		Recipient:  req.Recipient,
		Amount:     result.Amount,
	}, nil
}

// DonationProgressHandler godoc
// @Summary Fundraising progress of a proposal
// @Tags proposal-ledger
// @Produce json
// @Param proposal_id path int true "Proposal id"
// @Success 200 {object} httptransport.DonationProgressResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/contract/donation-progress/{proposal_id} [get]
func (h Handler) DonationProgressHandler(ctx context.Context, proposalID uint64) (httptransport.DonationProgressResponse, error) {
	progress, err := h.FundingReads.DonationProgress(ctx, proposalID)
	if err != nil {
		return httptransport.DonationProgressResponse{}, err
	}
	return httptransport.DonationProgressResponse{
		ProposalID: progress.ProposalID,
		Raised:     progress.Raised,
		Goal:       progress.Goal,
		Percentage: progress.Percentage,
	}, nil
}

// DonationsHandler godoc
// @Summary Donation history of a proposal
// @Tags proposal-ledger
// @Produce json
// @Param proposal_id path int true "Proposal id"
// @Success 200 {object} httptransport.DonationsResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/contract/donations/{proposal_id} [get]
func (h Handler) DonationsHandler(ctx context.Context, proposalID uint64) (httptransport.DonationsResponse, error) {
	donations, err := h.FundingReads.Donations(ctx, proposalID)
	if err != nil {
		return httptransport.DonationsResponse{}, err
	}
	items := make([]httptransport.DonationItem, 0, len(donations))
	for _, donation := range donations {
		items = append(items, httptransport.DonationItem{
			DonationID: donation.DonationID,
			ProposalID: donation.ProposalID,
			Donor:      donation.Donor,
			Amount:     donation.Amount,
			DonatedAt:  donation.DonatedAt,
		})
	}
	return httptransport.DonationsResponse{
		ProposalID: proposalID,
		Items:      items,
	}, nil
}

func mapProposal(proposal entities.Proposal) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
		ProposalID:     proposal.ID,
		ParkName:       proposal.ParkName,
		ParkID:         proposal.ParkID,
		Description:    proposal.Description,
		VotingDeadline: proposal.VotingDeadline,
		Status:         string(proposal.Status),
		YesVotes:       proposal.YesVotes,
		NoVotes:        proposal.NoVotes,
		Environmental: httptransport.EnvironmentalMetricsDTO{
			NDVIBefore:            proposal.Environmental.NDVIBefore,
			NDVIAfter:             proposal.Environmental.NDVIAfter,
			PM25Before:            proposal.Environmental.PM25Before,
			PM25After:             proposal.Environmental.PM25After,
			PM25IncreasePercent:   proposal.Environmental.PM25IncreasePercent,
			VegetationLossPercent: proposal.Environmental.VegetationLossPercent,
		},
		Demographics: httptransport.DemographicsDTO{
			Children:                proposal.Demographics.Children,
			Adults:                  proposal.Demographics.Adults,
			Seniors:                 proposal.Demographics.Seniors,
			TotalAffectedPopulation: proposal.Demographics.TotalAffectedPopulation,
		},
		Creator:        proposal.Creator,
		FundingGoal:    proposal.FundingGoal,
		TotalRaised:    proposal.TotalRaised,
		TotalWithdrawn: proposal.TotalWithdrawn,
		FundingEnabled: proposal.FundingEnabled,
		CreatedAt:      proposal.CreatedAt,
		UpdatedAt:      proposal.UpdatedAt,
	}
}
