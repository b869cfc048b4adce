package postgresadapter

import (
	"errors"
	"strings"
	"time"

	"parkpulse/contexts/governance/proposal-ledger/domain/entities"

	"github.com/jackc/pgx/v5/pgconn"
)

type proposalModel struct {
	ID                      uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ParkName                string    `gorm:"column:park_name"`
	ParkID                  string    `gorm:"column:park_id"`
	Description             string    `gorm:"column:description"`
	VotingDeadline          time.Time `gorm:"column:voting_deadline"`
	Status                  string    `gorm:"column:status;index"`
	YesVotes                uint64    `gorm:"column:yes_votes"`
	NoVotes                 uint64    `gorm:"column:no_votes"`
	NDVIBefore              int64     `gorm:"column:ndvi_before"`
	NDVIAfter               int64     `gorm:"column:ndvi_after"`
	PM25Before              int64     `gorm:"column:pm25_before"`
	PM25After               int64     `gorm:"column:pm25_after"`
	PM25IncreasePercent     int64     `gorm:"column:pm25_increase_percent"`
	VegetationLossPercent   int64     `gorm:"column:vegetation_loss_percent"`
	Children                int       `gorm:"column:children"`
	Adults                  int       `gorm:"column:adults"`
	Seniors                 int       `gorm:"column:seniors"`
	TotalAffectedPopulation int       `gorm:"column:total_affected_population"`
	Creator                 string    `gorm:"column:creator"`
	FundingGoal             uint64    `gorm:"column:funding_goal"`
	TotalRaised             uint64    `gorm:"column:total_raised"`
	TotalWithdrawn          uint64    `gorm:"column:total_withdrawn"`
	FundingEnabled          bool      `gorm:"column:funding_enabled"`
	CreatedAt               time.Time `gorm:"column:created_at"`
	UpdatedAt               time.Time `gorm:"column:updated_at"`
}

func (proposalModel) TableName() string {
	return "governance_proposals"
}

func proposalModelFromEntity(proposal entities.Proposal) proposalModel {
	return proposalModel{
		ID:                      proposal.ID,
		ParkName:                strings.TrimSpace(proposal.ParkName),
		ParkID:                  strings.TrimSpace(proposal.ParkID),
		Description:             proposal.Description,
		VotingDeadline:          proposal.VotingDeadline.UTC(),
		Status:                  string(proposal.Status),
		YesVotes:                proposal.YesVotes,
		NoVotes:                 proposal.NoVotes,
		NDVIBefore:              proposal.Environmental.NDVIBefore,
		NDVIAfter:               proposal.Environmental.NDVIAfter,
		PM25Before:              proposal.Environmental.PM25Before,
		PM25After:               proposal.Environmental.PM25After,
		PM25IncreasePercent:     proposal.Environmental.PM25IncreasePercent,
		VegetationLossPercent:   proposal.Environmental.VegetationLossPercent,
		Children:                proposal.Demographics.Children,
		Adults:                  proposal.Demographics.Adults,
		Seniors:                 proposal.Demographics.Seniors,
		TotalAffectedPopulation: proposal.Demographics.TotalAffectedPopulation,
		Creator:                 strings.TrimSpace(proposal.Creator),
		FundingGoal:             proposal.FundingGoal,
		TotalRaised:             proposal.TotalRaised,
		TotalWithdrawn:          proposal.TotalWithdrawn,
		FundingEnabled:          proposal.FundingEnabled,
		CreatedAt:               proposal.CreatedAt.UTC(),
		UpdatedAt:               proposal.UpdatedAt.UTC(),
	}
}

func (m proposalModel) toEntity() entities.Proposal {
	return entities.Proposal{
		ID:             m.ID,
		ParkName:       m.ParkName,
		ParkID:         m.ParkID,
		Description:    m.Description,
		VotingDeadline: m.VotingDeadline.UTC(),
		Status:         entities.ProposalStatus(m.Status),
		YesVotes:       m.YesVotes,
		NoVotes:        m.NoVotes,
		Environmental: entities.EnvironmentalMetrics{
			NDVIBefore:            m.NDVIBefore,
			NDVIAfter:             m.NDVIAfter,
			PM25Before:            m.PM25Before,
			PM25After:             m.PM25After,
			PM25IncreasePercent:   m.PM25IncreasePercent,
			VegetationLossPercent: m.VegetationLossPercent,
		},
		Demographics: entities.Demographics{
			Children:                m.Children,
			Adults:                  m.Adults,
			Seniors:                 m.Seniors,
			TotalAffectedPopulation: m.TotalAffectedPopulation,
		},
		Creator:        m.Creator,
		FundingGoal:    m.FundingGoal,
		TotalRaised:    m.TotalRaised,
		TotalWithdrawn: m.TotalWithdrawn,
		FundingEnabled: m.FundingEnabled,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type voteModel struct {
	ProposalID uint64    `gorm:"column:proposal_id;primaryKey;autoIncrement:false"`
	Voter      string    `gorm:"column:voter;primaryKey"`
	Choice     bool      `gorm:"column:choice"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "governance_votes"
}

type donationModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ProposalID uint64    `gorm:"column:proposal_id;index"`
	Donor      string    `gorm:"column:donor;index"`
	Amount     uint64    `gorm:"column:amount"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (donationModel) TableName() string {
	return "governance_donations"
}

func (m donationModel) toEntity() entities.Donation {
	return entities.Donation{
		DonationID: m.ID,
		ProposalID: m.ProposalID,
		Donor:      m.Donor,
		Amount:     m.Amount,
		DonatedAt:  m.CreatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "governance_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
