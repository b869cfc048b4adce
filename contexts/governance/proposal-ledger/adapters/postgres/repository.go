package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	"parkpulse/contexts/governance/proposal-ledger/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository is the durable ledger store. Per-proposal atomicity comes from a
// gorm transaction holding a FOR UPDATE lock on the proposal row for the
// whole command scope; the serial proposal id sequence provides monotonic
// allocation.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates the ledger tables. Called once from the composition
// root on startup.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&proposalModel{},
		&voteModel{},
		&donationModel{},
		&outboxModel{},
	)
}

func (r *Repository) CreateProposal(ctx context.Context, proposal entities.Proposal) (uint64, error) {
	row := proposalModelFromEntity(proposal)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, r.logError("ledger_repo_create_proposal_failed", err,
			"park_id", strings.TrimSpace(proposal.ParkID),
		)
	}
	return row.ID, nil
}

func (r *Repository) InProposalTx(ctx context.Context, proposalID uint64, fn func(tx ports.ProposalTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgTx{db: tx, proposalID: proposalID})
	})
}

func (r *Repository) GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("id = ?", proposalID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, r.logError("ledger_repo_get_proposal_failed", err, "proposal_id", proposalID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListProposalIDsByStatus(ctx context.Context, status entities.ProposalStatus) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&proposalModel{}).
		Where("status = ?", string(status)).
		Order("id ASC").
		Pluck("id", &ids).
		Error
	if err != nil {
		return nil, r.logError("ledger_repo_list_by_status_failed", err, "status", string(status))
	}
	return ids, nil
}

func (r *Repository) CountProposals(ctx context.Context) (uint64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&proposalModel{}).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("ledger_repo_count_proposals_failed", err)
	}
	return uint64(count), nil
}

func (r *Repository) GetVote(ctx context.Context, proposalID uint64, voter string) (bool, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Where("voter = ?", strings.TrimSpace(voter)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, nil
		}
		return false, false, r.logError("ledger_repo_get_vote_failed", err,
			"proposal_id", proposalID,
			"voter", strings.TrimSpace(voter),
		)
	}
	return row.Choice, true, nil
}

func (r *Repository) ListDonations(ctx context.Context, proposalID uint64) ([]entities.Donation, error) {
	var rows []donationModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("created_at ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ledger_repo_list_donations_failed", err, "proposal_id", proposalID)
	}
	items := make([]entities.Donation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetDonorTotal(ctx context.Context, proposalID uint64, donor string) (uint64, error) {
	var total uint64
	err := r.db.WithContext(ctx).
		Model(&donationModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("proposal_id = ?", proposalID).
		Where("donor = ?", strings.TrimSpace(donor)).
		Scan(&total).
		Error
	if err != nil {
		return 0, r.logError("ledger_repo_donor_total_failed", err,
			"proposal_id", proposalID,
			"donor", strings.TrimSpace(donor),
		)
	}
	return total, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	row, err := outboxModelFromEnvelope(envelope)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("ledger_repo_append_outbox_failed", create.Error,
			"event_id", strings.TrimSpace(envelope.EventID),
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ledger_repo_list_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	stamp := publishedAt.UTC()
	update := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &stamp,
		})
	if update.Error != nil {
		return r.logError("ledger_repo_mark_outbox_failed", update.Error, "outbox_id", outboxID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/proposal-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("ledger repository operation failed", fields...)
	return err
}

// pgTx implements the per-proposal mutation scope on top of an open gorm
// transaction. The first Proposal() call takes the row lock; every later
// read/write in the scope sees and mutates locked state.
type pgTx struct {
	db         *gorm.DB
	proposalID uint64
}

func (tx *pgTx) Proposal() (entities.Proposal, error) {
	var row proposalModel
	err := tx.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", tx.proposalID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, err
	}
	return row.toEntity(), nil
}

func (tx *pgTx) SaveProposal(proposal entities.Proposal) error {
	row := proposalModelFromEntity(proposal)
	row.ID = tx.proposalID
	update := tx.db.
		Model(&proposalModel{}).
		Where("id = ?", tx.proposalID).
		Updates(map[string]any{
			"status":          row.Status,
			"yes_votes":       row.YesVotes,
			"no_votes":        row.NoVotes,
			"funding_goal":    row.FundingGoal,
			"total_raised":    row.TotalRaised,
			"total_withdrawn": row.TotalWithdrawn,
			"funding_enabled": row.FundingEnabled,
			"updated_at":      row.UpdatedAt,
		})
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrProposalNotFound
	}
	return nil
}

func (tx *pgTx) HasVoted(voter string) (bool, error) {
	var count int64
	err := tx.db.
		Model(&voteModel{}).
		Where("proposal_id = ?", tx.proposalID).
		Where("voter = ?", strings.TrimSpace(voter)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (tx *pgTx) RecordVote(voter string, choice bool) error {
	row := voteModel{
		ProposalID: tx.proposalID,
		Voter:      strings.TrimSpace(voter),
		Choice:     choice,
		CreatedAt:  time.Now().UTC(),
	}
	if err := tx.db.Create(&row).Error; err != nil {
		// The composite primary key backs invariant "one vote per identity"
		// even against writers outside this row lock.
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return err
	}
	return nil
}

func (tx *pgTx) AppendDonation(donation entities.Donation) error {
	id := strings.TrimSpace(donation.DonationID)
	if id == "" {
		id = uuid.NewString()
	}
	row := donationModel{
		ID:         id,
		ProposalID: tx.proposalID,
		Donor:      strings.TrimSpace(donation.Donor),
		Amount:     donation.Amount,
		CreatedAt:  donation.DonatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return tx.db.Create(&row).Error
}

func outboxModelFromEnvelope(envelope ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return outboxModel{
		OutboxID:     outboxID,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}, nil
}

// SystemClock satisfies ports.Clock with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator satisfies ports.IDGenerator for audit and donation ids.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.TxRunner = (*Repository)(nil)
var _ ports.ProposalReader = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.ProposalTx = (*pgTx)(nil)
