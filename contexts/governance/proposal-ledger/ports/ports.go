package ports

import (
	"context"
	"time"

	"parkpulse/contexts/governance/proposal-ledger/domain/entities"
)

// ProposalReader is the non-blocking read surface over committed ledger state.
type ProposalReader interface {
	GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, error)
	ListProposalIDsByStatus(ctx context.Context, status entities.ProposalStatus) ([]uint64, error)
	CountProposals(ctx context.Context) (uint64, error)
	GetVote(ctx context.Context, proposalID uint64, voter string) (choice bool, voted bool, err error)
	ListDonations(ctx context.Context, proposalID uint64) ([]entities.Donation, error)
	GetDonorTotal(ctx context.Context, proposalID uint64, donor string) (uint64, error)
}

// ProposalTx is the mutation surface available inside a per-proposal scope.
// Implementations guarantee the reads below observe state that cannot change
// until the scope commits.
type ProposalTx interface {
	Proposal() (entities.Proposal, error)
	SaveProposal(proposal entities.Proposal) error
	HasVoted(voter string) (bool, error)
	RecordVote(voter string, choice bool) error
	AppendDonation(donation entities.Donation) error
}

// TxRunner executes mutations atomically with respect to concurrent calls on
// the same proposal id. Different proposal ids do not contend beyond what the
// underlying store requires.
type TxRunner interface {
	// CreateProposal allocates the next monotonic id (starting at 1) and
	// persists the proposal in a single step. The id is never reused.
	CreateProposal(ctx context.Context, proposal entities.Proposal) (uint64, error)
	InProposalTx(ctx context.Context, proposalID uint64, fn func(tx ProposalTx) error) error
}

// EventEnvelope mirrors contracts/gen/events/v1 for outbox persistence.
type EventEnvelope struct {
	EventID          string    `json:"event_id"`
	EventType        string    `json:"event_type"`
	OccurredAt       time.Time `json:"occurred_at"`
	SourceService    string    `json:"source_service"`
	TraceID          string    `json:"trace_id"`
	SchemaVersion    int       `json:"schema_version"`
	PartitionKeyPath string    `json:"partition_key_path"`
	PartitionKey     string    `json:"partition_key"`
	Data             []byte    `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxWriter records audit events for asynchronous topic publication.
// Commands treat append failures as non-critical: logged, never propagated.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// OutboxRepository is the relay-side view of pending audit records.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher delivers audit envelopes to the consensus topic bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, envelope EventEnvelope) error
}

// IdentityNormalizer canonicalizes external account identifiers (Hedera
// shard.realm.num ids or EVM hex addresses). Malformed input fails with
// domain ErrInvalidIdentity.
type IdentityNormalizer interface {
	Normalize(account string) (string, error)
}

// Treasury is the external value-transfer primitive. A nil error means the
// transfer is durably confirmed by the substrate.
type Treasury interface {
	Transfer(ctx context.Context, amount uint64, recipient string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
