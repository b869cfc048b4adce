package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "parkpulse/contexts/governance/proposal-ledger/application"
	"parkpulse/contexts/governance/proposal-ledger/ports"
)

// AuditRelay publishes persisted audit outbox records to the consensus topic
// bus. The ledger treats the topic as a best-effort mirror, so the relay only
// has to guarantee at-least-once delivery, never ordering across proposals.
type AuditRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each row
// published only after the bus accepts it. It stops on the first failure so
// the retry loop can reprocess remaining rows safely.
func (r AuditRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("audit outbox list failed",
			"event", "ledger_audit_relay_list_failed",
			"module", "governance/proposal-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	published := 0
	for _, row := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			logger.Error("audit outbox decode failed",
				"event", "ledger_audit_relay_decode_failed",
				"module", "governance/proposal-ledger",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			// An undecodable row can never publish. Retire it so it cannot
			// pin the head of every future batch.
			if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
				return err
			}
			continue
		}
		topic := r.Topic
		if topic == "" {
			topic = envelope.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("audit publish failed",
				"event", "ledger_audit_relay_publish_failed",
				"module", "governance/proposal-ledger",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("audit outbox mark published failed",
				"event", "ledger_audit_relay_mark_failed",
				"module", "governance/proposal-ledger",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		published++
	}

	logger.Info("audit relay cycle completed",
		"event", "ledger_audit_relay_completed",
		"module", "governance/proposal-ledger",
		"layer", "worker",
		"published_count", published,
	)
	return nil
}
