package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	"parkpulse/contexts/governance/proposal-ledger/ports"
)

// AdminGate is the single-administrator access check shared by privileged
// commands. Admin is the canonical administrator account fixed at module
// construction.
type AdminGate struct {
	Admin    string
	Identity ports.IdentityNormalizer
}

// Require normalizes the caller identity and rejects anyone but the
// administrator before any state is touched.
func (g AdminGate) Require(caller string) (string, error) {
	canonical, err := g.Identity.Normalize(caller)
	if err != nil {
		return "", err
	}
	if canonical != strings.TrimSpace(g.Admin) {
		return "", domainerrors.ErrNotAdministrator
	}
	return canonical, nil
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

// appendAudit mirrors a mutation to the audit outbox. The outbox is a
// non-critical side channel: failures are logged and never unwind the
// primary operation.
func appendAudit(
	ctx context.Context,
	outbox ports.OutboxWriter,
	idGen ports.IDGenerator,
	logger *slog.Logger,
	eventType string,
	proposalID uint64,
	occurredAt time.Time,
	data map[string]any,
) {
	if outbox == nil {
		return
	}
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		logger.Warn("audit event id allocation failed",
			"event", "ledger_audit_id_failed",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"event_type", eventType,
			"proposal_id", proposalID,
			"error", err.Error(),
		)
		return
	}
	envelope, err := newLedgerEnvelope(eventID, eventType, proposalID, occurredAt, data)
	if err != nil {
		logger.Warn("audit envelope build failed",
			"event", "ledger_audit_envelope_failed",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"event_type", eventType,
			"proposal_id", proposalID,
			"error", err.Error(),
		)
		return
	}
	if err := outbox.AppendOutbox(ctx, envelope); err != nil {
		logger.Warn("audit outbox append failed",
			"event", "ledger_audit_append_failed",
			"module", "governance/proposal-ledger",
			"layer", "application",
			"event_type", eventType,
			"proposal_id", proposalID,
			"error", err.Error(),
		)
	}
}
