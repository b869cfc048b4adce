package commands

import (
	"encoding/json"
	"strconv"
	"time"

	"parkpulse/contexts/governance/proposal-ledger/ports"
)

func newLedgerEnvelope(
	eventID string,
	eventType string,
	proposalID uint64,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Audit events are partitioned by proposal so topic consumers observe a
	// stable per-proposal ordering.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "proposal-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "proposal_id",
		PartitionKey:     strconv.FormatUint(proposalID, 10),
		Data:             payload,
	}, nil
}
