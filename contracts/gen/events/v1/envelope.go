package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the versioned wire shape for governance audit events mirrored
// from the proposal ledger outbox to the consensus topic. External consumers
// decode by schema_version, so changes must stay backward compatible; the
// in-process copy lives in the ledger's ports package.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}
