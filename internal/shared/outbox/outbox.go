package outbox

// Outbox row persisted inside the same DB transaction as state changes.
// The audit relay reads pending rows and publishes to the consensus topic.
type Message struct {
	ID         string
	EventType  string
	Payload    []byte
	Status     string // pending, published, failed
	RetryCount int
}
