package memory

import (
	"context"
	"sync"
)

// Transfer is one confirmed outbound payment recorded by the test treasury.
type Transfer struct {
	Amount    uint64
	Recipient string
}

// Treasury is an in-memory stand-in for the external value-transfer bridge.
// FailNext primes the next call to fail, which lets tests exercise the
// withdraw rollback path.
type Treasury struct {
	mu        sync.Mutex
	transfers []Transfer
	failNext  error
}

func NewTreasury() *Treasury {
	return &Treasury{}
}

func (t *Treasury) FailNext(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failNext = err
}

func (t *Treasury) Transfer(_ context.Context, amount uint64, recipient string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failNext != nil {
		err := t.failNext
		t.failNext = nil
		return err
	}
	t.transfers = append(t.transfers, Transfer{Amount: amount, Recipient: recipient})
	return nil
}

// Transfers returns the confirmed payments in order.
func (t *Treasury) Transfers() []Transfer {
	t.mu.Lock()
	defer t.mu.Unlock()
	items := make([]Transfer, len(t.transfers))
	copy(items, t.transfers)
	return items
}
