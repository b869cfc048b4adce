package treasury

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainerrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
)

// BridgeClient posts transfers to the external Hedera bridge service. A nil
// return means the bridge confirmed the transfer; callers must not clear any
// accounted balance before that confirmation.
type BridgeClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

type transferRequest struct {
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`
}

type transferResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

func NewBridgeClient(baseURL string, logger *slog.Logger) *BridgeClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &BridgeClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

func (c *BridgeClient) Transfer(ctx context.Context, amount uint64, recipient string) error {
	payload, err := json.Marshal(transferRequest{
		Amount:    amount,
		Recipient: recipient,
	})
	if err != nil {
		return fmt.Errorf("%w: encode transfer request: %v", domainerrors.ErrTransferFailed, err)
	}

	url := c.baseURL + "/api/contract/transfer"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build transfer request: %v", domainerrors.ErrTransferFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("treasury bridge unreachable",
			"event", "treasury_transfer_failed",
			"module", "internal/platform/treasury",
			"layer", "platform",
			"recipient", recipient,
			"amount", amount,
			"error", err.Error(),
		)
		return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("treasury bridge rejected transfer",
			"event", "treasury_transfer_rejected",
			"module", "internal/platform/treasury",
			"layer", "platform",
			"recipient", recipient,
			"amount", amount,
			"status_code", resp.StatusCode,
		)
		return fmt.Errorf("%w: bridge returned %d: %s", domainerrors.ErrTransferFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var confirmed transferResponse
	if err := json.NewDecoder(resp.Body).Decode(&confirmed); err != nil {
		return fmt.Errorf("%w: decode bridge response: %v", domainerrors.ErrTransferFailed, err)
	}

	c.logger.Info("treasury transfer confirmed",
		"event", "treasury_transfer_confirmed",
		"module", "internal/platform/treasury",
		"layer", "platform",
		"recipient", recipient,
		"amount", amount,
		"transaction_id", confirmed.TransactionID,
	)
	return nil
}
