// Package alert delivers threshold notifications to a webhook endpoint.
// Delivery is strictly best-effort: callers log failures and move on,
// nothing is retried or surfaced to clients.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rusty-replay/replay-be/internal/metrics"
)

type message struct {
	Text string `json:"text"`
}

// Notifier posts {"text": ...} payloads to a configured webhook URL. An
// empty URL disables delivery.
type Notifier struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

func NewNotifier(webhookURL string, logger *zap.Logger) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (n *Notifier) Enabled() bool { return n.webhookURL != "" }

// Send posts a single text alert. Errors are returned so the caller can
// log them, but the fire-and-forget policy belongs to the caller: Send
// itself never retries.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if n.webhookURL == "" {
		return fmt.Errorf("webhook URL not configured")
	}

	body, err := json.Marshal(message{Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status: %d", resp.StatusCode)
	}

	metrics.AlertsSent.Inc()
	return nil
}
