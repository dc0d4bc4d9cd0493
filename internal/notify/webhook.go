package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/httpclient"
	"github.com/ternarybob/hotelwatch/internal/interfaces"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// webhookPayload is the JSON body posted for one cycle's alerts.
type webhookPayload struct {
	CycleID string              `json:"cycle_id"`
	Alerts  []models.AlertEvent `json:"alerts"`
	SentAt  time.Time           `json:"sent_at"`
}

// WebhookNotifier posts alert events to an operator-configured HTTP
// endpoint. Delivery is best-effort; a failed post is returned to the
// caller and logged, never retried.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger arbor.ILogger
}

// NewWebhookNotifier creates a webhook-backed notifier.
func NewWebhookNotifier(url string, timeout time.Duration, logger arbor.ILogger) interfaces.Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: httpclient.NewDefaultClient(timeout),
		logger: logger,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, cycleID string, alerts []models.AlertEvent) error {
	payload := webhookPayload{
		CycleID: cycleID,
		Alerts:  alerts,
		SentAt:  time.Now(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver alerts for cycle %s: %w", cycleID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d for cycle %s", resp.StatusCode, cycleID)
	}

	n.logger.Info().
		Str("cycle_id", cycleID).
		Int("alerts", len(alerts)).
		Msg("Delivered alerts to webhook")

	return nil
}
