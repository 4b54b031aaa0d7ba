package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// WebhookNotifier implements Notifier by posting the payload as plain
// JSON to a configured URL, for integrations that are not Discord.
type WebhookNotifier struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// NewWebhookNotifier creates a new WebhookNotifier. Extra headers are
// set on every request (e.g. an Authorization header).
func NewWebhookNotifier(url string, headers map[string]string, opts ...WebhookOption) *WebhookNotifier {
	w := &WebhookNotifier{
		url:     url,
		headers: headers,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithWebhookHTTPClient sets a custom HTTP client.
func WithWebhookHTTPClient(c *http.Client) WebhookOption {
	return func(w *WebhookNotifier) {
		w.client = c
	}
}

// webhookBody is the JSON structure posted to the webhook URL.
type webhookBody struct {
	CheckID   string                 `json:"check_id"`
	CheckedAt time.Time              `json:"checked_at"`
	PageURL   string                 `json:"page_url,omitempty"`
	Rooms     []domain.AvailableRoom `json:"rooms"`
}

// SendAvailability posts the payload as JSON.
func (w *WebhookNotifier) SendAvailability(ctx context.Context, p *Payload) error {
	body, err := json.Marshal(webhookBody{
		CheckID:   p.CheckID,
		CheckedAt: p.CheckedAt,
		PageURL:   p.PageURL,
		Rooms:     p.Rooms,
	})
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}

	return nil
}
