// Package notify delivers customer notifications. The webhook notifier posts
// lifecycle events to a configured endpoint (the customer app backend); the
// log notifier is the fallback when no endpoint is configured, so a bare
// deployment still records every notification moment.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/ports"
)

// LogNotifier implements ports.Notifier by writing structured log entries.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

// Notify records the notification moment.
func (n *LogNotifier) Notify(_ context.Context, orderID kernel.UUID, kind ports.EventKind, params map[string]string) error {
	args := []any{"order_id", orderID.String(), "kind", string(kind)}
	for key, value := range params {
		args = append(args, key, value)
	}
	n.logger.Info("customer notification", args...)
	return nil
}

// WebhookNotifier implements ports.Notifier by posting JSON payloads to a
// single endpoint.
type WebhookNotifier struct {
	endpoint string
	client   *http.Client
}

// NewWebhookNotifier creates a notifier posting to the given endpoint.
func NewWebhookNotifier(endpoint string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	OrderID string            `json:"order_id"`
	Kind    string            `json:"kind"`
	Params  map[string]string `json:"params,omitempty"`
}

// Notify posts the event. Any non-2xx response is an error; the caller logs
// and counts it without affecting the order.
func (n *WebhookNotifier) Notify(ctx context.Context, orderID kernel.UUID, kind ports.EventKind, params map[string]string) error {
	body, err := json.Marshal(webhookPayload{
		OrderID: orderID.String(),
		Kind:    string(kind),
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}
