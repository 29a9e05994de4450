// Package notify announces generated insights to external channels. A
// notifier failure never affects evaluation or persistence; notifications
// are best-effort.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nutripick/nutripick/internal/insight"
)

// Notifier posts insight-related notifications to a channel.
type Notifier interface {
	NotifyInsightCreated(ctx context.Context, ins *insight.NutritionInsight) error
}

// New builds a notifier from configuration: a webhook notifier when a URL
// is configured, a noop otherwise.
func New(webhookURL string, logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if webhookURL == "" {
		return NoopNotifier{}
	}
	return &WebhookNotifier{
		url:    webhookURL,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NoopNotifier discards notifications. Used in tests and development.
type NoopNotifier struct{}

// NotifyInsightCreated implements Notifier.
func (NoopNotifier) NotifyInsightCreated(context.Context, *insight.NutritionInsight) error {
	return nil
}

// WebhookNotifier posts a JSON document per insight to a webhook URL.
type WebhookNotifier struct {
	url        string
	logger     *slog.Logger
	httpClient *http.Client
}

// NotifyInsightCreated implements Notifier.
func (n *WebhookNotifier) NotifyInsightCreated(ctx context.Context, ins *insight.NutritionInsight) error {
	payload := map[string]any{
		"event":    "nutrition_image.created",
		"barcode":  ins.Barcode,
		"image_id": ins.ImageID,
		"language": ins.Language,
		"priority": ins.Priority,
		"cropped":  ins.BoundingBox != nil,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}

// MultiNotifier fans a notification out to several channels. Errors are
// logged per channel; the first one is returned.
type MultiNotifier struct {
	Notifiers []Notifier
	Logger    *slog.Logger
}

// NotifyInsightCreated implements Notifier.
func (m *MultiNotifier) NotifyInsightCreated(ctx context.Context, ins *insight.NutritionInsight) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var first error
	for _, n := range m.Notifiers {
		if err := n.NotifyInsightCreated(ctx, ins); err != nil {
			logger.Warn("notification failed", "barcode", ins.Barcode, "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
