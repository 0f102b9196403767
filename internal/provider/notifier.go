package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// AdminNotifier posts high-risk alert summaries to an operations webhook.
// No-op when no webhook URL is configured.
type AdminNotifier struct {
	webhookURL string
	logger     *slog.Logger
	client     *http.Client
}

// NewAdminNotifier creates a webhook-based admin notifier.
func NewAdminNotifier(webhookURL string, logger *slog.Logger) *AdminNotifier {
	return &AdminNotifier{
		webhookURL: webhookURL,
		logger:     logger,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify delivers a title and message to the webhook. Delivery failures are
// logged, not returned: alert persistence must never depend on the webhook.
func (n *AdminNotifier) Notify(ctx context.Context, title, message string, details interface{}) {
	if n.webhookURL == "" {
		return
	}

	body, _ := json.Marshal(map[string]interface{}{
		"title":   title,
		"message": message,
		"details": details,
		"sent_at": time.Now().UTC(),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("notifier request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("admin webhook delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Warn("admin webhook rejected notification",
			"status", resp.StatusCode, "error", fmt.Sprintf("status %d", resp.StatusCode))
	}
}
