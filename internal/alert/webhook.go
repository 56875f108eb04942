// Package alert delivers admin notifications to an optional webhook sink.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	logrus "github.com/sirupsen/logrus"
)

// Notifier posts `{"text": message}` to a configured webhook URL. An empty
// URL is a documented no-op, not an error: deployments without an alert
// channel still accept send_admin_alert tool calls.
type Notifier struct {
	url    string
	client *http.Client
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		url:    webhookURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether an actual sink exists.
func (n *Notifier) Configured() bool { return n.url != "" }

// Send delivers the message best-effort. Delivery failures are returned so
// callers can log them, but callers treat the alert as acknowledged anyway.
func (n *Notifier) Send(ctx context.Context, message string) error {
	if n.url == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return fmt.Errorf("encode alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logrus.WithField("status", resp.StatusCode).Warn("admin webhook returned non-2xx")
		return fmt.Errorf("deliver alert: webhook status %d", resp.StatusCode)
	}
	return nil
}
