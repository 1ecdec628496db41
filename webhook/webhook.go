// Package webhook delivers HMAC-signed event notifications for scrape
// completions and session restarts.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/birdwatch-dev/birdwatch/models"
)

// Event is the payload sent to the webhook endpoint.
type Event struct {
	Type      string      `json:"type"` // "scrape.completed", "session.restarted"
	EventID   string      `json:"event_id"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Notifier delivers events to a single configured endpoint. Delivery is
// fire-and-forget: failures are logged, never surfaced to scrape callers.
type Notifier struct {
	url    string
	secret string
	client *http.Client
}

// NewNotifier returns nil when no URL is configured, so callers can use
// a nil check to skip delivery entirely.
func NewNotifier(url, secret string) *Notifier {
	if url == "" {
		return nil
	}
	return &Notifier{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// ScrapeCompleted notifies about one finished scrape operation, success
// or failure. Runs in its own goroutine.
func (n *Notifier) ScrapeCompleted(correlationID string, result *models.ScrapeResult) {
	go n.deliver(&Event{
		Type:      "scrape.completed",
		EventID:   correlationID,
		Timestamp: time.Now().Unix(),
		Data:      result,
	})
}

// SessionRestarted notifies that the browser session was replaced.
func (n *Notifier) SessionRestarted(sessionID string) {
	go n.deliver(&Event{
		Type:      "session.restarted",
		EventID:   sessionID,
		Timestamp: time.Now().Unix(),
	})
}

// deliver sends one event. The request body is signed with HMAC-SHA256
// if a secret is configured. Header: X-Birdwatch-Signature: sha256=<hex>
func (n *Notifier) deliver(event *Event) {
	body, err := json.Marshal(event)
	if err != nil {
		slog.Warn("webhook: marshal event failed", "type", event.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		slog.Warn("webhook: build request failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Birdwatch-Webhook/1.0")

	if n.secret != "" {
		mac := hmac.New(sha256.New, []byte(n.secret))
		mac.Write(body)
		req.Header.Set("X-Birdwatch-Signature", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		slog.Warn("webhook: delivery failed", "type", event.Type, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.Warn("webhook: endpoint rejected event",
			"type", event.Type, "status", resp.StatusCode)
		return
	}
	slog.Debug("webhook delivered", "type", event.Type, "event_id", event.EventID)
}

// Sign computes the signature header value for a body, exported so
// receivers have a reference implementation to verify against.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return fmt.Sprintf("sha256=%s", hex.EncodeToString(mac.Sum(nil)))
}
