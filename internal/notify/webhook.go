package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Webhook delivers reminder notifications by POSTing to a configured URL.
// Delivery is best effort: failures are logged and swallowed, and an empty
// URL disables notifications entirely.
type Webhook struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWebhook creates a Webhook sender. url may be empty.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     slog.Default(),
	}
}

type payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notify posts the notification. It never returns an error.
func (w *Webhook) Notify(ctx context.Context, title, body string) {
	if w.url == "" {
		return
	}

	data, err := json.Marshal(payload{Title: title, Body: body})
	if err != nil {
		w.logger.Warn("marshalling notification", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		w.logger.Warn("creating notification request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.logger.Warn("notification delivery failed", "error", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		w.logger.Warn("notification rejected", "status", resp.StatusCode)
	}
}
