// Package notify delivers listing alerts through a Discord webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ZTwicket/Twicketer/internal/domain"
)

const (
	colorInfo  = 0x0099ff
	colorFound = 0x00ff00
)

// Discord posts embed messages to a webhook URL. A Discord with an
// empty URL is a no-op, so callers never branch on whether
// notifications are configured.
type Discord struct {
	webhookURL string
	http       *http.Client
}

// NewDiscord creates a webhook notifier.
func NewDiscord(webhookURL string, httpClient *http.Client) *Discord {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Discord{webhookURL: webhookURL, http: httpClient}
}

// Enabled reports whether a webhook URL is configured.
func (d *Discord) Enabled() bool {
	return d.webhookURL != ""
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	URL         string `json:"url,omitempty"`
}

// Started announces that monitoring has begun.
func (d *Discord) Started(ctx context.Context, eventURL string) error {
	return d.send(ctx, embed{
		Title:       "Twicketer started",
		Description: "Monitoring for tickets.",
		Color:       colorInfo,
		URL:         eventURL,
	})
}

// ListingFound announces one qualifying listing with its purchase URL.
func (d *Discord) ListingFound(ctx context.Context, l domain.Listing) error {
	description := fmt.Sprintf(
		"Found an available listing.\n**Section:** %s\n**Row:** %s\n**Seats:** %d\n**Price:** %s\n**Delivery:** %s",
		l.Section, l.Row, l.SeatCount, l.Price.Pounds(), l.Delivery,
	)
	return d.send(ctx, embed{
		Title:       "Ticket found",
		Description: description,
		Color:       colorFound,
		URL:         l.PurchaseURL,
	})
}

func (d *Discord) send(ctx context.Context, e embed) error {
	if d.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(webhookPayload{Embeds: []embed{e}})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
