// Package twickets adapts the Twickets services API to the monitor's
// domain types. It owns all wire shapes and translates HTTP failures
// into the domain error taxonomy; nothing above this package sees a
// status code.
package twickets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ZTwicket/Twicketer/internal/domain"
)

// DefaultBaseURL is the production marketplace origin.
const DefaultBaseURL = "https://www.twickets.live"

// ClientConfig carries the connection settings for the feed client.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	UserAgent string
}

// Client fetches the listing feed for one event. Requests are bounded
// by the injected http.Client's timeout; expiry surfaces as
// domain.ErrTransient.
type Client struct {
	cfg    ClientConfig
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a feed client.
func NewClient(cfg ClientConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

// EventURL is the public page for the monitored event, used in
// notifications.
func (c *Client) EventURL(eventID string) string {
	return fmt.Sprintf("%s/event/%s", c.cfg.BaseURL, eventID)
}

// Fetch returns the current listings for the event, in feed order,
// with availability, delivery method and purchase URL resolved. An
// event with no listings yields an empty slice and nil error. A
// per-listing availability failure degrades that listing to
// unavailable rather than failing the whole cycle.
func (c *Client) Fetch(ctx context.Context, eventID string, cred domain.Credential) ([]domain.Listing, error) {
	url := fmt.Sprintf("%s/services/g2/inventory/listings/%s?api_key=%s", c.cfg.BaseURL, eventID, c.cfg.APIKey)

	var feed listingsResponse
	if err := c.get(ctx, url, cred, &feed); err != nil {
		return nil, err
	}

	listings := make([]domain.Listing, 0, len(feed.ResponseData))
	for _, item := range feed.ResponseData {
		listing, ok := c.toListing(item)
		if !ok {
			c.logger.Debug("skipping malformed feed item", "id", item.ID)
			continue
		}
		c.resolveAvailability(ctx, &listing, cred)
		listings = append(listings, listing)
	}
	return listings, nil
}

// toListing converts a feed item into a domain listing. Items without
// a block id, seat split or price are dropped (fail closed).
func (c *Client) toListing(item listingItem) (domain.Listing, bool) {
	_, blockID, found := strings.Cut(item.ID, "@")
	if !found || blockID == "" {
		return domain.Listing{}, false
	}
	if len(item.Splits) == 0 || item.Splits[0] <= 0 {
		return domain.Listing{}, false
	}
	if len(item.Pricing.Prices) == 0 {
		return domain.Listing{}, false
	}
	return domain.Listing{
		ID:        blockID,
		SeatCount: item.Splits[0],
		Price:     domain.Price(item.Pricing.Prices[0].NetSellingPrice),
		Delivery:  domain.DeliveryUnknown,
		Section:   item.Section,
		Row:       item.Row,
		Area:      item.Area,
	}, true
}

// resolveAvailability fills in Available, Delivery and PurchaseURL from
// the inventory endpoint. Errors leave the listing unavailable.
func (c *Client) resolveAvailability(ctx context.Context, listing *domain.Listing, cred domain.Credential) {
	url := fmt.Sprintf("%s/services/inventory/%s?api_key=%s&qty=%d", c.cfg.BaseURL, listing.ID, c.cfg.APIKey, listing.SeatCount)

	var avail availabilityResponse
	if err := c.get(ctx, url, cred, &avail); err != nil {
		c.logger.Warn("availability check failed", "listing", listing.ID, "error", err)
		return
	}
	if !avail.Available || avail.Block == nil || avail.Block.BlockID == "" {
		return
	}

	listing.Available = true
	listing.Delivery = classifyDelivery(avail.DeliveryPlan)
	listing.PurchaseURL = fmt.Sprintf("%s/app/block/%s,%d", c.cfg.BaseURL, avail.Block.BlockID, listing.SeatCount)
}

func classifyDelivery(plans []deliveryPlan) domain.DeliveryMethod {
	if len(plans) == 0 {
		return domain.DeliveryUnknown
	}
	for _, plan := range plans {
		if plan.DeliveryMethod == deliveryMethodMeetup {
			return domain.DeliveryMeetup
		}
	}
	return domain.DeliveryElectronic
}

// get performs one JSON GET and maps failure statuses onto the domain
// taxonomy.
func (c *Client) get(ctx context.Context, url string, cred domain.Credential, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}
	attachSessionCookies(req, cred.ClientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", domain.ErrAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", domain.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", domain.ErrInvalidEvent, resp.StatusCode)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", domain.ErrTransient, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: unexpected status %d", domain.ErrTransient, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrTransient, err)
	}
	return nil
}
