package app

import (
	"context"
	"log/slog"

	"github.com/ZTwicket/Twicketer/internal/domain"
)

// Notifier delivers an out-of-band message about a qualifying listing.
type Notifier interface {
	Started(ctx context.Context, eventURL string) error
	ListingFound(ctx context.Context, l domain.Listing) error
}

// Opener presents a purchase URL for immediate human action.
type Opener interface {
	Open(url string) error
}

// Dispatcher fans a qualifying listing out to the notification sink
// and the purchase-assist opener. The two side effects are
// independent: either may fail without blocking or reversing the
// other, and a failure never un-admits the listing; the URL stays in
// the logs for manual action.
type Dispatcher struct {
	notifier Notifier
	opener   Opener
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(notifier Notifier, opener Opener, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{notifier: notifier, opener: opener, logger: logger}
}

// Dispatch triggers both side effects for one listing and reports
// per-effect success.
func (d *Dispatcher) Dispatch(ctx context.Context, l domain.Listing) DispatchResult {
	result := DispatchResult{Listing: l, Notified: true, Opened: true}

	if err := d.opener.Open(l.PurchaseURL); err != nil {
		result.Opened = false
		d.logger.Error("failed to open purchase link", "listing", l.ID, "url", l.PurchaseURL, "error", err)
	} else {
		d.logger.Info("opened purchase link", "listing", l.ID, "url", l.PurchaseURL, "price", l.Price.Pounds())
	}

	if err := d.notifier.ListingFound(ctx, l); err != nil {
		result.Notified = false
		d.logger.Error("failed to deliver notification", "listing", l.ID, "error", err)
	}

	return result
}

// DispatchResult records which side effects succeeded for one listing.
type DispatchResult struct {
	Listing  domain.Listing
	Notified bool
	Opened   bool
}
