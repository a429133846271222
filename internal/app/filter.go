package app

import "github.com/ZTwicket/Twicketer/internal/domain"

// Matches reports whether a listing satisfies every configured
// constraint. Pure: the answer depends only on the listing and the
// filter snapshot. Listings that are unavailable or missing required
// fields never match (fail closed).
func Matches(l domain.Listing, f domain.FilterConfig) bool {
	if !l.Available || l.PurchaseURL == "" {
		return false
	}
	if l.SeatCount < f.MinSeats || l.SeatCount > f.MaxSeats {
		return false
	}
	if f.MaxPrice > 0 && l.Price > f.MaxPrice {
		return false
	}
	if f.SkipMeetupDelivery && l.Delivery == domain.DeliveryMeetup {
		return false
	}
	return true
}
