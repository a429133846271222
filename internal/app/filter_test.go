package app

import (
	"testing"

	"github.com/ZTwicket/Twicketer/internal/domain"
)

func TestMatches(t *testing.T) {
	t.Parallel()

	base := domain.Listing{
		ID:          "block-1",
		SeatCount:   2,
		Price:       4500,
		Delivery:    domain.DeliveryElectronic,
		PurchaseURL: "https://example.test/app/block/block-1,2",
		Available:   true,
	}
	filter := domain.FilterConfig{
		MinSeats:           2,
		MaxSeats:           4,
		MaxPrice:           5000,
		SkipMeetupDelivery: true,
	}

	tests := []struct {
		name    string
		mutate  func(l *domain.Listing)
		adjust  func(f *domain.FilterConfig)
		matches bool
	}{
		{name: "all constraints satisfied", matches: true},
		{name: "seat count at min bound", mutate: func(l *domain.Listing) { l.SeatCount = 2 }, matches: true},
		{name: "seat count at max bound", mutate: func(l *domain.Listing) { l.SeatCount = 4 }, matches: true},
		{name: "seat count below min", mutate: func(l *domain.Listing) { l.SeatCount = 1 }, matches: false},
		{name: "seat count above max", mutate: func(l *domain.Listing) { l.SeatCount = 5 }, matches: false},
		{name: "price at max is inclusive", mutate: func(l *domain.Listing) { l.Price = 5000 }, matches: true},
		{name: "price one pence over max", mutate: func(l *domain.Listing) { l.Price = 5001 }, matches: false},
		{name: "no price ceiling admits any price", mutate: func(l *domain.Listing) { l.Price = 999999 }, adjust: func(f *domain.FilterConfig) { f.MaxPrice = 0 }, matches: true},
		{name: "meetup delivery skipped", mutate: func(l *domain.Listing) { l.Delivery = domain.DeliveryMeetup }, matches: false},
		{name: "meetup allowed when skip disabled", mutate: func(l *domain.Listing) { l.Delivery = domain.DeliveryMeetup }, adjust: func(f *domain.FilterConfig) { f.SkipMeetupDelivery = false }, matches: true},
		{name: "unknown delivery passes meetup check", mutate: func(l *domain.Listing) { l.Delivery = domain.DeliveryUnknown }, matches: true},
		{name: "unavailable listing never matches", mutate: func(l *domain.Listing) { l.Available = false }, matches: false},
		{name: "missing purchase url fails closed", mutate: func(l *domain.Listing) { l.PurchaseURL = "" }, matches: false},
		{name: "zero seats fails closed", mutate: func(l *domain.Listing) { l.SeatCount = 0 }, matches: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			listing := base
			f := filter
			if tc.mutate != nil {
				tc.mutate(&listing)
			}
			if tc.adjust != nil {
				tc.adjust(&f)
			}

			got := Matches(listing, f)
			if got != tc.matches {
				t.Fatalf("Matches() = %v, want %v", got, tc.matches)
			}
			// Pure predicate: the same inputs always give the same answer.
			if again := Matches(listing, f); again != got {
				t.Fatalf("Matches() not deterministic: %v then %v", got, again)
			}
		})
	}
}
