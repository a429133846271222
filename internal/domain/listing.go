package domain

import "fmt"

// DeliveryMethod describes how a seller hands over the tickets.
type DeliveryMethod string

const (
	DeliveryElectronic DeliveryMethod = "electronic"
	DeliveryMeetup     DeliveryMethod = "meetup"
	DeliveryOther      DeliveryMethod = "other"
	DeliveryUnknown    DeliveryMethod = "unknown"
)

// Price is a money amount in pence. The marketplace quotes net selling
// prices in minor units, so arithmetic and comparisons stay integral.
type Price int64

// Pounds renders the price as a whole-pound string, e.g. "£45.00".
func (p Price) Pounds() string {
	return fmt.Sprintf("£%d.%02d", p/100, p%100)
}

// Listing is one ticket offer visible in the marketplace feed, rebuilt
// fresh on every poll and never mutated afterwards. ID is stable across
// polls for the same underlying offer and is the dedup key.
type Listing struct {
	ID          string
	SeatCount   int
	Price       Price
	Delivery    DeliveryMethod
	PurchaseURL string

	// Feed context, used for notifications and the console view.
	Section string
	Row     string
	Area    string

	// Available reports whether the offer survived the availability
	// check. Unavailable listings never match any filter.
	Available bool
}

// Describe formats the listing for logs and status lines.
func (l Listing) Describe() string {
	return fmt.Sprintf("section %s row %s, %d seat(s), %s", l.Section, l.Row, l.SeatCount, l.Price.Pounds())
}

// FilterConfig is an immutable snapshot of the user's constraints.
// Seat bounds are inclusive on both ends; MaxPrice of zero means no
// price ceiling.
type FilterConfig struct {
	MinSeats           int
	MaxSeats           int
	MaxPrice           Price
	SkipMeetupDelivery bool
}
