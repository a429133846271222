package twickets

// Wire shapes for the Twickets services API. Every endpoint wraps its
// payload in a responseData envelope.

type loginRequest struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	AccountType string `json:"accountType"`
}

type loginResponse struct {
	ResponseData string `json:"responseData"`
}

type listingsResponse struct {
	ResponseData []listingItem `json:"responseData"`
}

// listingItem is one entry of the event listings feed. The id field is
// "catalogId@blockId"; the block part identifies the offer.
type listingItem struct {
	ID      string      `json:"id"`
	Splits  []int       `json:"splits"`
	Type    string      `json:"type"`
	Area    string      `json:"area"`
	Section string      `json:"section"`
	Row     string      `json:"row"`
	Pricing itemPricing `json:"pricing"`
}

type itemPricing struct {
	Prices []itemPrice `json:"prices"`
}

type itemPrice struct {
	// NetSellingPrice is quoted in pence.
	NetSellingPrice int64 `json:"netSellingPrice"`
}

type availabilityResponse struct {
	Available    bool           `json:"available"`
	Block        *availBlock    `json:"block"`
	DeliveryPlan []deliveryPlan `json:"deliveryPlan"`
}

type availBlock struct {
	BlockID string `json:"blockId"`
}

type deliveryPlan struct {
	DeliveryMethod int    `json:"deliveryMethod"`
	Title          string `json:"title"`
}

// deliveryMethodMeetup is the plan code for in-person handover.
const deliveryMethodMeetup = 1
