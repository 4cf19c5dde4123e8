package entity

import "fmt"

type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusNewLow
	StatusPriceDrop
	StatusGreatDeal
)

// DealStatus labels a qualifying deal relative to its historical low.
// PreviousLow is set for StatusPriceDrop only.
type DealStatus struct {
	Kind        StatusKind
	PreviousLow float64
}

func NewLowStatus() DealStatus {
	return DealStatus{Kind: StatusNewLow}
}

func PriceDropStatus(previousLow float64) DealStatus {
	return DealStatus{Kind: StatusPriceDrop, PreviousLow: previousLow}
}

func GreatDealStatus() DealStatus {
	return DealStatus{Kind: StatusGreatDeal}
}

func (s DealStatus) Label() string {
	switch s.Kind {
	case StatusNewLow:
		return "NEW LOW"
	case StatusPriceDrop:
		return fmt.Sprintf("PRICE DROP (Was $%.2f)", s.PreviousLow)
	case StatusGreatDeal:
		return "GREAT DEAL"
	default:
		return ""
	}
}

// Deal is a normalized feed item. DiscountPercent and SavingsAmount are
// derived only when both price minimums are present, positive and the list
// price strictly exceeds the sale price; otherwise they stay zero and the
// deal cannot pass the strict filter.
type Deal struct {
	OfferID  string `json:"offer_id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	FeedName string `json:"feed_name"`

	SalePrice       *float64 `json:"sale_price,omitempty"`
	ListPrice       *float64 `json:"list_price,omitempty"`
	DiscountPercent float64  `json:"discount_percent"`
	SavingsAmount   float64  `json:"savings_amount"`
	IsSoldOut       bool     `json:"is_sold_out"`

	// Assigned by the historical-low tracker after the deal passed the
	// strict filter.
	Status DealStatus `json:"-"`
}
