package rest

// Deal is the wire representation of one qualifying deal.
type Deal struct {
	OfferID         string   `json:"offerId"`
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	FeedName        string   `json:"feedName"`
	SalePrice       *float64 `json:"salePrice,omitempty"`
	ListPrice       *float64 `json:"listPrice,omitempty"`
	DiscountPercent float64  `json:"discountPercent"`
	SavingsAmount   float64  `json:"savingsAmount"`
	Status          string   `json:"status"`
}

// DealsPage is one page of the qualifying deal list.
type DealsPage struct {
	Deals      []Deal `json:"deals"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	TotalDeals int    `json:"totalDeals"`
}

// RefreshResult reports a forced refresh cycle.
type RefreshResult struct {
	TotalDeals int     `json:"totalDeals"`
	ElapsedSec float64 `json:"elapsedSec"`
}

// Error Ошибки API
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
