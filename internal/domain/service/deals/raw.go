package deals

// RawItem is one item of a feed response as the upstream serves it. Field
// names follow the upstream's PascalCase JSON. Minimum is typed loosely:
// upstream occasionally ships junk there and the normalizer has to treat
// non-numeric values as absent.
type RawItem struct {
	OfferID   string      `json:"OfferId"`
	Title     string      `json:"Title"`
	URL       string      `json:"Url"`
	IsSoldOut *bool       `json:"IsSoldOut"`
	SalePrice *PriceBlock `json:"SalePrice"`
	ListPrice *PriceBlock `json:"ListPrice"`
}

type PriceBlock struct {
	Minimum any `json:"Minimum"`
}
