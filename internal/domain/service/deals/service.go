package deals

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"wootdeals/internal/domain/entity"
)

// Alert rules. Fixed on purpose: the value of the pipeline is high-precision
// filtering, not configurability.
const (
	MinSalePrice     = 75.00
	MinDollarSavings = 40.00
	MinPercentOff    = 50.0
)

const (
	placeholderOfferID = "N/A"
	placeholderTitle   = "No Title"
	placeholderURL     = "#"
)

// Normalize converts a raw feed item into a canonical Deal. Defaults are
// conservative: a record with missing fields fails the strict filter instead
// of corrupting downstream state (missing sold-out flag means sold out).
func Normalize(raw RawItem, feedName string) entity.Deal {
	deal := entity.Deal{
		OfferID:   raw.OfferID,
		Title:     raw.Title,
		URL:       raw.URL,
		FeedName:  feedName,
		IsSoldOut: true,
	}

	if deal.OfferID == "" {
		deal.OfferID = placeholderOfferID
	}
	if deal.Title == "" {
		deal.Title = placeholderTitle
	}
	if deal.URL == "" {
		deal.URL = placeholderURL
	}
	if raw.IsSoldOut != nil {
		deal.IsSoldOut = *raw.IsSoldOut
	}

	if raw.SalePrice == nil || raw.ListPrice == nil {
		return deal
	}

	saleMin, saleOK := asNumber(raw.SalePrice.Minimum)
	listMin, listOK := asNumber(raw.ListPrice.Minimum)

	if !saleOK || !listOK || listMin <= 0 || listMin <= saleMin {
		return deal
	}

	deal.SalePrice = &saleMin
	deal.ListPrice = &listMin
	deal.DiscountPercent = round2((listMin - saleMin) / listMin * 100)
	deal.SavingsAmount = round2(listMin - saleMin)

	return deal
}

// PassesStrictRules reports whether a deal meets every minimum quality
// requirement.
func PassesStrictRules(deal entity.Deal) bool {
	if deal.SalePrice == nil || deal.IsSoldOut {
		return false
	}

	if *deal.SalePrice < MinSalePrice {
		return false
	}

	if deal.SavingsAmount < MinDollarSavings {
		return false
	}

	if deal.DiscountPercent < MinPercentOff {
		return false
	}

	return true
}

// SortByDiscount orders deals by discount percent, best first. The sort is
// stable: ties keep feed-iteration order.
func SortByDiscount(list []entity.Deal) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].DiscountPercent > list[j].DiscountPercent
	})
}

// ByFeed returns the deals belonging to one feed, preserving order.
func ByFeed(list []entity.Deal, feedName string) []entity.Deal {
	return lo.Filter(list, func(d entity.Deal, _ int) bool {
		return d.FeedName == feedName
	})
}

// Search matches the term against titles case-insensitively and re-sorts the
// matches by discount.
func Search(list []entity.Deal, term string) []entity.Deal {
	term = strings.ToLower(term)

	matches := lo.Filter(list, func(d entity.Deal, _ int) bool {
		return strings.Contains(strings.ToLower(d.Title), term)
	})

	SortByDiscount(matches)

	return matches
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
