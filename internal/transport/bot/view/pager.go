package view

import (
	"fmt"
	"html"
	"strings"

	"wootdeals/internal/domain/entity"
)

const (
	// PageSize is how many deals one page holds before rendering.
	PageSize = 10

	// maxRenderLen bounds a rendered page so it fits a single chat message
	// with headroom for markup.
	maxRenderLen = 1950
)

// Pager slices an immutable result set into pages and renders them as
// Telegram HTML. The deal slice is never mutated, so one Pager can be
// rebuilt from callback data against the current cached set at any time.
type Pager struct {
	deals []entity.Deal
	title string
	page  int
}

func NewPager(deals []entity.Deal, title string) *Pager {
	return &Pager{deals: deals, title: title}
}

func (p *Pager) TotalPages() int {
	if len(p.deals) == 0 {
		return 1
	}

	return (len(p.deals) + PageSize - 1) / PageSize
}

// CurrentPage is 1-based.
func (p *Pager) CurrentPage() int {
	return p.page + 1
}

// SetPage clamps to the valid range, so stale callback data lands on the
// nearest existing page.
func (p *Pager) SetPage(page int) *Pager {
	p.page = clamp(page-1, 0, p.TotalPages()-1)
	return p
}

func (p *Pager) Next() *Pager {
	p.page = clamp(p.page+1, 0, p.TotalPages()-1)
	return p
}

func (p *Pager) Previous() *Pager {
	p.page = clamp(p.page-1, 0, p.TotalPages()-1)
	return p
}

// Render produces the current page. An empty result set renders the fixed
// no-results message regardless of page.
func (p *Pager) Render() string {
	if len(p.deals) == 0 {
		return NoDealsMessage
	}

	start := p.page * PageSize
	end := min(start+PageSize, len(p.deals))
	pageDeals := p.deals[start:end]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✨ <b>%s</b> (Page %d/%d) ✨\n\n",
		html.EscapeString(p.title), p.CurrentPage(), p.TotalPages()))

	var rendered int

	for _, deal := range pageDeals {
		item := formatDeal(deal)

		// A page never splits across messages: once the budget is hit the
		// remaining deals on this page are summarized instead.
		if sb.Len()+len(item) > maxRenderLen {
			if remaining := len(pageDeals) - rendered; remaining > 0 {
				sb.WriteString(fmt.Sprintf(
					"...and %d more deals on this page (character limit reached).", remaining))
			}
			break
		}

		sb.WriteString(item)
		rendered++
	}

	return sb.String()
}

func formatDeal(deal entity.Deal) string {
	var price float64
	if deal.SalePrice != nil {
		price = *deal.SalePrice
	}

	return fmt.Sprintf(
		"<b>%s</b> (%s)\n"+
			"🏷️ <b>%s</b> | <b>%.0f%% OFF</b> | <b>Price:</b> $%.2f (Save $%.2f)\n"+
			"🔗 %s\n\n",
		html.EscapeString(deal.Title),
		html.EscapeString(deal.FeedName),
		deal.Status.Label(),
		deal.DiscountPercent,
		price,
		deal.SavingsAmount,
		deal.URL,
	)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
