package deals

import (
	"context"

	"wootdeals/internal/domain/entity"
	"wootdeals/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// LowStore is the persisted offer-id → lowest-ever-sale-price mapping.
// Record must be write-through: the in-memory value updates even when the
// flush to disk fails.
type LowStore interface {
	Get(offerID string) (float64, bool)
	Record(ctx context.Context, offerID string, price float64) error
}

// Tracker classifies filter-passing deals against their historical low.
type Tracker struct {
	store LowStore
}

func NewTracker(store LowStore) *Tracker {
	return &Tracker{store: store}
}

// Evaluate assigns the status label for a deal that already passed the
// strict filter and records a new low when the observed sale price is
// strictly below the stored one. The label never affects inclusion: every
// filter-passing deal stays in the result set.
func (t *Tracker) Evaluate(ctx context.Context, deal *entity.Deal) entity.DealStatus {
	if deal.SalePrice == nil {
		deal.Status = entity.GreatDealStatus()
		return deal.Status
	}

	price := *deal.SalePrice

	storedLow, seen := t.store.Get(deal.OfferID)

	// Equal prices are not a new low: strict inequality only.
	if seen && price >= storedLow {
		deal.Status = entity.GreatDealStatus()
		return deal.Status
	}

	if err := t.store.Record(ctx, deal.OfferID, price); err != nil {
		// Durability degraded, in-memory state already holds the new low.
		logger(ctx).Warn("failed to persist historical low",
			"offer_id", deal.OfferID,
			"price", price,
			"error", err,
		)
	}

	if seen {
		deal.Status = entity.PriceDropStatus(storedLow)
	} else {
		deal.Status = entity.NewLowStatus()
	}

	return deal.Status
}
