package server

import (
	"wootdeals/internal/domain/entity"
	"wootdeals/pkg/rest"
)

func newRESTDeal(deal entity.Deal) rest.Deal {
	return rest.Deal{
		OfferID:         deal.OfferID,
		Title:           deal.Title,
		URL:             deal.URL,
		FeedName:        deal.FeedName,
		SalePrice:       deal.SalePrice,
		ListPrice:       deal.ListPrice,
		DiscountPercent: deal.DiscountPercent,
		SavingsAmount:   deal.SavingsAmount,
		Status:          deal.Status.Label(),
	}
}
