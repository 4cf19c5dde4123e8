package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"git.appkode.ru/pub/go/failure"

	"wootdeals/internal/domain"
	"wootdeals/internal/domain/entity"
	"wootdeals/internal/domain/service/deals"
	"wootdeals/pkg/errcodes"
	"wootdeals/pkg/httpx/reply"
	"wootdeals/pkg/lox"
	"wootdeals/pkg/rest"
)

const pageSize = 10

type dealSource interface {
	Deals(ctx context.Context, force bool) ([]entity.Deal, error)
}

type DealServer struct {
	source dealSource
}

func NewDealServer(source dealSource) DealServer {
	return DealServer{
		source: source,
	}
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		return err
	}

	list, err := s.source.Deals(ctx, false)
	if err != nil {
		return mapDealsError(err)
	}

	if feed := r.URL.Query().Get("feed"); feed != "" {
		list = deals.ByFeed(list, feed)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDealsPage(list, page))

	return nil
}

func (s DealServer) getV1DealsSearch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	term := r.URL.Query().Get("q")
	if term == "" {
		return failure.NewInvalidArgumentError(
			"query parameter q is required",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("query parameter q is required"),
		)
	}

	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		return err
	}

	list, err := s.source.Deals(ctx, false)
	if err != nil {
		return mapDealsError(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDealsPage(deals.Search(list, term), page))

	return nil
}

func (s DealServer) postV1Refresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	start := time.Now()

	list, err := s.source.Deals(ctx, true)
	if err != nil {
		return mapDealsError(err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.RefreshResult{
		TotalDeals: len(list),
		ElapsedSec: time.Since(start).Seconds(),
	})

	return nil
}

func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, failure.NewInvalidArgumentError(
			fmt.Sprintf("bad page %q", raw),
			failure.WithCode(errcodes.InvalidPage),
			failure.WithDescription("page must be a positive integer"),
		)
	}

	return page, nil
}

func mapDealsError(err error) error {
	if code, ok := domain.GetCode(err); ok && code == errcodes.MissingAPIKey {
		return failure.NewUnprocessableEntityError(
			err.Error(),
			failure.WithCode(errcodes.MissingAPIKey),
			failure.WithDescription("feed API key is not configured"),
		)
	}

	return fmt.Errorf("source.Deals: %w", err)
}

func newRESTDealsPage(list []entity.Deal, page int) rest.DealsPage {
	totalPages := (len(list) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize

	if start > len(list) {
		start = len(list)
	}
	if end > len(list) {
		end = len(list)
	}

	return rest.DealsPage{
		Deals:      lox.Map(list[start:end], newRESTDeal),
		Page:       page,
		TotalPages: totalPages,
		TotalDeals: len(list),
	}
}
