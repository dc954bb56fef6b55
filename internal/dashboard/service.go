package dashboard

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/entity"
	"github.com/joseph-ayodele/purchase-tracker/internal/repository"
)

// OrderStore is the read side of the order repository.
type OrderStore interface {
	List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error)
	Count(ctx context.Context, f repository.OrderFilter) (int, error)
}

type Service struct {
	store   OrderStore
	builder *Builder
	logger  *slog.Logger
}

func NewService(store OrderStore, builder *Builder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, builder: builder, logger: logger}
}

// Builder exposes the clock and paging settings in use.
func (s *Service) Builder() *Builder { return s.builder }

// Load returns every order matching f, newest first, as records.
func (s *Service) Load(ctx context.Context, f repository.OrderFilter) ([]Record, error) {
	f.Limit, f.Offset = 0, 0
	orders, err := s.store.List(ctx, f)
	if err != nil {
		return nil, common.WrapError(err, "list orders")
	}
	return Records(orders), nil
}

// View loads one page of the table plus the aggregates over the whole filter.
func (s *Service) View(ctx context.Context, f repository.OrderFilter, page int) (View, error) {
	page = clampPage(page)

	all, err := s.Load(ctx, f)
	if err != nil {
		return View{}, err
	}
	total, err := s.store.Count(ctx, f)
	if err != nil {
		return View{}, common.WrapError(err, "count orders")
	}

	pf := f
	pf.Limit = s.builder.PageSize
	pf.Offset = (page - 1) * s.builder.PageSize
	pageOrders, err := s.store.List(ctx, pf)
	if err != nil {
		return View{}, common.WrapError(err, "list page")
	}

	v := s.builder.BuildPage(all, Records(pageOrders), page, total)
	common.LoggerFromContext(ctx, s.logger).Debug("dashboard.view.ok",
		"page", v.Page,
		"total", v.Total,
		"open", v.KPIs.Open,
		"late", v.KPIs.Late,
	)
	return v, nil
}

// Records projects orders onto dashboard records.
func Records(orders []*entity.Order) []Record {
	out := make([]Record, len(orders))
	for i, o := range orders {
		out[i] = RecordFromOrder(o)
	}
	return out
}
