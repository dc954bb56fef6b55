package orders

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/purchase-tracker/constants"
	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/entity"
	"github.com/joseph-ayodele/purchase-tracker/internal/extract"
	"github.com/joseph-ayodele/purchase-tracker/internal/repository"
)

// Service registers and edits tracked purchases.
type Service struct {
	orders    repository.OrderRepository
	companies repository.CompanyRepository
	now       func() time.Time
	loc       *time.Location
	logger    *slog.Logger
}

func NewService(orders repository.OrderRepository, companies repository.CompanyRepository, loc *time.Location, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{orders: orders, companies: companies, now: time.Now, loc: loc, logger: logger}
}

// WithClock replaces the clock used for "today" and registration stamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register validates the form and stores a new order with its items.
func (s *Service) Register(ctx context.Context, in NewOrder) (*entity.Order, error) {
	items, err := s.validate(ctx, in)
	if err != nil {
		common.LoggerFromContext(ctx, s.logger).Warn("orders.register.invalid", "request_number", in.RequestNumber, "err", err)
		return nil, err
	}

	o := &entity.Order{RegisteredAt: s.now()}
	apply(o, in, items)
	if o.Status == "" {
		o.Status = string(constants.DefaultStatus)
	}

	created, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, common.WrapError(err, "register order")
	}
	common.LoggerFromContext(ctx, s.logger).Info("orders.register.ok",
		"order_id", created.ID,
		"request_number", created.RequestNumber,
		"items", len(created.Items),
	)
	return created, nil
}

// Update replaces the editable fields, delivery tracking and items of an order.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in OrderUpdate) (*entity.Order, error) {
	current, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, common.WrapError(err, "load order")
	}
	items, err := s.validate(ctx, in.NewOrder)
	if err != nil {
		return nil, err
	}

	apply(current, in.NewOrder, items)
	if current.Status == "" {
		current.Status = string(constants.DefaultStatus)
	}
	current.RescheduledDelivery = in.RescheduledDelivery
	current.ActualDelivery = in.ActualDelivery
	current.DeliveryConforming = in.DeliveryConforming
	current.DeliveryNotes = strings.TrimSpace(in.DeliveryNotes)

	updated, err := s.orders.Update(ctx, current)
	if err != nil {
		return nil, common.WrapError(err, "update order")
	}
	common.LoggerFromContext(ctx, s.logger).Info("orders.update.ok", "order_id", id, "status", updated.Status)
	return updated, nil
}

// Get returns an order with its items.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return s.orders.Get(ctx, id)
}

// Delete removes an order and its items.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return common.WrapError(err, "delete order")
	}
	common.LoggerFromContext(ctx, s.logger).Info("orders.delete.ok", "order_id", id)
	return nil
}

// Draft is FromExtraction, exposed on the service for transport handlers.
func (s *Service) Draft(res extract.Result) NewOrder {
	return FromExtraction(res)
}

func (s *Service) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// validate runs the tag rules plus the checks that need context, and returns
// the named items with defaults filled in.
func (s *Service) validate(ctx context.Context, in NewOrder) ([]entity.OrderItem, error) {
	var errs common.ValidationErrors
	if err := common.ValidateStruct(in); err != nil {
		var ve common.ValidationErrors
		if !errors.As(err, &ve) {
			return nil, err
		}
		errs = append(errs, ve...)
	}

	if strings.TrimSpace(in.RequestNumber) == "" && !hasField(errs, "solicitacao") {
		errs = append(errs, common.ValidationError{Field: "solicitacao", Value: in.RequestNumber, Message: "is required"})
	}
	if strings.TrimSpace(in.Supplier) == "" && !hasField(errs, "fornecedor") {
		errs = append(errs, common.ValidationError{Field: "fornecedor", Value: in.Supplier, Message: "is required"})
	}

	items := normalizeItems(in.Items)
	if len(in.Items) > 0 && strings.TrimSpace(in.Items[0].Name) == "" {
		errs = append(errs, common.ValidationError{Field: "nome_item", Value: "", Message: "first item is required"})
	}

	if in.PurchaseDate != nil {
		y, m, d := in.PurchaseDate.Date()
		if time.Date(y, m, d, 0, 0, 0, 0, time.UTC).After(s.today()) {
			errs = append(errs, common.ValidationError{Field: "data_compra", Value: in.PurchaseDate.Format(extract.ISODate), Message: "cannot be in the future"})
		}
	}

	if in.Status != "" && !constants.IsKnownStatus(in.Status) {
		errs = append(errs, common.ValidationError{Field: "status", Value: in.Status, Message: "is not a known status"})
	}

	if in.CompanyCode > 0 && s.companies != nil {
		if _, err := s.companies.Get(ctx, in.CompanyCode); err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				return nil, common.WrapError(err, "load company")
			}
			errs = append(errs, common.ValidationError{Field: "empresa", Value: in.CompanyCode, Message: "is not a known company"})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return items, nil
}

func hasField(errs common.ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

// normalizeItems drops unnamed lines and fills quantity and unit defaults.
func normalizeItems(in []NewItem) []entity.OrderItem {
	out := make([]entity.OrderItem, 0, len(in))
	for _, it := range in {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		qty := strings.TrimSpace(it.Quantity)
		if qty == "" {
			qty = extract.DefaultQuantity
		}
		unit := strings.ToUpper(strings.TrimSpace(it.Unit))
		if unit == "" {
			unit = extract.DefaultUnit
		}
		out = append(out, entity.OrderItem{Name: name, Quantity: qty, Unit: unit, UnitPrice: it.UnitPrice})
	}
	return out
}

func apply(o *entity.Order, in NewOrder, items []entity.OrderItem) {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	o.RequestNumber = strings.TrimSpace(in.RequestNumber)
	o.QuoteNumber = strings.TrimSpace(in.QuoteNumber)
	o.OrderNumber = strings.TrimSpace(in.OrderNumber)
	o.Title = Title(names)
	o.Category = strings.TrimSpace(in.Category)
	o.Supplier = strings.TrimSpace(in.Supplier)
	o.PurchaseDate = in.PurchaseDate
	o.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	o.InvoiceSeries = strings.TrimSpace(in.InvoiceSeries)
	o.Observation = strings.TrimSpace(in.Observation)
	o.CompanyCode = in.CompanyCode
	o.RequesterName = strings.TrimSpace(in.RequesterName)
	o.BuyerName = strings.TrimSpace(in.BuyerName)
	o.PlannedDelivery = in.PlannedDelivery
	o.Status = in.Status
	o.Items = items
}
