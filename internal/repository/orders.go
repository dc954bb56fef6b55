package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/entity"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05Z"
)

// OrderFilter narrows dashboard and export listings. Zero values mean "any".
type OrderFilter struct {
	Search         string // request number, order number, supplier or title
	RequestNumber  string // substring
	CompanyCode    int
	Buyer          string
	Status         string
	RegisteredFrom *time.Time // inclusive, by calendar day
	RegisteredTo   *time.Time // inclusive, by calendar day
	Limit          int
	Offset         int
}

type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) (*entity.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, o *entity.Order) (*entity.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
	Count(ctx context.Context, f OrderFilter) (int, error)
}

type orderRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewOrderRepository(db *DB, logger *slog.Logger) OrderRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderRepository{db: db, logger: logger}
}

var orderColumns = []string{
	"id", "request_number", "quote_number", "order_number", "title", "category", "supplier",
	"purchase_date", "invoice_number", "invoice_series", "observation", "company_code",
	"requester_name", "buyer_name", "planned_delivery", "rescheduled_delivery", "actual_delivery",
	"delivery_conforming", "delivery_notes", "status", "registered_at",
}

func orderValues(o *entity.Order) []any {
	return []any{
		o.ID.String(), o.RequestNumber, nullString(o.QuoteNumber), nullString(o.OrderNumber), o.Title,
		nullString(o.Category), o.Supplier, formatDate(o.PurchaseDate), nullString(o.InvoiceNumber),
		nullString(o.InvoiceSeries), nullString(o.Observation), o.CompanyCode, nullString(o.RequesterName),
		nullString(o.BuyerName), formatDate(o.PlannedDelivery), formatDate(o.RescheduledDelivery),
		formatDate(o.ActualDelivery), nullBool(o.DeliveryConforming), nullString(o.DeliveryNotes), o.Status,
		o.RegisteredAt.UTC().Format(timestampLayout),
	}
}

func (r *orderRepository) Create(ctx context.Context, o *entity.Order) (*entity.Order, error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.RegisteredAt.IsZero() {
		o.RegisteredAt = time.Now()
	}
	o.RegisteredAt = o.RegisteredAt.UTC().Truncate(time.Second)

	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		q, args := entsql.Dialect(r.db.Dialect()).
			Insert(tableOrders).
			Columns(orderColumns...).
			Values(orderValues(o)...).
			Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return common.WrapError(err, "insert order")
		}
		return r.insertItems(ctx, tx, o)
	})
	if err != nil {
		r.logger.Error("failed to create order", "request_number", o.RequestNumber, "error", err)
		return nil, dbError("create order", err)
	}
	return o, nil
}

func (r *orderRepository) insertItems(ctx context.Context, tx *sql.Tx, o *entity.Order) error {
	if len(o.Items) == 0 {
		return nil
	}
	ins := entsql.Dialect(r.db.Dialect()).
		Insert(tableOrderItems).
		Columns("id", "order_id", "line_no", "name", "quantity", "unit", "unit_price")
	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		it.OrderID = o.ID
		it.Position = i + 1
		var price any
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		ins.Values(it.ID.String(), o.ID.String(), it.Position, it.Name, it.Quantity, it.Unit, price)
	}
	q, args := ins.Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return common.WrapError(err, "insert items")
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	sel := r.selectOrders().Where(entsql.EQ(r.table(tableOrders).C("id"), id.String()))
	orders, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("order %s: %w", id, common.ErrNotFound)
	}
	o := orders[0]
	items, err := r.items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *orderRepository) Update(ctx context.Context, o *entity.Order) (*entity.Order, error) {
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		b := entsql.Dialect(r.db.Dialect())
		upd := b.Update(tableOrders)
		vals := orderValues(o)
		// id and registered_at are immutable
		for i, col := range orderColumns {
			if col == "id" || col == "registered_at" {
				continue
			}
			upd.Set(col, vals[i])
		}
		q, args := upd.Where(entsql.EQ("id", o.ID.String())).Query()
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return common.WrapError(err, "update order")
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("order %s: %w", o.ID, common.ErrNotFound)
		}

		q, args = b.Delete(tableOrderItems).Where(entsql.EQ("order_id", o.ID.String())).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return common.WrapError(err, "clear items")
		}
		return r.insertItems(ctx, tx, o)
	})
	if err != nil {
		r.logger.Error("failed to update order", "id", o.ID, "error", err)
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, dbError("update order", err)
	}
	return r.Get(ctx, o.ID)
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		b := entsql.Dialect(r.db.Dialect())
		q, args := b.Delete(tableOrderItems).Where(entsql.EQ("order_id", id.String())).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return common.WrapError(err, "delete items")
		}
		q, args = b.Delete(tableOrders).Where(entsql.EQ("id", id.String())).Query()
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return common.WrapError(err, "delete order")
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("order %s: %w", id, common.ErrNotFound)
		}
		return nil
	})
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		r.logger.Error("failed to delete order", "id", id, "error", err)
		return dbError("delete order", err)
	}
	return err
}

// List returns matching orders newest first, without their items.
func (r *orderRepository) List(ctx context.Context, f OrderFilter) ([]*entity.Order, error) {
	t := r.table(tableOrders)
	sel := r.selectOrders().
		OrderBy(entsql.Desc(t.C("registered_at")), entsql.Desc(t.C("request_number")))
	if p := filterPredicate(t, f); p != nil {
		sel.Where(p)
	}
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}
	if f.Offset > 0 {
		sel.Offset(f.Offset)
	}
	return r.query(ctx, sel)
}

func (r *orderRepository) Count(ctx context.Context, f OrderFilter) (int, error) {
	t := r.table(tableOrders)
	sel := entsql.Dialect(r.db.Dialect()).Select(entsql.Count("*")).From(t)
	if p := filterPredicate(t, f); p != nil {
		sel.Where(p)
	}
	q, args := sel.Query()
	var n int
	if err := r.db.sqlDB().QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		r.logger.Error("failed to count orders", "error", err)
		return 0, dbError("count orders", err)
	}
	return n, nil
}

func (r *orderRepository) selectOrders() *entsql.Selector {
	t := r.table(tableOrders)
	c := r.table(tableCompanies).As("c")
	cols := make([]string, 0, len(orderColumns)+1)
	for _, col := range orderColumns {
		cols = append(cols, t.C(col))
	}
	cols = append(cols, c.C("name"))
	return entsql.Dialect(r.db.Dialect()).
		Select(cols...).
		From(t).
		LeftJoin(c).
		On(t.C("company_code"), c.C("code"))
}

func (r *orderRepository) table(name string) *entsql.SelectTable {
	return entsql.Dialect(r.db.Dialect()).Table(name)
}

func filterPredicate(t *entsql.SelectTable, f OrderFilter) *entsql.Predicate {
	var preds []*entsql.Predicate
	if f.Search != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold(t.C("request_number"), f.Search),
			entsql.ContainsFold(t.C("order_number"), f.Search),
			entsql.ContainsFold(t.C("supplier"), f.Search),
			entsql.ContainsFold(t.C("title"), f.Search),
		))
	}
	if f.RequestNumber != "" {
		preds = append(preds, entsql.Contains(t.C("request_number"), f.RequestNumber))
	}
	if f.CompanyCode != 0 {
		preds = append(preds, entsql.EQ(t.C("company_code"), f.CompanyCode))
	}
	if f.Buyer != "" {
		preds = append(preds, entsql.EQ(t.C("buyer_name"), f.Buyer))
	}
	if f.Status != "" {
		preds = append(preds, entsql.EQ(t.C("status"), f.Status))
	}
	if f.RegisteredFrom != nil {
		preds = append(preds, entsql.GTE(t.C("registered_at"), f.RegisteredFrom.Format(dateLayout)+"T00:00:00Z"))
	}
	if f.RegisteredTo != nil {
		preds = append(preds, entsql.LTE(t.C("registered_at"), f.RegisteredTo.Format(dateLayout)+"T23:59:59Z"))
	}
	if len(preds) == 0 {
		return nil
	}
	return entsql.And(preds...)
}

func (r *orderRepository) query(ctx context.Context, sel *entsql.Selector) ([]*entity.Order, error) {
	q, args := sel.Query()
	rows, err := r.db.sqlDB().QueryContext(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to query orders", "error", err)
		return nil, dbError("query orders", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, dbError("scan order", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("query orders", err)
	}
	return out, nil
}

func (r *orderRepository) items(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	q, args := entsql.Dialect(r.db.Dialect()).
		Select("id", "line_no", "name", "quantity", "unit", "unit_price").
		From(r.table(tableOrderItems)).
		Where(entsql.EQ("order_id", orderID.String())).
		OrderBy("line_no").
		Query()
	rows, err := r.db.sqlDB().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbError("list items", err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var (
			id    string
			it    entity.OrderItem
			price sql.NullFloat64
		)
		if err := rows.Scan(&id, &it.Position, &it.Name, &it.Quantity, &it.Unit, &price); err != nil {
			return nil, dbError("scan item", err)
		}
		it.ID, _ = uuid.Parse(id)
		it.OrderID = orderID
		if price.Valid {
			v := price.Float64
			it.UnitPrice = &v
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(rows *sql.Rows) (*entity.Order, error) {
	var (
		o                                                   entity.Order
		id, registered                                      string
		quote, orderNo, category, purchase, invoice, series sql.NullString
		observation, requester, buyer, planned, rescheduled sql.NullString
		actual, notes, companyName                          sql.NullString
		conforming                                          sql.NullBool
	)
	err := rows.Scan(
		&id, &o.RequestNumber, &quote, &orderNo, &o.Title, &category, &o.Supplier,
		&purchase, &invoice, &series, &observation, &o.CompanyCode,
		&requester, &buyer, &planned, &rescheduled, &actual,
		&conforming, &notes, &o.Status, &registered, &companyName,
	)
	if err != nil {
		return nil, err
	}
	if o.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("order id %q: %w", id, err)
	}
	if o.RegisteredAt, err = time.Parse(timestampLayout, registered); err != nil {
		return nil, fmt.Errorf("registered_at %q: %w", registered, err)
	}
	o.QuoteNumber = quote.String
	o.OrderNumber = orderNo.String
	o.Category = category.String
	o.PurchaseDate = parseDate(purchase)
	o.InvoiceNumber = invoice.String
	o.InvoiceSeries = series.String
	o.Observation = observation.String
	o.RequesterName = requester.String
	o.BuyerName = buyer.String
	o.PlannedDelivery = parseDate(planned)
	o.RescheduledDelivery = parseDate(rescheduled)
	o.ActualDelivery = parseDate(actual)
	o.DeliveryNotes = notes.String
	o.CompanyName = companyName.String
	if conforming.Valid {
		v := conforming.Bool
		o.DeliveryConforming = &v
	}
	return &o, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}
