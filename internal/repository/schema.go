package repository

import (
	"context"
	"fmt"
	"log/slog"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableCompanies  = "companies"
	tableOrders     = "orders"
	tableOrderItems = "order_items"
)

func str(name string, size int64, nullable bool) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: size, Nullable: nullable}
}

// Calendar dates are stored as YYYY-MM-DD text, registered_at as RFC3339 UTC,
// so both dialects sort and compare them the same way.
var (
	companiesColumns = []*schema.Column{
		{Name: "code", Type: field.TypeInt},
		str("name", 255, false),
	}
	companiesTable = &schema.Table{
		Name:       tableCompanies,
		Columns:    companiesColumns,
		PrimaryKey: []*schema.Column{companiesColumns[0]},
	}

	ordersColumns = []*schema.Column{
		str("id", 36, false),
		str("request_number", 64, false),
		str("quote_number", 64, true),
		str("order_number", 64, true),
		{Name: "title", Type: field.TypeString, Size: 2048},
		str("category", 128, true),
		str("supplier", 255, false),
		str("purchase_date", 10, true),
		str("invoice_number", 64, true),
		str("invoice_series", 16, true),
		{Name: "observation", Type: field.TypeString, Size: 1 << 16, Nullable: true},
		{Name: "company_code", Type: field.TypeInt},
		str("requester_name", 255, true),
		str("buyer_name", 255, true),
		str("planned_delivery", 10, true),
		str("rescheduled_delivery", 10, true),
		str("actual_delivery", 10, true),
		{Name: "delivery_conforming", Type: field.TypeBool, Nullable: true},
		{Name: "delivery_notes", Type: field.TypeString, Size: 1 << 16, Nullable: true},
		str("status", 64, false),
		str("registered_at", 20, false),
	}
	ordersTable = &schema.Table{
		Name:       tableOrders,
		Columns:    ordersColumns,
		PrimaryKey: []*schema.Column{ordersColumns[0]},
		Indexes: []*schema.Index{
			{Name: "orders_registered_at", Columns: []*schema.Column{ordersColumns[20]}},
			{Name: "orders_request_number", Columns: []*schema.Column{ordersColumns[1]}},
		},
	}

	orderItemsColumns = []*schema.Column{
		str("id", 36, false),
		str("order_id", 36, false),
		{Name: "line_no", Type: field.TypeInt},
		{Name: "name", Type: field.TypeString, Size: 2048},
		str("quantity", 32, false),
		str("unit", 16, false),
		{Name: "unit_price", Type: field.TypeFloat64, Nullable: true},
	}
	orderItemsTable = &schema.Table{
		Name:       tableOrderItems,
		Columns:    orderItemsColumns,
		PrimaryKey: []*schema.Column{orderItemsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "order_items_orders_items",
				Columns:    []*schema.Column{orderItemsColumns[1]},
				RefColumns: []*schema.Column{ordersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	tables = []*schema.Table{companiesTable, ordersTable, orderItemsTable}
)

func init() {
	orderItemsTable.ForeignKeys[0].RefTable = ordersTable
}

// Migrate creates missing tables, columns and indexes. Nothing is dropped.
func (db *DB) Migrate(ctx context.Context, logger *slog.Logger) error {
	m, err := schema.NewMigrate(db.drv)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		logger.Error("migration failed", "error", err)
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database schema up to date")
	return nil
}
