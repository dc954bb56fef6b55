package entity

import (
	"time"

	"github.com/google/uuid"
)

// Order is a tracked purchase for data transfer between layers.
// Calendar dates are kept as time.Time at midnight UTC.
type Order struct {
	ID                  uuid.UUID   `json:"id"`
	RequestNumber       string      `json:"request_number"`
	QuoteNumber         string      `json:"quote_number,omitempty"`
	OrderNumber         string      `json:"order_number,omitempty"`
	Title               string      `json:"title"`
	Category            string      `json:"category,omitempty"`
	Supplier            string      `json:"supplier"`
	PurchaseDate        *time.Time  `json:"purchase_date,omitempty"`
	InvoiceNumber       string      `json:"invoice_number,omitempty"`
	InvoiceSeries       string      `json:"invoice_series,omitempty"`
	Observation         string      `json:"observation,omitempty"`
	CompanyCode         int         `json:"company_code"`
	CompanyName         string      `json:"company_name,omitempty"`
	RequesterName       string      `json:"requester_name,omitempty"`
	BuyerName           string      `json:"buyer_name,omitempty"`
	PlannedDelivery     *time.Time  `json:"planned_delivery,omitempty"`
	RescheduledDelivery *time.Time  `json:"rescheduled_delivery,omitempty"`
	ActualDelivery      *time.Time  `json:"actual_delivery,omitempty"`
	DeliveryConforming  *bool       `json:"delivery_conforming,omitempty"`
	DeliveryNotes       string      `json:"delivery_notes,omitempty"`
	Status              string      `json:"status"`
	RegisteredAt        time.Time   `json:"registered_at"`
	Items               []OrderItem `json:"items,omitempty"`
}

// EffectiveDelivery is the rescheduled date when set, else the planned one.
func (o *Order) EffectiveDelivery() *time.Time {
	if o.RescheduledDelivery != nil {
		return o.RescheduledDelivery
	}
	return o.PlannedDelivery
}

// OrderItem is one requested line of an order.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	Position  int       `json:"position"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"`
	Unit      string    `json:"unit"`
	UnitPrice *float64  `json:"unit_price,omitempty"`
}
