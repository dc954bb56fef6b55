package dashboard

import (
	"strings"
	"time"

	"github.com/joseph-ayodele/purchase-tracker/constants"
	"github.com/joseph-ayodele/purchase-tracker/internal/entity"
)

const isoDate = "2006-01-02"

// Record is the slice of an order the dashboard reads.
type Record struct {
	Order       *entity.Order
	Status      string
	Supplier    string
	Buyer       string
	Planned     *time.Time
	Rescheduled *time.Time
}

// RecordFromOrder projects a stored order.
func RecordFromOrder(o *entity.Order) Record {
	return Record{
		Order:       o,
		Status:      o.Status,
		Supplier:    o.Supplier,
		Buyer:       o.BuyerName,
		Planned:     o.PlannedDelivery,
		Rescheduled: o.RescheduledDelivery,
	}
}

// EffectiveDate is the rescheduled date when present, else the planned one.
func (r Record) EffectiveDate() *time.Time {
	if r.Rescheduled != nil {
		return r.Rescheduled
	}
	return r.Planned
}

// Delivered reports whether the status text marks the order as received.
func (r Record) Delivered() bool {
	return constants.IsDelivered(r.Status)
}

// ParseDate reads a YYYY-MM-DD string. Blank or malformed input yields nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return nil
	}
	return &t
}

// civil drops the clock and zone, keeping the calendar date as seen in t's location.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysUntil counts whole calendar days from today to due.
func daysUntil(due, today time.Time) int {
	return int(civil(due).Sub(civil(today)).Hours() / 24)
}
