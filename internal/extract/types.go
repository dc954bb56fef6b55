package extract

import "time"

// ISODate is the calendar date layout used on the wire and in storage.
const ISODate = "2006-01-02"

// Header carries the scalar fields found on a purchase request.
// Every field is optional; the zero value means "not found".
type Header struct {
	RequestNumber string
	PurchaseDate  time.Time
	CompanyCode   string
	Requester     string
	Observation   string
}

// HasPurchaseDate reports whether a valid purchase date was found.
func (h Header) HasPurchaseDate() bool { return !h.PurchaseDate.IsZero() }

// PurchaseDateISO returns the purchase date as YYYY-MM-DD, or "" when absent.
func (h Header) PurchaseDateISO() string {
	if !h.HasPurchaseDate() {
		return ""
	}
	return h.PurchaseDate.Format(ISODate)
}

// LineItem is one product row of the request, in document order.
type LineItem struct {
	Code        string
	Description string
	Quantity    string
	Unit        string
	Note        string
}

// Name is the display name used as the order item name.
func (li LineItem) Name() string {
	return li.Code + " - " + li.Description
}

// Result is what one extraction call hands back to the caller.
type Result struct {
	Header  Header
	Items   []LineItem
	NoItems bool
}

// Empty is the degraded outcome: nothing found, flag set.
func Empty() Result {
	return Result{NoItems: true}
}
