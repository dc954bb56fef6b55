package constants

import "strings"

// OrderStatus is the purchasing status stored on an order row.
type OrderStatus string

// Stable values (store these exact strings in DB).
const (
	StatusAwaitingApproval   OrderStatus = "Aguardando Aprovação"
	StatusQuote              OrderStatus = "Orçamento"
	StatusConfirmed          OrderStatus = "Confirmado"
	StatusInTransit          OrderStatus = "Em Trânsito"
	StatusPartiallyDelivered OrderStatus = "Entregue Parcialmente"
	StatusDelivered          OrderStatus = "Entregue Totalmente"
)

// deliveredMarker is matched as a substring: every "Entregue ..." status counts as delivered.
const deliveredMarker = "Entregue"

// DefaultStatus is assigned to new orders that do not carry one.
const DefaultStatus = StatusAwaitingApproval

var allStatuses = []OrderStatus{
	StatusAwaitingApproval,
	StatusQuote,
	StatusConfirmed,
	StatusInTransit,
	StatusPartiallyDelivered,
	StatusDelivered,
}

// Statuses returns the selectable statuses in display order.
func Statuses() []string {
	result := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		result[i] = string(s)
	}
	return result
}

// IsKnownStatus reports whether s is one of the selectable statuses.
func IsKnownStatus(s string) bool {
	for _, st := range allStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// IsDelivered reports whether a raw status string denotes a delivered order.
func IsDelivered(status string) bool {
	return strings.Contains(status, deliveredMarker)
}
