package orders

import (
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/purchase-tracker/constants"
	"github.com/joseph-ayodele/purchase-tracker/internal/extract"
)

// NewItem is one requested line as typed on the registration form.
type NewItem struct {
	Name      string   `json:"nome_item"`
	Quantity  string   `json:"quantidade,omitempty"`
	Unit      string   `json:"unidade_medida,omitempty"`
	UnitPrice *float64 `json:"valor_unitario,omitempty" validate:"omitempty,gte=0"`
}

// NewOrder is the registration form. Dates are calendar dates.
type NewOrder struct {
	RequestNumber   string     `json:"solicitacao" validate:"required,max=64"`
	QuoteNumber     string     `json:"orcamento,omitempty" validate:"max=64"`
	OrderNumber     string     `json:"pedido,omitempty" validate:"max=64"`
	Category        string     `json:"categoria,omitempty"`
	Supplier        string     `json:"fornecedor" validate:"required,max=255"`
	PurchaseDate    *time.Time `json:"data_compra,omitempty"`
	InvoiceNumber   string     `json:"nota,omitempty"`
	InvoiceSeries   string     `json:"serie,omitempty"`
	Observation     string     `json:"observacao,omitempty"`
	CompanyCode     int        `json:"empresa" validate:"required,gt=0"`
	RequesterName   string     `json:"solicitante_real,omitempty"`
	BuyerName       string     `json:"comprador,omitempty"`
	PlannedDelivery *time.Time `json:"prazo,omitempty"`
	Status          string     `json:"status,omitempty"`
	Items           []NewItem  `json:"itens" validate:"required,min=1,dive"`
}

// OrderUpdate is the edit form; it replaces every editable field.
type OrderUpdate struct {
	NewOrder
	RescheduledDelivery *time.Time `json:"reprogramada,omitempty"`
	ActualDelivery      *time.Time `json:"data_entrega_real,omitempty"`
	DeliveryConforming  *bool      `json:"entrega_conforme,omitempty"`
	DeliveryNotes       string     `json:"detalhes_entrega,omitempty"`
}

// Title is the first item name, suffixed with how many more items follow.
func Title(names []string) string {
	if len(names) == 0 {
		return ""
	}
	if len(names) == 1 {
		return names[0]
	}
	return names[0] + " (+ " + strconv.Itoa(len(names)-1) + " itens)"
}

// FromExtraction prefills a registration form from an imported PDF.
func FromExtraction(res extract.Result) NewOrder {
	n := NewOrder{
		RequestNumber: res.Header.RequestNumber,
		Observation:   res.Header.Observation,
		RequesterName: res.Header.Requester,
		Status:        string(constants.DefaultStatus),
		Items:         make([]NewItem, 0, len(res.Items)),
	}
	if res.Header.HasPurchaseDate() {
		d := res.Header.PurchaseDate
		n.PurchaseDate = &d
	}
	if code, err := strconv.Atoi(strings.TrimSpace(res.Header.CompanyCode)); err == nil {
		n.CompanyCode = code
	}
	for _, it := range res.Items {
		n.Items = append(n.Items, NewItem{Name: it.Name(), Quantity: it.Quantity, Unit: it.Unit})
	}
	return n
}
