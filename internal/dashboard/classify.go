package dashboard

import (
	"time"

	"github.com/joseph-ayodele/purchase-tracker/constants"
)

type Category string

const (
	CategoryQuote       Category = "quote"
	CategoryPurchased   Category = "purchased"
	CategoryDelivered   Category = "delivered"
	CategoryPassthrough Category = "passthrough"
	CategoryLate        Category = "late"
)

type Lateness string

const (
	LatenessNotApplicable Lateness = "not_applicable"
	LatenessLate          Lateness = "late"
	LatenessAtRisk        Lateness = "at_risk"
	LatenessOnTime        Lateness = "on_time"
)

// AtRiskDays is the widest gap, in days, still flagged as at risk.
const AtRiskDays = 2

// Badge colours and labels rendered next to each order.
const (
	ColorQuote         = "#9b59b6"
	ColorPurchased     = "#3498db"
	ColorDelivered     = "#2ecc71"
	ColorPassthrough   = "#95a5a6"
	ColorLate          = "#e74c3c"
	ColorAtRisk        = "#f1c40f"
	ColorOnTime        = "#2ecc71"
	ColorNotApplicable = "transparent"

	LabelQuote         = "ORÇAMENTO"
	LabelPurchased     = "COMPRADO"
	LabelDelivered     = "ENTREGUE"
	LabelLate          = "ATRASADO"
	LabelAtRisk        = "ATENÇÃO"
	LabelOnTime        = "NO PRAZO"
	LabelNotApplicable = "-"
)

// Classification is computed on every read; nothing here is persisted.
type Classification struct {
	Category      Category `json:"category"`
	CategoryLabel string   `json:"category_label"`
	CategoryColor string   `json:"category_color"`
	Lateness      Lateness `json:"lateness"`
	LatenessLabel string   `json:"lateness_label"`
	LatenessColor string   `json:"lateness_color"`
	// DaysLeft is set whenever lateness was evaluated.
	DaysLeft *int `json:"days_left,omitempty"`
}

// Classify derives the status badge and the delivery alert for one order.
// A late order shows as late in both badges.
func Classify(r Record, today time.Time) Classification {
	c := categorize(r.Status)

	due := r.EffectiveDate()
	if c.Category == CategoryDelivered || due == nil {
		c.Lateness, c.LatenessLabel, c.LatenessColor = LatenessNotApplicable, LabelNotApplicable, ColorNotApplicable
		return c
	}

	days := daysUntil(*due, today)
	c.DaysLeft = &days
	switch {
	case days <= 0:
		c.Lateness, c.LatenessLabel, c.LatenessColor = LatenessLate, LabelLate, ColorLate
		c.Category, c.CategoryLabel, c.CategoryColor = CategoryLate, LabelLate, ColorLate
	case days <= AtRiskDays:
		c.Lateness, c.LatenessLabel, c.LatenessColor = LatenessAtRisk, LabelAtRisk, ColorAtRisk
	default:
		c.Lateness, c.LatenessLabel, c.LatenessColor = LatenessOnTime, LabelOnTime, ColorOnTime
	}
	return c
}

func categorize(status string) Classification {
	switch {
	case status == string(constants.StatusAwaitingApproval):
		return Classification{Category: CategoryQuote, CategoryLabel: LabelQuote, CategoryColor: ColorQuote}
	case status == string(constants.StatusConfirmed),
		status == string(constants.StatusQuote),
		status == string(constants.StatusInTransit):
		return Classification{Category: CategoryPurchased, CategoryLabel: LabelPurchased, CategoryColor: ColorPurchased}
	case constants.IsDelivered(status):
		return Classification{Category: CategoryDelivered, CategoryLabel: LabelDelivered, CategoryColor: ColorDelivered}
	default:
		return Classification{Category: CategoryPassthrough, CategoryLabel: status, CategoryColor: ColorPassthrough}
	}
}
