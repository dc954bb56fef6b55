package dashboard

import (
	"time"

	"github.com/joseph-ayodele/purchase-tracker/constants"
	"github.com/joseph-ayodele/purchase-tracker/internal/entity"
	"github.com/joseph-ayodele/purchase-tracker/internal/metrics"
)

// DefaultPageSize matches the order table on the dashboard.
const DefaultPageSize = 10

// Row is one order of the table together with its badges.
type Row struct {
	Order          *entity.Order  `json:"order"`
	Classification Classification `json:"classification"`
}

// View is everything the dashboard renders for one filter and page.
type View struct {
	KPIs          KPIs     `json:"kpis"`
	StatusChart   Series   `json:"status_chart"`
	SupplierChart Series   `json:"supplier_chart"`
	BuyerChart    Series   `json:"buyer_chart"`
	Timeline      Series   `json:"timeline"`
	Rows          []Row    `json:"rows"`
	Statuses      []string `json:"statuses"`
	Page          int      `json:"page"`
	PageSize      int      `json:"page_size"`
	TotalPages    int      `json:"total_pages"`
	Total         int      `json:"total"`
}

// Builder turns records into a View. The clock and zone decide what "today" is.
type Builder struct {
	PageSize int
	Now      func() time.Time
	Location *time.Location
	Metrics  *metrics.Metrics
}

func NewBuilder(pageSize int, loc *time.Location, m *metrics.Metrics) *Builder {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if loc == nil {
		loc = time.Local
	}
	return &Builder{PageSize: pageSize, Now: time.Now, Location: loc, Metrics: m}
}

// Today is the current calendar date in the dashboard zone.
func (b *Builder) Today() time.Time {
	return civil(b.Now().In(b.Location))
}

// Build paginates all in memory. all must already be in display order.
func (b *Builder) Build(all []Record, page int) View {
	page = clampPage(page)
	start := min((page-1)*b.PageSize, len(all))
	end := min(start+b.PageSize, len(all))
	return b.BuildPage(all, all[start:end], page, len(all))
}

// BuildPage uses rows already fetched for page; all feeds the KPIs and charts.
func (b *Builder) BuildPage(all, rows []Record, page, total int) View {
	today := b.Today()
	v := View{
		KPIs:          ComputeKPIs(all, today),
		StatusChart:   StatusChart(all),
		SupplierChart: SupplierChart(all),
		BuyerChart:    BuyerChart(all),
		Timeline:      Timeline(all),
		Rows:          make([]Row, 0, len(rows)),
		Statuses:      constants.Statuses(),
		Page:          clampPage(page),
		PageSize:      b.PageSize,
		TotalPages:    TotalPages(total, b.PageSize),
		Total:         total,
	}
	for _, r := range rows {
		c := Classify(r, today)
		b.Metrics.ObserveClassification(string(c.Lateness))
		v.Rows = append(v.Rows, Row{Order: r.Order, Classification: c})
	}
	return v
}

// TotalPages is ceil(total/size).
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
