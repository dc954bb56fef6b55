package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Extraction outcomes.
const (
	OutcomeItems   = "items"
	OutcomeNoItems = "no_items"
	OutcomeFailed  = "failed"
)

// Metrics groups the service collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	extractions     *prometheus.CounterVec
	itemsParsed     prometheus.Counter
	classifications *prometheus.CounterVec
	exports         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "purchasing",
			Name:      "extractions_total",
			Help:      "Purchase request PDFs processed, by outcome.",
		}, []string{"outcome"}),
		itemsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "purchasing",
			Name:      "items_parsed_total",
			Help:      "Line items recognised across all imported PDFs.",
		}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "purchasing",
			Name:      "classifications_total",
			Help:      "Orders classified on dashboard reads, by lateness bucket.",
		}, []string{"lateness"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "purchasing",
			Name:      "exports_total",
			Help:      "Dashboard spreadsheet exports, by result.",
		}, []string{"result"}),
	}
	m.Registry.MustRegister(
		m.extractions,
		m.itemsParsed,
		m.classifications,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveExtraction(outcome string, items int) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(outcome).Inc()
	if items > 0 {
		m.itemsParsed.Add(float64(items))
	}
}

func (m *Metrics) ObserveClassification(lateness string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(lateness).Inc()
}

func (m *Metrics) ObserveExport(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.exports.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
