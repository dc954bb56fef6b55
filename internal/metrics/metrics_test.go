package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ObserveExtraction(OutcomeItems, 3)
	m.ObserveExtraction(OutcomeItems, 2)
	m.ObserveExtraction(OutcomeNoItems, 0)
	m.ObserveClassification("late")
	m.ObserveExport(nil)
	m.ObserveExport(errors.New("disk full"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.extractions.WithLabelValues(OutcomeItems)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractions.WithLabelValues(OutcomeNoItems)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.itemsParsed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classifications.WithLabelValues("late")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("error")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveExtraction(OutcomeFailed, 0)
		m.ObserveClassification("late")
		m.ObserveExport(nil)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveExtraction(OutcomeFailed, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `purchasing_extractions_total{outcome="failed"} 1`)
}
