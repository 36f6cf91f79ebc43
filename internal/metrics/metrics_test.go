package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/v1/table", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest("/api/v1/table", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest("", http.StatusNotFound, time.Millisecond)
	m.ChartBuilt("line", "svg")
	m.SetTableRows(8764)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/table", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("line", "svg")))
	assert.Equal(t, 8764.0, testutil.ToFloat64(m.tableRows))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.SetTableRows(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "demand_dashboard_table_rows 3")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/health", http.StatusOK, time.Millisecond)
		m.ChartBuilt("bar", "json")
		m.SetTableRows(1)
	})
}
