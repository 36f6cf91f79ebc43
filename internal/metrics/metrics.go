// Package metrics holds the dashboard's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "demand_dashboard_"

type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	renders   *prometheus.CounterVec
	tableRows prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "chart_renders_total",
				Help: "Charts built by chart type and output",
			},
			[]string{"kind", "output"},
		),
		tableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "table_rows",
			Help: "Rows loaded from the cleaned dataset",
		}),
	}
	m.registry.MustRegister(m.requests, m.latency, m.renders, m.tableRows)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished request. The methods of a nil
// *Metrics are no-ops.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(d.Seconds())
}

// ChartBuilt counts one chart; output is "json", "svg", "png" or "pdf".
func (m *Metrics) ChartBuilt(kind, output string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(kind, output).Inc()
}

func (m *Metrics) SetTableRows(n int) {
	if m == nil {
		return
	}
	m.tableRows.Set(float64(n))
}
