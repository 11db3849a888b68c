// Package metrics holds the Prometheus collectors of the dashboard service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec   // labels: source, outcome
	FetchDuration *prometheus.HistogramVec // labels: source
	SkippedTotal  *prometheus.CounterVec   // labels: kind
	RunsTotal     *prometheus.CounterVec   // labels: kind
	BreakerState  *prometheus.GaugeVec     // labels: source; 0=closed, 1=half-open, 2=open

	gatherer prometheus.Gatherer
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_fetch_total",
			Help: "Data source calls by outcome (ok, empty, error).",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketlens_fetch_duration_seconds",
			Help:    "Latency of data source history calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		SkippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_skipped_symbols_total",
			Help: "Symbols excluded from a run, by error kind.",
		}, []string{"kind"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_runs_total",
			Help: "Orchestrated runs by kind (overview, compare, dashboard).",
		}, []string{"kind"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketlens_breaker_state",
			Help: "Circuit breaker state per data source.",
		}, []string{"source"}),
		gatherer: reg,
	}
	reg.MustRegister(m.FetchTotal, m.FetchDuration, m.SkippedTotal, m.RunsTotal, m.BreakerState)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveFetch(source, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(source, outcome).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(seconds)
}

func (m *Metrics) Skip(kind string) {
	if m == nil {
		return
	}
	m.SkippedTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) Run(kind string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetBreakerState(source string, state float64) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(source).Set(state)
}
