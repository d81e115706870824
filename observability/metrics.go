package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the dashboard.
type Metrics struct {
	Renders             *prometheus.CounterVec // labels: view={page,daily,weekday,season,weather}, outcome={ok,bad_request,error}
	AggregationDuration prometheus.Histogram
	DatasetRows         prometheus.Gauge
	DatasetReloads      *prometheus.CounterVec // labels: outcome={success,error}
}

func newMetrics() *Metrics {
	return &Metrics{
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bike_dashboard",
			Name:      "renders_total",
			Help:      "Dashboard page and chart renders by view and outcome.",
		}, []string{"view", "outcome"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bike_dashboard",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of one filter and aggregate pass over the rentals table.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bike_dashboard",
			Name:      "dataset_rows",
			Help:      "Rows in the currently loaded rentals table.",
		}),
		DatasetReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bike_dashboard",
			Name:      "dataset_reloads_total",
			Help:      "Dataset loads by outcome.",
		}, []string{"outcome"}),
	}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Renders,
		m.AggregationDuration,
		m.DatasetRows,
		m.DatasetReloads,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
