package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	Aggregations        *prometheus.CounterVec // labels: metric, mode={all,subset}
	ValidationErrors    *prometheus.CounterVec // labels: code
	AggregationDuration prometheus.Histogram
	ChartRenderDuration *prometheus.HistogramVec // labels: chart={line,box}

	// Dataset gauges, set once after load.
	DatasetRecords   prometheus.Gauge
	DatasetCountries prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Aggregations,
		m.ValidationErrors,
		m.AggregationDuration,
		m.ChartRenderDuration,
		m.DatasetRecords,
		m.DatasetCountries,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "env_dashboard",
			Name:      "aggregations_total",
			Help:      "Successful aggregations by metric and country mode.",
		}, []string{"metric", "mode"}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "env_dashboard",
			Name:      "validation_errors_total",
			Help:      "Rejected selections by validation code.",
		}, []string{"code"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "env_dashboard",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of one filter-and-aggregate pass over the dataset.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		ChartRenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "env_dashboard",
			Name:      "chart_render_duration_seconds",
			Help:      "PNG chart rendering duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"chart"}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "env_dashboard",
			Name:      "dataset_records",
			Help:      "Rows in the loaded dataset, excluded rows included.",
		}),
		DatasetCountries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "env_dashboard",
			Name:      "dataset_countries",
			Help:      "Selectable countries in the loaded dataset.",
		}),
	}
}
