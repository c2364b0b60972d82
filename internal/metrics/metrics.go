// Package metrics holds the Prometheus instrumentation for feed fetches and
// proximity queries. The serve command exposes the default registry on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the monitor.
type Metrics struct {
	FeedFetches      *prometheus.CounterVec   // labels: feed={hurricane,tornado,wildfire}, outcome={success,error}
	FeedFetchSeconds *prometheus.HistogramVec // labels: feed
	FeedRecords      *prometheus.CounterVec   // labels: feed

	QueriesServed    prometheus.Counter
	RecordsEvaluated prometheus.Counter
	ResultsReturned  prometheus.Histogram
}

// New creates and registers all monitor metrics with the default registry.
func New() *Metrics {
	m := build()
	prometheus.MustRegister(
		m.FeedFetches,
		m.FeedFetchSeconds,
		m.FeedRecords,
		m.QueriesServed,
		m.RecordsEvaluated,
		m.ResultsReturned,
	)
	return m
}

// NewForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewForTesting() *Metrics {
	return build()
}

func build() *Metrics {
	return &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "feed_fetches_total",
			Help:      "Feed fetch attempts by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedFetchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "disaster_monitor",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of a full feed fetch including pagination.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"feed"}),
		FeedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "feed_records_total",
			Help:      "Hazard records parsed from feeds.",
		}, []string{"feed"}),
		QueriesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "queries_served_total",
			Help:      "Proximity queries answered.",
		}),
		RecordsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_monitor",
			Name:      "records_evaluated_total",
			Help:      "Hazard records evaluated against a query point.",
		}),
		ResultsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_monitor",
			Name:      "results_returned",
			Help:      "Ranked results returned per query.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
	}
}
