package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hiko_sync"

// Metrics holds the Prometheus counters, histograms, and gauges for the DOC
// sync jobs.
type Metrics struct {
	FetchRequests *prometheus.CounterVec // labels: path, outcome={success,error}
	FetchRetries  prometheus.Counter
	FetchPages    prometheus.Counter

	ItemsSynced     *prometheus.CounterVec // labels: collection
	ItemErrors      *prometheus.CounterVec // labels: collection
	NormalizeErrors *prometheus.CounterVec // labels: collection
	GeojsonStored   prometheus.Counter

	SyncRuns     *prometheus.CounterVec   // labels: job={assets,alerts}, outcome={success,error}
	SyncDuration *prometheus.HistogramVec // labels: job
	SyncRunning  prometheus.Gauge
}

// NewMetrics creates and registers all sync metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchRetries,
		m.FetchPages,
		m.ItemsSynced,
		m.ItemErrors,
		m.NormalizeErrors,
		m.GeojsonStored,
		m.SyncRuns,
		m.SyncDuration,
		m.SyncRunning,
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
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "DOC API requests by path and outcome.",
		}, []string{"path", "outcome"}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_retries_total",
			Help:      "Retries triggered by DOC API rate limiting.",
		}),
		FetchPages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_pages_total",
			Help:      "Pages accumulated across paginated DOC API fetches.",
		}),
		ItemsSynced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_synced_total",
			Help:      "Entities upserted into the document store by collection.",
		}, []string{"collection"}),
		ItemErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_errors_total",
			Help:      "Per-item failures skipped during a sync run by collection.",
		}, []string{"collection"}),
		NormalizeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalize_errors_total",
			Help:      "Records rejected by normalization by collection.",
		}, []string{"collection"}),
		GeojsonStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geojson_stored_total",
			Help:      "Route geometry payloads written to blob storage.",
		}),
		SyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed sync runs by job and outcome.",
		}, []string{"job", "outcome"}),
		SyncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete sync run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"job"}),
		SyncRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while a sync run is in progress, 0 otherwise.",
		}),
	}
}
