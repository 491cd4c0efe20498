package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StoreCacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configdb_store_cache_hits_total",
			Help: "Total number of store opens served from the read or write cache slot",
		},
		[]string{"store"},
	)

	StoreCacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configdb_store_cache_misses_total",
			Help: "Total number of store opens that missed both cache slots and loaded the store",
		},
		[]string{"store"},
	)

	StoreLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configdb_store_loads_total",
			Help: "Total number of store loads on a cache miss, including loads that fall back to schema defaults",
		},
		[]string{"store"},
	)

	StoreCommitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configdb_store_commits_total",
			Help: "Total number of successful commits of a dirty store through its Format",
		},
		[]string{"store"},
	)

	UpdateConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configdb_update_conflicts_total",
			Help: "Total number of update attempts rejected because another updater already held the store",
		},
		[]string{"store"},
	)

	UpdateQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "configdb_update_queue_depth",
			Help: "Current number of deferred updates queued against a store",
		},
		[]string{"store"},
	)

	StoresOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "configdb_stores_open",
			Help: "Number of cache Databases currently open (incremented by Open, decremented by Close)",
		},
	)

	ImportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "configdb_import_duration_seconds",
			Help:    "Time taken to stream an import into a store",
			Buckets: prometheus.DefBuckets,
		},
	)

	ExportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "configdb_export_duration_seconds",
			Help:    "Time taken to stream an export from a store",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(StoreCacheHitsTotal)
	prometheus.MustRegister(StoreCacheMissesTotal)
	prometheus.MustRegister(StoreLoadsTotal)
	prometheus.MustRegister(StoreCommitsTotal)
	prometheus.MustRegister(UpdateConflictsTotal)
	prometheus.MustRegister(UpdateQueueDepth)
	prometheus.MustRegister(StoresOpen)
	prometheus.MustRegister(ImportDuration)
	prometheus.MustRegister(ExportDuration)
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures elapsed wall time for an in-flight operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time to histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed time to a labeled histogram.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
