package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// odor map service.
type Metrics struct {
	ReadingsLoaded  prometheus.Counter
	ReadingsSkipped *prometheus.CounterVec // label: reason={bad_date,missing_region,bad_odor,bad_hour,bad_wind}
	LoadStatus      prometheus.Gauge

	// Snapshot pipeline metrics.
	SnapshotRecomputes *prometheus.CounterVec // label: trigger (event name)
	SnapshotDuration   prometheus.Histogram
	SnapshotCache      *prometheus.CounterVec // label: result={hit,miss}
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReadingsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "odor_map",
			Name:      "readings_loaded_total",
			Help:      "Total readings accepted from the source CSV.",
		}),
		ReadingsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "odor_map",
			Name:      "readings_skipped_total",
			Help:      "Readings rejected or partially invalid at load, by reason.",
		}, []string{"reason"}),
		LoadStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "odor_map",
			Name:      "load_status",
			Help:      "1 when the dataset loaded successfully, 0 otherwise.",
		}),
		SnapshotRecomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "odor_map",
			Name:      "snapshot_recomputes_total",
			Help:      "Snapshot builds by the selection event that triggered them.",
		}, []string{"trigger"}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "odor_map",
			Name:      "snapshot_duration_seconds",
			Help:      "Duration of one snapshot aggregation pass.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		SnapshotCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "odor_map",
			Name:      "snapshot_cache_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "odor_map",
			Name:      "snapshots_published_total",
			Help:      "Snapshots delivered to the export sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "odor_map",
			Name:      "publish_errors_total",
			Help:      "Failed snapshot deliveries to the export sink.",
		}),
	}

	prometheus.MustRegister(
		m.ReadingsLoaded,
		m.ReadingsSkipped,
		m.LoadStatus,
		m.SnapshotRecomputes,
		m.SnapshotDuration,
		m.SnapshotCache,
		m.SnapshotsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReadingsLoaded:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "odor_map", Name: "readings_loaded_total"}),
		ReadingsSkipped:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "odor_map", Name: "readings_skipped_total"}, []string{"reason"}),
		LoadStatus:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "odor_map", Name: "load_status"}),
		SnapshotRecomputes: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "odor_map", Name: "snapshot_recomputes_total"}, []string{"trigger"}),
		SnapshotDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "odor_map", Name: "snapshot_duration_seconds"}),
		SnapshotCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "odor_map", Name: "snapshot_cache_total"}, []string{"result"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "odor_map", Name: "snapshots_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "odor_map", Name: "publish_errors_total"}),
	}
}
