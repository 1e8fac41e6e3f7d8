package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "audit_scanner"
	subsystem = "scan"
)

// Registry holds the scanner's metrics on a private Prometheus registry
type Registry struct {
	registry *prometheus.Registry

	TargetsScanned   *prometheus.CounterVec
	SealDuration     prometheus.Histogram
	RunDuration      prometheus.Histogram
	LastRunTimestamp prometheus.Gauge
}

// NewRegistry creates the registry and registers all scanner metrics
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,

		TargetsScanned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "targets_total",
				Help:      "Total number of audit targets scanned, by status level",
			},
			[]string{"level"},
		),

		SealDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "seal_duration_seconds",
				Help:      "Time spent computing a target seal",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 2, 15), // 1μs to ~16ms
			},
		),

		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "run_duration_seconds",
				Help:      "Wall time of a full scan",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15), // 100μs to ~1.6s
			},
		),

		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_run_timestamp_seconds",
				Help:      "Audit timestamp of the most recent scan",
			},
		),
	}
}

// Gatherer exposes the underlying registry
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveTarget records one scanned target
func (r *Registry) ObserveTarget(level string, sealDuration time.Duration) {
	r.TargetsScanned.WithLabelValues(level).Inc()
	r.SealDuration.Observe(sealDuration.Seconds())
}

// ObserveRun records a completed scan
func (r *Registry) ObserveRun(auditedAt int64, duration time.Duration) {
	r.LastRunTimestamp.Set(float64(auditedAt))
	r.RunDuration.Observe(duration.Seconds())
}

// WriteTextfile writes the registry in the node-exporter textfile format
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
