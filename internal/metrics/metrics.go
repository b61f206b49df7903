// Package metrics provides Prometheus metrics for apply runs.
package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "pl2cy"
)

// ApplyMetrics holds the collectors for one apply run. Each instance owns
// its registry, so runs never share counters. A nil *ApplyMetrics is valid
// and records nothing.
type ApplyMetrics struct {
	registry *prometheus.Registry

	// StatementsApplied is the number of statements in committed batches.
	StatementsApplied prometheus.Counter

	// BatchesCommitted is the number of committed batches.
	BatchesCommitted prometheus.Counter

	// BatchRetries is the number of batch retries after transient failures.
	BatchRetries prometheus.Counter

	// BatchFailures is the number of failed batch attempts by error class.
	BatchFailures *prometheus.CounterVec

	// BatchDuration is a histogram of batch attempt duration in seconds.
	BatchDuration prometheus.Histogram

	// LastRunSuccess is 1 when the last run committed every batch.
	LastRunSuccess prometheus.Gauge

	// LastRunTimestamp is the unix time the last run finished.
	LastRunTimestamp prometheus.Gauge
}

// NewApplyMetrics creates the collectors for backend on a fresh registry.
func NewApplyMetrics(backend, version string) *ApplyMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := prometheus.Labels{"backend": backend}

	m := &ApplyMetrics{
		registry: reg,
		StatementsApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "statements_applied_total",
			Help:        "Total number of statements in committed batches",
			ConstLabels: labels,
		}),
		BatchesCommitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "batches_committed_total",
			Help:        "Total number of committed batches",
			ConstLabels: labels,
		}),
		BatchRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "batch_retries_total",
			Help:        "Total number of batch retries after transient failures",
			ConstLabels: labels,
		}),
		BatchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "batch_failures_total",
			Help:        "Total number of failed batch attempts",
			ConstLabels: labels,
		}, []string{"class"}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "batch_duration_seconds",
			Help:        "Duration of batch attempts in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
		LastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_run_success",
			Help:        "Whether the last apply run committed every batch (1=yes, 0=no)",
			ConstLabels: labels,
		}),
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix timestamp when the last apply run finished",
			ConstLabels: labels,
		}),
	}

	factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build information",
	}, []string{"version", "go_version"}).WithLabelValues(version, runtime.Version()).Set(1)

	return m
}

// Registry returns the registry holding the collectors.
func (m *ApplyMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordBatch records one batch attempt.
func (m *ApplyMetrics) RecordBatch(statements int, duration time.Duration, err error, class string) {
	if m == nil {
		return
	}

	m.BatchDuration.Observe(duration.Seconds())
	if err != nil {
		m.BatchFailures.WithLabelValues(class).Inc()
		return
	}
	m.BatchesCommitted.Inc()
	m.StatementsApplied.Add(float64(statements))
}

// RecordRetry records a retry of a batch.
func (m *ApplyMetrics) RecordRetry() {
	if m == nil {
		return
	}
	m.BatchRetries.Inc()
}

// RecordRun records the outcome of a run.
func (m *ApplyMetrics) RecordRun(success bool, finished time.Time) {
	if m == nil {
		return
	}
	if success {
		m.LastRunSuccess.Set(1)
	} else {
		m.LastRunSuccess.Set(0)
	}
	m.LastRunTimestamp.Set(float64(finished.Unix()))
}

// WriteTextfile writes the registry in text exposition format for the
// node_exporter textfile collector. The file is replaced atomically.
func (m *ApplyMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file; %w", err)
	}
	return nil
}
