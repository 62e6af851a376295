// Package metrics provides Prometheus metrics for the curation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "digestcurator"

var (
	// CuratorBatchesTotal counts rating batches by category and outcome.
	CuratorBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "curator_batches_total",
			Help:      "Total number of LLM rating batches",
		},
		[]string{"category", "status"},
	)

	// CuratorBatchDuration measures completion round-trips.
	CuratorBatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "curator_batch_duration_seconds",
			Help:      "Duration of LLM rating batches in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"category"},
	)

	// ItemsTotal counts items at each pipeline stage.
	ItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Items observed at each pipeline stage",
		},
		[]string{"stage"},
	)

	// BucketItems tracks the size of each bucket in the latest selection.
	BucketItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bucket_items",
			Help:      "Items per bucket in the latest selection",
		},
		[]string{"bucket"},
	)

	// RunsTotal counts pipeline runs by status.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of pipeline runs",
		},
		[]string{"status"},
	)

	// RunDuration measures whole pipeline runs.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of pipeline runs in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	// ErrorsTotal counts errors by operation.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of errors",
		},
		[]string{"operation", "error_type"},
	)
)

// RecordCuratorBatch records one rating batch.
func RecordCuratorBatch(category, status string, duration float64) {
	CuratorBatchesTotal.WithLabelValues(category, status).Inc()
	CuratorBatchDuration.WithLabelValues(category).Observe(duration)
}

// RecordStage adds n items to a pipeline stage counter.
func RecordStage(stage string, n int) {
	ItemsTotal.WithLabelValues(stage).Add(float64(n))
}

// SetBucketSize sets the latest size of a bucket.
func SetBucketSize(bucket string, n int) {
	BucketItems.WithLabelValues(bucket).Set(float64(n))
}

// RecordRun records a finished pipeline run.
func RecordRun(status string, duration float64) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration)
}

// RecordError records an error.
func RecordError(operation, errorType string) {
	ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}
