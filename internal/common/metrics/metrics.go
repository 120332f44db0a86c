// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rekonet"

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_jobs_completed_total",
			Help:      "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_jobs_failed_total",
			Help:      "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_job_duration_seconds",
			Help:      "Duration of job processing in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_jobs_active",
			Help:      "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ReadinessResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readiness_results_total",
			Help:      "Readiness results computed, by path and tier",
		},
		[]string{"path", "tier"},
	)

	ProgressValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "progress_value",
			Help:      "Distribution of computed progress scores",
			Buckets:   []float64{10, 25, 40, 50, 60, 75, 90, 100},
		},
	)

	RoleSuggestions = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "role_suggestions",
			Help:      "Number of roles suggested per result, by bucket",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"bucket"},
	)
)

// JobStarted marks a job active and returns a func that records its
// outcome. Pass an empty code for success.
func JobStarted(taskType string) func(errorCode string) {
	start := time.Now()
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return func(errorCode string) {
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		if errorCode == "" {
			WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			return
		}
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	}
}

func RecordResult(path, tier string, progress float64, readyNow, bridge int) {
	ReadinessResults.WithLabelValues(path, tier).Inc()
	ProgressValue.Observe(progress)
	RoleSuggestions.WithLabelValues("ready_now").Observe(float64(readyNow))
	RoleSuggestions.WithLabelValues("bridge").Observe(float64(bridge))
}
