// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	ExtractionRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "knowledge_extraction_runs_total",
			Help: "Total number of extraction passes",
		},
	)

	ExtractionItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_extraction_items_total",
			Help: "Knowledge items produced per source",
		},
		[]string{"source"},
	)

	ExtractionSourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_extraction_source_errors_total",
			Help: "Source adapter failures recovered as empty contributions",
		},
		[]string{"source"},
	)

	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "knowledge_extraction_duration_seconds",
			Help: "Duration of a full extraction pass in seconds",
		},
	)

	ContextBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_context_builds_total",
			Help: "Total number of AI contexts assembled, by query type",
		},
		[]string{"query_type"},
	)

	ContextCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_context_cache_total",
			Help: "Context cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
