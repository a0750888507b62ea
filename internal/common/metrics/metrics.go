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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	QualificationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_qualification_decisions_total",
			Help: "Qualification outcomes by decision and confidence",
		},
		[]string{"decision", "confidence"},
	)

	QualificationEscalations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_qualification_escalations_total",
			Help: "Leads flagged for human review",
		},
	)

	QualificationScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lead_qualification_score",
			Help:    "Distribution of total qualification scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	EnrichmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_enrichment_failures_total",
			Help: "Enrichment adapter failures by provider",
		},
		[]string{"provider"},
	)
)
