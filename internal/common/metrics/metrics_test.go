// internal/common/metrics/metrics_test.go
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// The handler lifecycle is: active gauge up on entry, down on exit,
// then either the completed counter plus a duration observation or the
// failed counter with the thrown error code.
func TestWorkerMetricsTrackJobLifecycle(t *testing.T) {
	const taskType = "validate-lead-data"

	WorkerJobsActive.WithLabelValues(taskType).Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues(taskType)))
	WorkerJobsActive.WithLabelValues(taskType).Dec()
	assert.Equal(t, 0.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues(taskType)))

	completedBefore := testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues(taskType))
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	assert.Equal(t, completedBefore+1, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues(taskType)))

	failedBefore := testutil.ToFloat64(WorkerJobsFailed.WithLabelValues(taskType, "LEAD_VALIDATION_FAILED"))
	WorkerJobsFailed.WithLabelValues(taskType, "LEAD_VALIDATION_FAILED").Inc()
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues(taskType, "LEAD_VALIDATION_FAILED")))

	WorkerJobDuration.WithLabelValues(taskType).Observe(0.25)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(WorkerJobDuration), 1)
}

func TestQualificationMetricsAcceptDomainLabels(t *testing.T) {
	before := testutil.ToFloat64(QualificationDecisions.WithLabelValues("qualified", "high"))
	QualificationDecisions.WithLabelValues("qualified", "high").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(QualificationDecisions.WithLabelValues("qualified", "high")))

	escalationsBefore := testutil.ToFloat64(QualificationEscalations)
	QualificationEscalations.Inc()
	assert.Equal(t, escalationsBefore+1, testutil.ToFloat64(QualificationEscalations))

	failuresBefore := testutil.ToFloat64(EnrichmentFailures.WithLabelValues("heuristic"))
	EnrichmentFailures.WithLabelValues("heuristic").Inc()
	assert.Equal(t, failuresBefore+1, testutil.ToFloat64(EnrichmentFailures.WithLabelValues("heuristic")))
}
