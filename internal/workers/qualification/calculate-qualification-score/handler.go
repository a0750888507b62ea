// internal/workers/qualification/calculate-qualification-score/handler.go
package calculatequalificationscore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lead-qualification-workers/internal/common/logger"
	"lead-qualification-workers/internal/common/metrics"
	"lead-qualification-workers/internal/qualify"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-qualification-score"
)

type Handler struct {
	policy qualify.Policy
	logger logger.Logger
}

func NewHandler(config *Config, policy qualify.Policy, log logger.Logger) *Handler {
	return &Handler{
		policy: policy,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "SCORING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute scores any lead content, including one with every optional
// field absent. Scoring itself cannot fail.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	breakdown, concerns := h.policy.Score(input.Lead)
	confidence := qualify.DeriveConfidence(concerns)

	metrics.QualificationScore.Observe(float64(breakdown.Total))

	h.logger.Info("qualification score calculated", map[string]interface{}{
		"leadId":     input.Lead.ID,
		"total":      breakdown.Total,
		"breakdown":  breakdown,
		"concerns":   concerns,
		"confidence": confidence,
	})

	return &Output{
		ScoreBreakdown: breakdown,
		Concerns:       concerns,
		Confidence:     confidence,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
