// internal/workers/qualification/make-qualification-decision/handler.go
package makequalificationdecision

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
	TaskType = "make-qualification-decision"
)

type Handler struct {
	engine *qualify.Engine
	logger logger.Logger
}

func NewHandler(config *Config, engine *qualify.Engine, log logger.Logger) *Handler {
	return &Handler{
		engine: engine,
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
		h.failJob(client, job, "DECISION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute finishes the pass from the upstream breakdown. When no
// breakdown arrived, for instance because the process skipped the
// scoring task, the lead is scored from scratch.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	var result qualify.QualificationResult
	if input.ScoreBreakdown == (qualify.ScoreBreakdown{}) && input.Concerns == nil {
		result = h.engine.Qualify(input.Lead)
	} else {
		result = h.engine.Evaluate(input.Lead, input.ScoreBreakdown, input.Concerns)
	}

	metrics.QualificationDecisions.WithLabelValues(string(result.Decision), string(result.Confidence)).Inc()
	if result.NeedsHumanReview {
		metrics.QualificationEscalations.Inc()
	}

	h.logger.Info("qualification decision made", map[string]interface{}{
		"leadId":           input.Lead.ID,
		"decision":         result.Decision,
		"confidence":       result.Confidence,
		"total":            result.Score.Total,
		"needsHumanReview": result.NeedsHumanReview,
		"reviewReasons":    result.ReviewReasons,
	})

	return &Output{
		Decision:         result.Decision,
		Confidence:       result.Confidence,
		NeedsHumanReview: result.NeedsHumanReview,
		ReviewReasons:    result.ReviewReasons,
		Concerns:         result.Concerns,
		ScoreBreakdown:   result.Score,
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
