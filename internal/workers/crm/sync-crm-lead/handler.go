// internal/workers/crm/sync-crm-lead/handler.go
package synccrmlead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lead-qualification-workers/internal/common/crm"
	"lead-qualification-workers/internal/common/logger"
	"lead-qualification-workers/internal/common/metrics"
	"lead-qualification-workers/internal/qualify"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "sync-crm-lead"
)

var (
	ErrCRMSyncFailed  = errors.New("CRM_SYNC_FAILED")
	ErrCRMAuthFailed  = errors.New("CRM_AUTH_FAILED")
	ErrCRMRateLimited = errors.New("CRM_RATE_LIMITED")
)

// CRMService is satisfied by the CRM HTTP client.
type CRMService interface {
	SearchLeads(ctx context.Context, email string) ([]crm.LeadRecord, error)
	CreateLead(ctx context.Context, lead *crm.LeadRecord) (string, error)
	UpdateLead(ctx context.Context, leadID string, lead *crm.LeadRecord) error
}

type Handler struct {
	config *Config
	crm    CRMService
	logger logger.Logger
}

func NewHandler(config *Config, crmClient CRMService, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		crm:    crmClient,
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "CRM_SYNC_FAILED"
		switch {
		case errors.Is(err, ErrCRMAuthFailed):
			errorCode = "CRM_AUTH_FAILED"
		case errors.Is(err, ErrCRMRateLimited):
			errorCode = "CRM_RATE_LIMITED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	record := &crm.LeadRecord{
		Email:            input.Lead.Email,
		FullName:         input.Lead.Name,
		Company:          input.Lead.Company,
		Source:           string(input.Lead.Source),
		Status:           crmStatus(input.Decision),
		Score:            input.ScoreBreakdown.Total,
		Confidence:       string(input.Confidence),
		NeedsHumanReview: input.NeedsHumanReview,
	}

	existing, err := h.crm.SearchLeads(ctx, input.Lead.Email)
	if err != nil {
		return nil, h.classify(err, "search")
	}

	syncedAt := time.Now().UTC().Format(time.RFC3339)

	if len(existing) > 0 {
		crmLeadID := existing[0].ID
		if err := h.crm.UpdateLead(ctx, crmLeadID, record); err != nil {
			return nil, h.classify(err, "update")
		}
		h.logger.Info("CRM lead updated", map[string]interface{}{
			"leadId":    input.Lead.ID,
			"crmLeadId": crmLeadID,
		})
		return &Output{CRMLeadID: crmLeadID, Action: ActionUpdated, SyncedAt: syncedAt}, nil
	}

	crmLeadID, err := h.crm.CreateLead(ctx, record)
	if err != nil {
		return nil, h.classify(err, "create")
	}

	h.logger.Info("CRM lead created", map[string]interface{}{
		"leadId":    input.Lead.ID,
		"crmLeadId": crmLeadID,
	})

	return &Output{CRMLeadID: crmLeadID, Action: ActionCreated, SyncedAt: syncedAt}, nil
}

func crmStatus(decision qualify.Decision) string {
	switch decision {
	case qualify.DecisionQualified:
		return "Qualified"
	case qualify.DecisionNotQualified:
		return "Disqualified"
	default:
		return "In Review"
	}
}

func (h *Handler) classify(err error, op string) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limited"):
		return fmt.Errorf("%w: %s: %v", ErrCRMRateLimited, op, err)
	case strings.Contains(msg, "credentials"):
		return fmt.Errorf("%w: %s: %v", ErrCRMAuthFailed, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrCRMSyncFailed, op, err)
	}
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
