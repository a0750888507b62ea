// internal/workers/crm/record-qualification/handler.go
package recordqualification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lead-qualification-workers/internal/common/logger"
	"lead-qualification-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "record-qualification"
)

var (
	ErrDatabaseInsertFailed   = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateQualification = errors.New("DUPLICATE_QUALIFICATION")
)

// DocumentIndexer is satisfied by the Elasticsearch client.
type DocumentIndexer interface {
	IndexDocument(ctx context.Context, index, docID string, doc interface{}) error
}

type Handler struct {
	config  *Config
	db      *sql.DB
	indexer DocumentIndexer
	logger  logger.Logger
}

func NewHandler(config *Config, db *sql.DB, indexer DocumentIndexer, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		db:      db,
		indexer: indexer,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		retries := int32(0)
		if errors.Is(err, ErrDatabaseInsertFailed) {
			errorCode = "DATABASE_INSERT_FAILED"
			retries = 3
		} else if errors.Is(err, ErrDuplicateQualification) {
			errorCode = "DUPLICATE_QUALIFICATION"
			retries = 0
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM lead_qualifications
			WHERE lead_id = $1
		)`, input.Lead.ID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: qualification already recorded for lead %s",
			ErrDuplicateQualification, input.Lead.ID)
	}

	qualificationID := uuid.New().String()
	recordedAt := time.Now().UTC().Format(time.RFC3339)

	breakdownJSON, err := json.Marshal(input.ScoreBreakdown)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal score breakdown: %v", ErrDatabaseInsertFailed, err)
	}
	concernsJSON, err := json.Marshal(input.Concerns)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal concerns: %v", ErrDatabaseInsertFailed, err)
	}
	reasonsJSON, err := json.Marshal(input.ReviewReasons)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal review reasons: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO lead_qualifications (
			id, lead_id, email, company, source, decision, confidence,
			needs_human_review, total_score, score_breakdown, concerns,
			review_reasons, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
		qualificationID,
		input.Lead.ID,
		input.Lead.Email,
		input.Lead.Company,
		string(input.Lead.Source),
		string(input.Decision),
		string(input.Confidence),
		input.NeedsHumanReview,
		input.ScoreBreakdown.Total,
		breakdownJSON,
		concernsJSON,
		reasonsJSON,
		recordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	// Audit entry is non-critical, log and continue on failure.
	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"leadId":     input.Lead.ID,
		"decision":   input.Decision,
		"confidence": input.Confidence,
		"totalScore": input.ScoreBreakdown.Total,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		auditDetailsJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"qualification_recorded",
		"lead_qualification",
		qualificationID,
		auditDetailsJSON,
		recordedAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":           err,
			"qualificationId": qualificationID,
		})
	}

	indexed := h.indexDocument(ctx, qualificationID, recordedAt, input)

	h.logger.Info("qualification recorded", map[string]interface{}{
		"qualificationId": qualificationID,
		"leadId":          input.Lead.ID,
		"decision":        input.Decision,
		"indexed":         indexed,
	})

	return &Output{
		QualificationID: qualificationID,
		Indexed:         indexed,
		RecordedAt:      recordedAt,
	}, nil
}

// indexDocument mirrors the row into the search index. The database is
// authoritative, so an index failure does not fail the job.
func (h *Handler) indexDocument(ctx context.Context, qualificationID, recordedAt string, input *Input) bool {
	if h.indexer == nil {
		return false
	}

	doc := searchDocument{
		QualificationID:  qualificationID,
		LeadID:           input.Lead.ID,
		Email:            input.Lead.Email,
		Company:          input.Lead.Company,
		Source:           input.Lead.Source,
		Decision:         input.Decision,
		Confidence:       input.Confidence,
		NeedsHumanReview: input.NeedsHumanReview,
		ScoreBreakdown:   input.ScoreBreakdown,
		Concerns:         input.Concerns,
		RecordedAt:       recordedAt,
	}

	if err := h.indexer.IndexDocument(ctx, h.config.SearchIndex, qualificationID, doc); err != nil {
		h.logger.Warn("search index write failed", map[string]interface{}{
			"error":           err,
			"qualificationId": qualificationID,
			"index":           h.config.SearchIndex,
		})
		return false
	}
	return true
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
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
