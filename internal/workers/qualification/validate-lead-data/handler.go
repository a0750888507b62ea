// internal/workers/qualification/validate-lead-data/handler.go
package validateleaddata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lead-qualification-workers/internal/common/logger"
	"lead-qualification-workers/internal/common/metrics"
	"lead-qualification-workers/internal/common/validation"
	"lead-qualification-workers/internal/qualify"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "validate-lead-data"
)

var (
	ErrLeadValidationFailed = errors.New("LEAD_VALIDATION_FAILED")
)

// leadSchema covers structure and types only. Email format and field
// normalization happen after the schema pass.
var leadSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"leadId", "name", "email"},
	"properties": map[string]interface{}{
		"leadId":              map[string]interface{}{"type": "string", "minLength": 1},
		"name":                map[string]interface{}{"type": "string", "minLength": 1},
		"email":               map[string]interface{}{"type": "string", "minLength": 3},
		"company":             map[string]interface{}{"type": "string"},
		"budget":              map[string]interface{}{"type": "string"},
		"source":              map[string]interface{}{"type": "string"},
		"responseTimeMinutes": map[string]interface{}{"type": "number"},
		"yearsInCity":         map[string]interface{}{"type": "integer"},
		"employmentStatus":    map[string]interface{}{"type": "string"},
	},
}

type Handler struct {
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
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
		message := err.Error()
		if output != nil && len(output.ValidationErrors) > 0 {
			messages := make([]string, 0, len(output.ValidationErrors))
			for _, ve := range output.ValidationErrors {
				messages = append(messages, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
			}
			message = strings.Join(messages, "; ")
		}
		h.failJob(client, job, "LEAD_VALIDATION_FAILED", message)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	data := input.Lead
	if data == nil {
		data = make(map[string]interface{})
	}

	var validationErrors []ValidationError

	schemaLoader := gojsonschema.NewGoLoader(leadSchema)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "lead",
			Message: fmt.Sprintf("schema validation error: %v", err),
			Code:    "SCHEMA_ERROR",
		})
	} else {
		for _, verr := range result.Errors() {
			validationErrors = append(validationErrors, ValidationError{
				Field:   verr.Field(),
				Message: verr.Description(),
				Code:    "SCHEMA_VIOLATION",
			})
		}
	}

	if emailRaw, ok := data["email"].(string); ok && emailRaw != "" {
		if !validation.ValidateEmail(emailRaw) {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "email",
				Message: "invalid email format",
				Code:    "INVALID_EMAIL",
			})
		}
	}

	if len(validationErrors) > 0 {
		h.logger.Warn("lead validation failed", map[string]interface{}{
			"errorCount": len(validationErrors),
			"errors":     validationErrors,
		})
		return &Output{
			LeadValid:        false,
			ValidationErrors: validationErrors,
		}, ErrLeadValidationFailed
	}

	lead, err := h.normalize(data)
	if err != nil {
		return &Output{
			LeadValid: false,
			ValidationErrors: []ValidationError{{
				Field:   "lead",
				Message: err.Error(),
				Code:    "NORMALIZE_ERROR",
			}},
		}, ErrLeadValidationFailed
	}

	h.logger.Info("lead validated", map[string]interface{}{
		"leadId": lead.ID,
		"source": lead.Source,
	})

	return &Output{
		LeadValid: true,
		Lead:      lead,
	}, nil
}

// normalize maps the raw payload onto the canonical lead shape,
// lowercasing source and employment aliases along the way.
func (h *Handler) normalize(data map[string]interface{}) (qualify.Lead, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return qualify.Lead{}, fmt.Errorf("marshal lead: %w", err)
	}

	var lead qualify.Lead
	if err := json.Unmarshal(raw, &lead); err != nil {
		return qualify.Lead{}, fmt.Errorf("unmarshal lead: %w", err)
	}

	lead.Source = qualify.ParseSource(string(lead.Source))
	if lead.EmploymentStatus != nil {
		status := qualify.ParseEmploymentStatus(string(*lead.EmploymentStatus))
		lead.EmploymentStatus = &status
	}

	return lead, nil
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
