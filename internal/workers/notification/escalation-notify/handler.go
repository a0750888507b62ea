// internal/workers/notification/escalation-notify/handler.go
package escalationnotify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	commonaws "lead-qualification-workers/internal/common/aws"
	"lead-qualification-workers/internal/common/logger"
	"lead-qualification-workers/internal/common/metrics"
	"lead-qualification-workers/internal/qualify"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "escalation-notify"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	ctx := context.Background()

	sesClient, err := commonaws.NewSESClient(ctx, config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("create SES client: %w", err)
	}
	snsClient, err := commonaws.NewSNSClient(ctx, config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("create SNS client: %w", err)
	}

	return &Handler{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: sesClient,
		snsClient: snsClient,
	}, nil
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
		h.failJob(client, job, "NOTIFICATION_SEND_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	emailSent := false
	smsSent := false

	if h.shouldEmail(input) {
		subject, body := h.renderReviewEmail(input)
		if err := h.sendEmail(ctx, h.config.ReviewQueueEmail, subject, body); err != nil {
			h.logger.Error("review queue email failed", map[string]interface{}{
				"error":  err,
				"leadId": input.Lead.ID,
			})
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		emailSent = true
	}

	if h.shouldSMS(input) {
		message := h.renderSalesSMS(input)
		if err := h.sendSMS(ctx, h.config.SalesPhone, message); err != nil {
			h.logger.Error("sales SMS failed", map[string]interface{}{
				"error":  err,
				"leadId": input.Lead.ID,
			})
			return &Output{
				NotificationID: notificationID,
				Status:         StatusFailed,
				EmailSent:      emailSent,
				SentAt:         sentAt,
			}, nil
		}
		smsSent = true
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}

	h.logger.Info("escalation notification processed", map[string]interface{}{
		"notificationId": notificationID,
		"leadId":         input.Lead.ID,
		"status":         status,
		"emailSent":      emailSent,
		"smsSent":        smsSent,
	})

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		EmailSent:      emailSent,
		SMSSent:        smsSent,
		SentAt:         sentAt,
	}, nil
}

func (h *Handler) shouldEmail(input *Input) bool {
	return h.config.EmailEnabled &&
		h.config.ReviewQueueEmail != "" &&
		input.NeedsHumanReview
}

// shouldSMS pings sales only for clean, high-value qualifications.
func (h *Handler) shouldSMS(input *Input) bool {
	return h.config.SMSEnabled &&
		h.config.SalesPhone != "" &&
		input.Decision == qualify.DecisionQualified &&
		input.ScoreBreakdown.Total >= h.config.SMSMinTotalScore
}

func (h *Handler) renderReviewEmail(input *Input) (string, string) {
	subject := fmt.Sprintf("Lead %s needs review (score %d, %s)",
		input.Lead.ID, input.ScoreBreakdown.Total, input.Decision)

	var b strings.Builder
	fmt.Fprintf(&b, "Lead: %s <%s>\n", input.Lead.Name, input.Lead.Email)
	if input.Lead.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", input.Lead.Company)
	}
	fmt.Fprintf(&b, "Decision: %s (confidence %s)\n", input.Decision, input.Confidence)
	fmt.Fprintf(&b, "Score: %d (budget %d, intent %d, readiness %d, engagement %d)\n",
		input.ScoreBreakdown.Total,
		input.ScoreBreakdown.Budget,
		input.ScoreBreakdown.Intent,
		input.ScoreBreakdown.Readiness,
		input.ScoreBreakdown.Engagement,
	)
	if len(input.ReviewReasons) > 0 {
		b.WriteString("Review reasons:\n")
		for _, reason := range input.ReviewReasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
	}

	return subject, b.String()
}

func (h *Handler) renderSalesSMS(input *Input) string {
	return fmt.Sprintf("Qualified lead %s (%s) scored %d. Follow up now.",
		input.Lead.Name, input.Lead.Email, input.ScoreBreakdown.Total)
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
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
