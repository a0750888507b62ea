// internal/workers/notification/escalation-notify/handler_test.go
package escalationnotify

import (
	"context"
	"errors"
	"testing"
	"time"

	"lead-qualification-workers/internal/common/logger"
	"lead-qualification-workers/internal/qualify"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	err   error
	calls int
	input *ses.SendEmailInput
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	m.calls++
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	err   error
	calls int
	input *sns.PublishInput
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
	m.calls++
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

func createTestConfig() *Config {
	return &Config{
		EmailEnabled:     true,
		SMSEnabled:       true,
		FromEmail:        "noreply@example.com",
		ReviewQueueEmail: "review-queue@example.com",
		SalesPhone:       "+15550100",
		SMSMinTotalScore: 85,
		Timeout:          10 * time.Second,
	}
}

func newTestHandler(t *testing.T, config *Config, sesMock SESService, snsMock SNSService) *Handler {
	return &Handler{
		config:    config,
		logger:    logger.NewTestLogger(t),
		sesClient: sesMock,
		snsClient: snsMock,
	}
}

func reviewInput() *Input {
	return &Input{
		Lead: qualify.EnrichedLead{Lead: qualify.Lead{
			ID:    "lead-001",
			Name:  "Maria Santos",
			Email: "maria@acme-corp.com",
		}},
		ScoreBreakdown:   qualify.ScoreBreakdown{Budget: 15, Intent: 25, Readiness: 22, Engagement: 3, Total: 65},
		Decision:         qualify.DecisionNeedsReview,
		Confidence:       qualify.ConfidenceHigh,
		NeedsHumanReview: true,
		ReviewReasons:    []string{"decision is needs_review", "total score 65 falls in the 60-70 review band"},
	}
}

func qualifiedInput() *Input {
	return &Input{
		Lead: qualify.EnrichedLead{Lead: qualify.Lead{
			ID:    "lead-002",
			Name:  "Maria Santos",
			Email: "maria@acme-corp.com",
		}},
		ScoreBreakdown: qualify.ScoreBreakdown{Total: 97},
		Decision:       qualify.DecisionQualified,
		Confidence:     qualify.ConfidenceHigh,
	}
}

func TestExecuteEmailsReviewQueue(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	handler := newTestHandler(t, createTestConfig(), sesMock, snsMock)

	output, err := handler.Execute(context.Background(), reviewInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.True(t, output.EmailSent)
	assert.False(t, output.SMSSent)
	assert.Equal(t, 1, sesMock.calls)
	assert.Equal(t, 0, snsMock.calls)
	require.NotNil(t, sesMock.input)
	assert.Equal(t, []string{"review-queue@example.com"}, sesMock.input.Destination.ToAddresses)
	assert.Contains(t, *sesMock.input.Message.Body.Text.Data, "review band")
}

func TestExecuteSMSForHighValueQualifiedLead(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	handler := newTestHandler(t, createTestConfig(), sesMock, snsMock)

	output, err := handler.Execute(context.Background(), qualifiedInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.False(t, output.EmailSent)
	assert.True(t, output.SMSSent)
	assert.Equal(t, 0, sesMock.calls)
	assert.Equal(t, 1, snsMock.calls)
	require.NotNil(t, snsMock.input)
	assert.Equal(t, "+15550100", *snsMock.input.PhoneNumber)
	assert.Contains(t, *snsMock.input.Message, "97")
}

func TestExecuteSMSSkippedBelowThreshold(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	handler := newTestHandler(t, createTestConfig(), sesMock, snsMock)

	input := qualifiedInput()
	input.ScoreBreakdown.Total = 72

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.Equal(t, 0, snsMock.calls)
}

func TestExecuteNoChannelsApply(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	handler := newTestHandler(t, createTestConfig(), sesMock, snsMock)

	input := qualifiedInput()
	input.Decision = qualify.DecisionNotQualified
	input.ScoreBreakdown.Total = 20

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.Equal(t, 0, sesMock.calls)
	assert.Equal(t, 0, snsMock.calls)
}

func TestExecuteChannelsDisabled(t *testing.T) {
	config := createTestConfig()
	config.EmailEnabled = false
	config.SMSEnabled = false

	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	handler := newTestHandler(t, config, sesMock, snsMock)

	output, err := handler.Execute(context.Background(), reviewInput())

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.Equal(t, 0, sesMock.calls)
}

func TestExecuteEmailFailure(t *testing.T) {
	sesMock := &mockSES{err: errors.New("ses throttled")}
	snsMock := &mockSNS{}
	handler := newTestHandler(t, createTestConfig(), sesMock, snsMock)

	output, err := handler.Execute(context.Background(), reviewInput())

	require.NoError(t, err, "send failure is reported via status, not a thrown error")
	assert.Equal(t, StatusFailed, output.Status)
	assert.False(t, output.EmailSent)
}

func TestExecuteSMSFailureAfterEmail(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{err: errors.New("sns unavailable")}
	handler := newTestHandler(t, createTestConfig(), sesMock, snsMock)

	input := reviewInput()
	input.Decision = qualify.DecisionQualified
	input.ScoreBreakdown.Total = 90

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
	assert.True(t, output.EmailSent)
	assert.False(t, output.SMSSent)
}

func TestRenderReviewEmailIncludesBreakdown(t *testing.T) {
	handler := newTestHandler(t, createTestConfig(), &mockSES{}, &mockSNS{})

	subject, body := handler.renderReviewEmail(reviewInput())

	assert.Contains(t, subject, "lead-001")
	assert.Contains(t, subject, "65")
	assert.Contains(t, body, "maria@acme-corp.com")
	assert.Contains(t, body, "budget 15")
	assert.Contains(t, body, "needs_review")
}
