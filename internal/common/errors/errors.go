// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeLeadValidationFailed ErrorCode = "LEAD_VALIDATION_FAILED"
	ErrCodeInvalidLeadPayload   ErrorCode = "INVALID_LEAD_PAYLOAD"

	ErrCodeEnrichmentFailed  ErrorCode = "ENRICHMENT_FAILED"
	ErrCodeEnrichmentTimeout ErrorCode = "ENRICHMENT_TIMEOUT"

	ErrCodeScoringFailed  ErrorCode = "SCORING_FAILED"
	ErrCodeDecisionFailed ErrorCode = "DECISION_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateQualification   ErrorCode = "DUPLICATE_QUALIFICATION"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeIndexWriteFailed              ErrorCode = "INDEX_WRITE_FAILED"

	ErrCodeCRMSyncFailed  ErrorCode = "CRM_SYNC_FAILED"
	ErrCodeCRMAuthFailed  ErrorCode = "CRM_AUTH_FAILED"
	ErrCodeCRMRateLimited ErrorCode = "CRM_RATE_LIMITED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewLeadValidationFailedError creates a non-retryable lead validation error.
func NewLeadValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLeadValidationFailed,
		Message:   "Lead data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidLeadPayloadError creates a non-retryable payload error.
func NewInvalidLeadPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidLeadPayload,
		Message:   "Lead payload could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEnrichmentFailedError creates a retryable enrichment provider error.
func NewEnrichmentFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnrichmentFailed,
		Message:   "Lead enrichment provider error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEnrichmentTimeoutError creates a retryable enrichment timeout error.
func NewEnrichmentTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEnrichmentTimeout,
		Message:   "Lead enrichment timed out",
		Details:   "Provider call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringFailedError creates a non-retryable scoring error.
// Scoring itself never fails for any lead content; this covers the
// worker boundary only (unreadable job variables).
func NewScoringFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringFailed,
		Message:   "Qualification scoring could not run",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDecisionFailedError creates a non-retryable decision error.
func NewDecisionFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecisionFailed,
		Message:   "Qualification decision could not run",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateQualificationError creates a non-retryable duplicate record error.
func NewDuplicateQualificationError(leadID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateQualification,
		Message:   "Qualification already recorded for lead",
		Details:   fmt.Sprintf("leadId: %s", leadID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexWriteFailedError creates a retryable index write error.
func NewIndexWriteFailedError(indexName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexWriteFailed,
		Message:   "Elasticsearch index write failed",
		Details:   fmt.Sprintf("index: %s, error: %s", indexName, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMSyncFailedError creates a retryable CRM sync error.
func NewCRMSyncFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMSyncFailed,
		Message:   "CRM lead sync failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMAuthFailedError creates a non-retryable CRM authentication error.
func NewCRMAuthFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMAuthFailed,
		Message:   "CRM authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMRateLimitedError creates a retryable CRM rate limit error.
func NewCRMRateLimitedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMRateLimited,
		Message:   "CRM rate limit exceeded",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes. The BPMN
// process catches these codes by name, so the two sets are kept identical.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeLeadValidationFailed:          "LEAD_VALIDATION_FAILED",
	ErrCodeInvalidLeadPayload:            "INVALID_LEAD_PAYLOAD",
	ErrCodeEnrichmentFailed:              "ENRICHMENT_FAILED",
	ErrCodeEnrichmentTimeout:             "ENRICHMENT_TIMEOUT",
	ErrCodeScoringFailed:                 "SCORING_FAILED",
	ErrCodeDecisionFailed:                "DECISION_FAILED",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:          "DATABASE_INSERT_FAILED",
	ErrCodeDuplicateQualification:        "DUPLICATE_QUALIFICATION",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeIndexWriteFailed:              "INDEX_WRITE_FAILED",
	ErrCodeCRMSyncFailed:                 "CRM_SYNC_FAILED",
	ErrCodeCRMAuthFailed:                 "CRM_AUTH_FAILED",
	ErrCodeCRMRateLimited:                "CRM_RATE_LIMITED",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeEnrichmentFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeIndexWriteFailed,
		ErrCodeCRMSyncFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeEnrichmentTimeout,
		ErrCodeCRMRateLimited:
		return 2 // Partial retry for timeouts and throttling

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ENRICHMENT"):
		return "ENRICHMENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "DUPLICATE"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "CRM"):
		return "CRM"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "SCORING") || strings.Contains(codeStr, "DECISION"):
		return "QUALIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
