// internal/workers/notification/escalation-notify/models.go
package escalationnotify

import "lead-qualification-workers/internal/qualify"

type Input struct {
	Lead             qualify.EnrichedLead   `json:"lead"`
	ScoreBreakdown   qualify.ScoreBreakdown `json:"scoreBreakdown"`
	Decision         qualify.Decision       `json:"decision"`
	Confidence       qualify.Confidence     `json:"confidence"`
	NeedsHumanReview bool                   `json:"needsHumanReview"`
	ReviewReasons    []string               `json:"reviewReasons"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	EmailSent      bool   `json:"emailSent"`
	SMSSent        bool   `json:"smsSent"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
