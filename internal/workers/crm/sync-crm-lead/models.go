// internal/workers/crm/sync-crm-lead/models.go
package synccrmlead

import "lead-qualification-workers/internal/qualify"

type Input struct {
	Lead             qualify.EnrichedLead   `json:"lead"`
	ScoreBreakdown   qualify.ScoreBreakdown `json:"scoreBreakdown"`
	Decision         qualify.Decision       `json:"decision"`
	Confidence       qualify.Confidence     `json:"confidence"`
	NeedsHumanReview bool                   `json:"needsHumanReview"`
}

type Output struct {
	CRMLeadID string `json:"crmLeadId"`
	Action    string `json:"crmAction"` // "created" or "updated"
	SyncedAt  string `json:"syncedAt"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)
