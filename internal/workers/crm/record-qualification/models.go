// internal/workers/crm/record-qualification/models.go
package recordqualification

import "lead-qualification-workers/internal/qualify"

type Input struct {
	Lead             qualify.EnrichedLead   `json:"lead"`
	ScoreBreakdown   qualify.ScoreBreakdown `json:"scoreBreakdown"`
	Decision         qualify.Decision       `json:"decision"`
	Confidence       qualify.Confidence     `json:"confidence"`
	NeedsHumanReview bool                   `json:"needsHumanReview"`
	Concerns         []string               `json:"concerns"`
	ReviewReasons    []string               `json:"reviewReasons"`
}

type Output struct {
	QualificationID string `json:"qualificationId"`
	Indexed         bool   `json:"indexed"`
	RecordedAt      string `json:"recordedAt"`
}

// searchDocument is the denormalized shape written to the search index.
type searchDocument struct {
	QualificationID  string                 `json:"qualificationId"`
	LeadID           string                 `json:"leadId"`
	Email            string                 `json:"email"`
	Company          string                 `json:"company,omitempty"`
	Source           qualify.LeadSource     `json:"source"`
	Decision         qualify.Decision       `json:"decision"`
	Confidence       qualify.Confidence     `json:"confidence"`
	NeedsHumanReview bool                   `json:"needsHumanReview"`
	ScoreBreakdown   qualify.ScoreBreakdown `json:"scoreBreakdown"`
	Concerns         []string               `json:"concerns,omitempty"`
	RecordedAt       string                 `json:"recordedAt"`
}
