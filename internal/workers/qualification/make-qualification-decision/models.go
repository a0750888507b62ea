// internal/workers/qualification/make-qualification-decision/models.go
package makequalificationdecision

import "lead-qualification-workers/internal/qualify"

type Input struct {
	Lead           qualify.EnrichedLead   `json:"lead"`
	ScoreBreakdown qualify.ScoreBreakdown `json:"scoreBreakdown"`
	Concerns       []string               `json:"concerns"`
}

type Output struct {
	Decision         qualify.Decision       `json:"decision"`
	Confidence       qualify.Confidence     `json:"confidence"`
	NeedsHumanReview bool                   `json:"needsHumanReview"`
	ReviewReasons    []string               `json:"reviewReasons"`
	Concerns         []string               `json:"concerns"`
	ScoreBreakdown   qualify.ScoreBreakdown `json:"scoreBreakdown"`
}
