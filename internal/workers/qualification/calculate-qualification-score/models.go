// internal/workers/qualification/calculate-qualification-score/models.go
package calculatequalificationscore

import "lead-qualification-workers/internal/qualify"

type Input struct {
	Lead qualify.EnrichedLead `json:"lead"`
}

type Output struct {
	ScoreBreakdown qualify.ScoreBreakdown `json:"scoreBreakdown"`
	Concerns       []string               `json:"concerns"`
	Confidence     qualify.Confidence     `json:"confidence"`
}
