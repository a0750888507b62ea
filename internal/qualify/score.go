package qualify

import (
	"strconv"
	"strings"
)

// Concern codes recorded during scoring. Ordered output follows the
// sub-score evaluation order: budget, intent, readiness, engagement.
const (
	ConcernBudgetUnknown       = "budget_unknown"
	ConcernSourceUnknown       = "source_unknown"
	ConcernReadinessIncomplete = "readiness_data_incomplete"
	ConcernEngagementUnknown   = "engagement_unknown"
)

// ScoreBreakdown carries the four component scores and their exact sum.
type ScoreBreakdown struct {
	Budget     int `json:"budgetScore"`
	Intent     int `json:"intentScore"`
	Readiness  int `json:"readinessScore"`
	Engagement int `json:"engagementScore"`
	Total      int `json:"total"`
}

// Score maps an enriched lead to a breakdown plus the concerns recorded
// along the way. Each sub-score is a pure function of its own inputs.
func (p Policy) Score(lead EnrichedLead) (ScoreBreakdown, []string) {
	concerns := []string{}

	budget, concern := p.budgetScore(lead)
	if concern != "" {
		concerns = append(concerns, concern)
	}

	intent, concern := p.intentScore(lead)
	if concern != "" {
		concerns = append(concerns, concern)
	}

	readiness, concern := p.readinessScore(lead)
	if concern != "" {
		concerns = append(concerns, concern)
	}

	engagement, concern := p.engagementScore(lead)
	if concern != "" {
		concerns = append(concerns, concern)
	}

	breakdown := ScoreBreakdown{
		Budget:     budget,
		Intent:     intent,
		Readiness:  readiness,
		Engagement: engagement,
	}
	breakdown.Total = breakdown.Budget + breakdown.Intent + breakdown.Readiness + breakdown.Engagement

	return breakdown, concerns
}

func (p Policy) budgetScore(lead EnrichedLead) (int, string) {
	amount, ok := parseBudget(lead.Budget)
	if !ok {
		return 0, ConcernBudgetUnknown
	}

	for _, tier := range p.BudgetTiers {
		if amount >= tier.Min {
			return clamp(tier.Points, 0, p.BudgetMax), ""
		}
	}
	// A stated budget below every tier still earns minimal credit.
	return clamp(p.BudgetFloorPoints, 0, p.BudgetMax), ""
}

func (p Policy) intentScore(lead EnrichedLead) (int, string) {
	source := lead.Source
	if source == "" {
		source = SourceUnknown
	}

	points, ok := p.SourcePoints[source]
	if !ok {
		points = p.SourcePoints[SourceUnknown]
		source = SourceUnknown
	}

	concern := ""
	if source == SourceUnknown {
		concern = ConcernSourceUnknown
	}
	return clamp(points, 0, p.IntentMax), concern
}

func (p Policy) readinessScore(lead EnrichedLead) (int, string) {
	incomplete := false

	tenure := p.TenureMissingPoints
	if lead.YearsInCity == nil {
		incomplete = true
	} else {
		for _, tier := range p.TenureTiers {
			if *lead.YearsInCity >= tier.MinYears {
				tenure = tier.Points
				break
			}
		}
	}

	employment := p.EmploymentMissingPoints
	if lead.EmploymentStatus == nil || *lead.EmploymentStatus == EmploymentUnknown {
		incomplete = true
	} else if points, ok := p.EmploymentPoints[*lead.EmploymentStatus]; ok {
		employment = points
	} else {
		incomplete = true
	}

	score := clamp(tenure, 0, p.TenureMax) + clamp(employment, 0, p.EmploymentMax)

	concern := ""
	if incomplete {
		concern = ConcernReadinessIncomplete
	}
	return clamp(score, 0, p.ReadinessMax), concern
}

func (p Policy) engagementScore(lead EnrichedLead) (int, string) {
	if lead.ResponseMinutes == nil || *lead.ResponseMinutes < 0 {
		return clamp(p.EngagementMissingPoints, 0, p.EngagementMax), ConcernEngagementUnknown
	}

	for _, bucket := range p.EngagementBuckets {
		if *lead.ResponseMinutes <= bucket.MaxMinutes {
			return clamp(bucket.Points, 0, p.EngagementMax), ""
		}
	}
	return clamp(p.EngagementSlowestPoints, 0, p.EngagementMax), ""
}

// parseBudget extracts a positive amount from a stated budget string.
// Currency symbols, commas, and whitespace are tolerated; anything else
// unparsable is treated the same as missing.
func parseBudget(raw *string) (float64, bool) {
	if raw == nil {
		return 0, false
	}

	cleaned := strings.TrimSpace(*raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, false
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
