package qualify

import (
	"fmt"
	"strings"
)

// reviewReasons evaluates the escalation triggers. Every trigger is
// checked; all that fire contribute a reason. The result is empty only
// when no trigger holds.
func (p Policy) reviewReasons(lead EnrichedLead, breakdown ScoreBreakdown, decision Decision, confidence Confidence, concerns []string) []string {
	reasons := []string{}

	if decision == DecisionNeedsReview {
		reasons = append(reasons, "decision requires manual review")
	}

	if breakdown.Total >= p.ReviewBandLow && breakdown.Total <= p.ReviewBandHigh {
		reasons = append(reasons, fmt.Sprintf("total score %d falls in the %d-%d review band", breakdown.Total, p.ReviewBandLow, p.ReviewBandHigh))
	}

	if confidence == ConfidenceLow {
		reasons = append(reasons, "low confidence due to incomplete lead data")
	}

	if len(concerns) >= p.ConcernThreshold {
		reasons = append(reasons, fmt.Sprintf("multiple data concerns recorded (%d)", len(concerns)))
	}

	if missing := missingCriticalFields(lead); len(missing) > 0 {
		reasons = append(reasons, fmt.Sprintf("critical field missing: %s", strings.Join(missing, ", ")))
	}

	if lead.EnrichmentFailed {
		reasons = append(reasons, "enrichment failed; scored on raw fields only")
	}

	return reasons
}

// missingCriticalFields reports the business-critical gaps that force
// escalation regardless of the computed score: an absent or unparsable
// budget, and an unknown acquisition source.
func missingCriticalFields(lead EnrichedLead) []string {
	missing := []string{}
	if _, ok := parseBudget(lead.Budget); !ok {
		missing = append(missing, "budget")
	}
	if lead.Source == SourceUnknown || lead.Source == "" {
		missing = append(missing, "source")
	}
	return missing
}
