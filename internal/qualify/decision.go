package qualify

// Decision is the qualification outcome for a lead.
type Decision string

const (
	DecisionQualified    Decision = "qualified"
	DecisionNotQualified Decision = "not_qualified"
	DecisionNeedsReview  Decision = "needs_review"
)

// Confidence reflects how complete the input data was, not how high
// the score is.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// DeriveConfidence is high only when scoring recorded zero concerns.
// Every missing or malformed field required for a sub-score records a
// concern, so completeness and concern count coincide.
func DeriveConfidence(concerns []string) Confidence {
	if len(concerns) == 0 {
		return ConfidenceHigh
	}
	return ConfidenceLow
}

// Decide classifies a total score plus confidence into a decision.
// The NotQualified floor is absolute; confidence does not override it.
func (p Policy) Decide(total int, confidence Confidence) Decision {
	switch {
	case total < p.NotQualifiedCutoff:
		return DecisionNotQualified
	case total >= p.QualifiedCutoff && confidence == ConfidenceHigh:
		return DecisionQualified
	default:
		return DecisionNeedsReview
	}
}
