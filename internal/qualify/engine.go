package qualify

// QualificationResult is the immutable outcome of one qualification
// pass. Concerns and ReviewReasons are always non-nil so the JSON form
// is stable across passes.
type QualificationResult struct {
	Score            ScoreBreakdown `json:"score"`
	Decision         Decision       `json:"decision"`
	Confidence       Confidence     `json:"confidence"`
	NeedsHumanReview bool           `json:"needsHumanReview"`
	Concerns         []string       `json:"concerns"`
	ReviewReasons    []string       `json:"reviewReasons"`
}

// Engine evaluates leads against an injected policy. It holds no
// per-call state; one Engine may serve any number of concurrent passes.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// DefaultEngine returns an engine running the production policy.
func DefaultEngine() *Engine {
	return NewEngine(DefaultPolicy())
}

// Policy returns the threshold table the engine was built with.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Qualify runs one full pass: scoring, confidence, decision, and
// escalation. It accepts any lead content, including one with every
// optional field absent, and always returns a well-formed result.
func (e *Engine) Qualify(lead EnrichedLead) QualificationResult {
	breakdown, concerns := e.policy.Score(lead)
	confidence := DeriveConfidence(concerns)
	decision := e.policy.Decide(breakdown.Total, confidence)
	reasons := e.policy.reviewReasons(lead, breakdown, decision, confidence, concerns)

	return QualificationResult{
		Score:            breakdown,
		Decision:         decision,
		Confidence:       confidence,
		NeedsHumanReview: len(reasons) > 0,
		Concerns:         concerns,
		ReviewReasons:    reasons,
	}
}

// Evaluate finishes a pass whose scoring already happened elsewhere:
// it derives confidence, decision, and escalation from a precomputed
// breakdown without rescoring the lead.
func (e *Engine) Evaluate(lead EnrichedLead, breakdown ScoreBreakdown, concerns []string) QualificationResult {
	if concerns == nil {
		concerns = []string{}
	}
	confidence := DeriveConfidence(concerns)
	decision := e.policy.Decide(breakdown.Total, confidence)
	reasons := e.policy.reviewReasons(lead, breakdown, decision, confidence, concerns)

	return QualificationResult{
		Score:            breakdown,
		Decision:         decision,
		Confidence:       confidence,
		NeedsHumanReview: len(reasons) > 0,
		Concerns:         concerns,
		ReviewReasons:    reasons,
	}
}

// QualifyRaw degrades to raw-fields-only scoring when enrichment could
// not return anything: the lead is treated as an EnrichedLead with all
// enrichment fields absent.
func (e *Engine) QualifyRaw(lead Lead) QualificationResult {
	return e.Qualify(EnrichedLead{Lead: lead, EnrichmentFailed: true})
}
