package qualify

// BudgetTier awards Points when the parsed budget is at least Min.
type BudgetTier struct {
	Min    float64
	Points int
}

// TenureTier awards Points when years in city is at least MinYears.
type TenureTier struct {
	MinYears int
	Points   int
}

// ResponseBucket awards Points when the response time is at most
// MaxMinutes.
type ResponseBucket struct {
	MaxMinutes float64
	Points     int
}

// Policy holds every threshold and weight the engine evaluates. It is
// injected at engine construction; nothing in the scoring or decision
// path reads ambient configuration.
type Policy struct {
	// Budget sub-score (0..BudgetMax). Tiers are ordered by descending
	// Min; a stated budget below the lowest tier still earns
	// BudgetFloorPoints.
	BudgetTiers       []BudgetTier
	BudgetFloorPoints int
	BudgetMax         int

	// Intent sub-score (0..IntentMax), a direct map from source.
	SourcePoints map[LeadSource]int
	IntentMax    int

	// Readiness sub-score (0..ReadinessMax), tenure half plus
	// employment half. A missing field floors its half at the
	// *MissingPoints value.
	TenureTiers             []TenureTier
	TenureMissingPoints     int
	TenureMax               int
	EmploymentPoints        map[EmploymentStatus]int
	EmploymentMissingPoints int
	EmploymentMax           int
	ReadinessMax            int

	// Engagement sub-score (0..EngagementMax). Buckets are ordered by
	// ascending MaxMinutes; slower than the last bucket earns
	// EngagementSlowestPoints, missing earns EngagementMissingPoints.
	EngagementBuckets       []ResponseBucket
	EngagementSlowestPoints int
	EngagementMissingPoints int
	EngagementMax           int

	// Decision cutoffs. Total >= QualifiedCutoff with high confidence
	// qualifies; total < NotQualifiedCutoff disqualifies; everything
	// else needs review.
	QualifiedCutoff    int
	NotQualifiedCutoff int

	// Review band [ReviewBandLow, ReviewBandHigh], inclusive on both
	// ends, always escalated regardless of decision.
	ReviewBandLow  int
	ReviewBandHigh int

	// ConcernThreshold is the concern count at which the "multiple
	// concerns" escalation trigger fires.
	ConcernThreshold int
}

// DefaultPolicy returns the production threshold table.
func DefaultPolicy() Policy {
	return Policy{
		BudgetTiers: []BudgetTier{
			{Min: 500000, Points: 30},
			{Min: 250000, Points: 22},
			{Min: 100000, Points: 15},
			{Min: 25000, Points: 8},
		},
		BudgetFloorPoints: 2,
		BudgetMax:         30,

		SourcePoints: map[LeadSource]int{
			SourceReferral: 25,
			SourcePaidAd:   18,
			SourceOrganic:  12,
			SourceUnknown:  5,
		},
		IntentMax: 25,

		TenureTiers: []TenureTier{
			{MinYears: 10, Points: 13},
			{MinYears: 5, Points: 10},
			{MinYears: 2, Points: 6},
			{MinYears: 1, Points: 4},
		},
		TenureMissingPoints: 2,
		TenureMax:           13,
		EmploymentPoints: map[EmploymentStatus]int{
			EmploymentEmployed:     12,
			EmploymentSelfEmployed: 10,
			EmploymentUnemployed:   4,
			EmploymentUnknown:      2,
		},
		EmploymentMissingPoints: 2,
		EmploymentMax:           12,
		ReadinessMax:            25,

		EngagementBuckets: []ResponseBucket{
			{MaxMinutes: 60, Points: 20},
			{MaxMinutes: 240, Points: 15},
			{MaxMinutes: 1440, Points: 10},
			{MaxMinutes: 4320, Points: 6},
		},
		EngagementSlowestPoints: 3,
		EngagementMissingPoints: 3,
		EngagementMax:           20,

		QualifiedCutoff:    70,
		NotQualifiedCutoff: 40,
		ReviewBandLow:      60,
		ReviewBandHigh:     70,
		ConcernThreshold:   2,
	}
}

// TotalMax is the ceiling of the combined score under this policy.
func (p Policy) TotalMax() int {
	return p.BudgetMax + p.IntentMax + p.ReadinessMax + p.EngagementMax
}
