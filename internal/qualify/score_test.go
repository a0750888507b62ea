package qualify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func f64Ptr(f float64) *float64 { return &f }

func empPtr(e EmploymentStatus) *EmploymentStatus { return &e }

func TestBudgetScore(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name          string
		budget        *string
		expectedScore int
		expectConcern bool
	}{
		{name: "top tier", budget: strPtr("600000"), expectedScore: 30},
		{name: "top tier boundary", budget: strPtr("500000"), expectedScore: 30},
		{name: "second tier", budget: strPtr("250000"), expectedScore: 22},
		{name: "third tier", budget: strPtr("100000"), expectedScore: 15},
		{name: "fourth tier", budget: strPtr("25000"), expectedScore: 8},
		{name: "below all tiers earns floor", budget: strPtr("5000"), expectedScore: 2},
		{name: "currency formatting tolerated", budget: strPtr("$450,000"), expectedScore: 22},
		{name: "whitespace tolerated", budget: strPtr(" 120 000 "), expectedScore: 15},
		{name: "missing budget", budget: nil, expectedScore: 0, expectConcern: true},
		{name: "unparsable budget", budget: strPtr("a lot"), expectedScore: 0, expectConcern: true},
		{name: "empty string", budget: strPtr(""), expectedScore: 0, expectConcern: true},
		{name: "zero budget treated as missing", budget: strPtr("0"), expectedScore: 0, expectConcern: true},
		{name: "negative budget treated as missing", budget: strPtr("-100"), expectedScore: 0, expectConcern: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := EnrichedLead{Lead: Lead{Budget: tt.budget}}
			score, concern := policy.budgetScore(lead)
			assert.Equal(t, tt.expectedScore, score)
			if tt.expectConcern {
				assert.Equal(t, ConcernBudgetUnknown, concern)
			} else {
				assert.Empty(t, concern)
			}
		})
	}
}

func TestIntentScore(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name          string
		source        LeadSource
		expectedScore int
		expectConcern bool
	}{
		{name: "referral", source: SourceReferral, expectedScore: 25},
		{name: "paid ad", source: SourcePaidAd, expectedScore: 18},
		{name: "organic", source: SourceOrganic, expectedScore: 12},
		{name: "unknown", source: SourceUnknown, expectedScore: 5, expectConcern: true},
		{name: "empty source maps to unknown", source: "", expectedScore: 5, expectConcern: true},
		{name: "unmapped source maps to unknown", source: "billboard", expectedScore: 5, expectConcern: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := EnrichedLead{Lead: Lead{Source: tt.source}}
			score, concern := policy.intentScore(lead)
			assert.Equal(t, tt.expectedScore, score)
			if tt.expectConcern {
				assert.Equal(t, ConcernSourceUnknown, concern)
			} else {
				assert.Empty(t, concern)
			}
		})
	}
}

func TestReadinessScore(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name          string
		years         *int
		employment    *EmploymentStatus
		expectedScore int
		expectConcern bool
	}{
		{name: "long tenure employed", years: intPtr(12), employment: empPtr(EmploymentEmployed), expectedScore: 25},
		{name: "five years employed", years: intPtr(5), employment: empPtr(EmploymentEmployed), expectedScore: 22},
		{name: "self employed", years: intPtr(10), employment: empPtr(EmploymentSelfEmployed), expectedScore: 23},
		{name: "unemployed still scores", years: intPtr(2), employment: empPtr(EmploymentUnemployed), expectedScore: 10},
		{name: "short tenure floors", years: intPtr(0), employment: empPtr(EmploymentEmployed), expectedScore: 14},
		{name: "missing tenure", years: nil, employment: empPtr(EmploymentEmployed), expectedScore: 14, expectConcern: true},
		{name: "missing employment", years: intPtr(5), employment: nil, expectedScore: 12, expectConcern: true},
		{name: "unknown employment", years: intPtr(5), employment: empPtr(EmploymentUnknown), expectedScore: 12, expectConcern: true},
		{name: "both missing", years: nil, employment: nil, expectedScore: 4, expectConcern: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := EnrichedLead{Lead: Lead{YearsInCity: tt.years, EmploymentStatus: tt.employment}}
			score, concern := policy.readinessScore(lead)
			assert.Equal(t, tt.expectedScore, score)
			if tt.expectConcern {
				assert.Equal(t, ConcernReadinessIncomplete, concern)
			} else {
				assert.Empty(t, concern)
			}
		})
	}
}

func TestEngagementScore(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name          string
		minutes       *float64
		expectedScore int
		expectConcern bool
	}{
		{name: "within the hour", minutes: f64Ptr(45), expectedScore: 20},
		{name: "one hour boundary", minutes: f64Ptr(60), expectedScore: 20},
		{name: "same afternoon", minutes: f64Ptr(180), expectedScore: 15},
		{name: "next day", minutes: f64Ptr(1200), expectedScore: 10},
		{name: "within three days", minutes: f64Ptr(4000), expectedScore: 6},
		{name: "slower than all buckets", minutes: f64Ptr(10000), expectedScore: 3},
		{name: "missing response time", minutes: nil, expectedScore: 3, expectConcern: true},
		{name: "negative treated as missing", minutes: f64Ptr(-5), expectedScore: 3, expectConcern: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := EnrichedLead{Lead: Lead{ResponseMinutes: tt.minutes}}
			score, concern := policy.engagementScore(lead)
			assert.Equal(t, tt.expectedScore, score)
			if tt.expectConcern {
				assert.Equal(t, ConcernEngagementUnknown, concern)
			} else {
				assert.Empty(t, concern)
			}
		})
	}
}

func TestScoreTotalIsExactSum(t *testing.T) {
	policy := DefaultPolicy()

	leads := []EnrichedLead{
		{},
		{Lead: Lead{Budget: strPtr("600000"), Source: SourceReferral, YearsInCity: intPtr(5), EmploymentStatus: empPtr(EmploymentEmployed), ResponseMinutes: f64Ptr(60)}},
		{Lead: Lead{Budget: strPtr("garbage"), Source: "carrier-pigeon"}},
		{Lead: Lead{Budget: strPtr("30000"), Source: SourceOrganic, ResponseMinutes: f64Ptr(99999)}},
	}

	for _, lead := range leads {
		breakdown, _ := policy.Score(lead)
		assert.Equal(t, breakdown.Budget+breakdown.Intent+breakdown.Readiness+breakdown.Engagement, breakdown.Total)
		assert.GreaterOrEqual(t, breakdown.Total, 0)
		assert.LessOrEqual(t, breakdown.Total, policy.TotalMax())
	}
}

func TestSubScoreRanges(t *testing.T) {
	policy := DefaultPolicy()

	budgets := []*string{nil, strPtr(""), strPtr("0"), strPtr("100"), strPtr("26000"), strPtr("250000"), strPtr("9999999")}
	sources := []LeadSource{SourceReferral, SourcePaidAd, SourceOrganic, SourceUnknown, ""}
	years := []*int{nil, intPtr(0), intPtr(1), intPtr(3), intPtr(7), intPtr(20)}
	statuses := []*EmploymentStatus{nil, empPtr(EmploymentEmployed), empPtr(EmploymentSelfEmployed), empPtr(EmploymentUnemployed), empPtr(EmploymentUnknown)}
	responses := []*float64{nil, f64Ptr(1), f64Ptr(61), f64Ptr(500), f64Ptr(2000), f64Ptr(50000)}

	for _, b := range budgets {
		for _, s := range sources {
			for _, y := range years {
				for _, e := range statuses {
					for _, r := range responses {
						lead := EnrichedLead{Lead: Lead{Budget: b, Source: s, YearsInCity: y, EmploymentStatus: e, ResponseMinutes: r}}
						breakdown, _ := policy.Score(lead)
						assert.GreaterOrEqual(t, breakdown.Budget, 0)
						assert.LessOrEqual(t, breakdown.Budget, policy.BudgetMax)
						assert.GreaterOrEqual(t, breakdown.Intent, 0)
						assert.LessOrEqual(t, breakdown.Intent, policy.IntentMax)
						assert.GreaterOrEqual(t, breakdown.Readiness, 0)
						assert.LessOrEqual(t, breakdown.Readiness, policy.ReadinessMax)
						assert.GreaterOrEqual(t, breakdown.Engagement, 0)
						assert.LessOrEqual(t, breakdown.Engagement, policy.EngagementMax)
					}
				}
			}
		}
	}
}

func TestBudgetMonotonicity(t *testing.T) {
	policy := DefaultPolicy()

	amounts := []string{"1", "5000", "25000", "99999", "100000", "250000", "499999", "500000", "2000000"}
	prev := -1
	for _, amount := range amounts {
		lead := EnrichedLead{Lead: Lead{Budget: strPtr(amount)}}
		score, _ := policy.budgetScore(lead)
		assert.GreaterOrEqual(t, score, prev, "budget %s must not score below a smaller budget", amount)
		prev = score
	}
}

func TestEngagementMonotonicity(t *testing.T) {
	policy := DefaultPolicy()

	minutes := []float64{10000, 4320, 1441, 1440, 240, 60, 30, 1}
	prev := -1
	for _, m := range minutes {
		lead := EnrichedLead{Lead: Lead{ResponseMinutes: f64Ptr(m)}}
		score, _ := policy.engagementScore(lead)
		assert.GreaterOrEqual(t, score, prev, "response of %v minutes must not score below a slower response", m)
		prev = score
	}
}

func TestMisconfiguredPolicyClamps(t *testing.T) {
	policy := DefaultPolicy()
	policy.BudgetTiers = []BudgetTier{{Min: 0, Points: 500}}
	policy.SourcePoints[SourceReferral] = -10
	policy.EngagementBuckets = []ResponseBucket{{MaxMinutes: 100000, Points: 99}}

	lead := EnrichedLead{Lead: Lead{
		Budget:          strPtr("100000"),
		Source:          SourceReferral,
		ResponseMinutes: f64Ptr(5),
	}}

	breakdown, _ := policy.Score(lead)
	assert.Equal(t, policy.BudgetMax, breakdown.Budget)
	assert.Equal(t, 0, breakdown.Intent)
	assert.Equal(t, policy.EngagementMax, breakdown.Engagement)
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		raw      string
		expected LeadSource
	}{
		{"referral", SourceReferral},
		{"Referral", SourceReferral},
		{"paid-ad", SourcePaidAd},
		{"paid_ad", SourcePaidAd},
		{"ads", SourcePaidAd},
		{"organic", SourceOrganic},
		{"website", SourceOrganic},
		{"", SourceUnknown},
		{"smoke signal", SourceUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseSource(tt.raw), "raw=%q", tt.raw)
	}
}

func TestParseEmploymentStatus(t *testing.T) {
	assert.Equal(t, EmploymentEmployed, ParseEmploymentStatus("Employed"))
	assert.Equal(t, EmploymentEmployed, ParseEmploymentStatus("full_time"))
	assert.Equal(t, EmploymentSelfEmployed, ParseEmploymentStatus("self-employed"))
	assert.Equal(t, EmploymentUnemployed, ParseEmploymentStatus("retired"))
	assert.Equal(t, EmploymentUnknown, ParseEmploymentStatus("between things"))
}
