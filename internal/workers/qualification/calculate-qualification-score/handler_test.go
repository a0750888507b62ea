// internal/workers/qualification/calculate-qualification-score/handler_test.go
package calculatequalificationscore

import (
	"context"
	"testing"

	"lead-qualification-workers/internal/common/logger"
	"lead-qualification-workers/internal/qualify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func f64Ptr(v float64) *float64 { return &v }

func empPtr(v qualify.EmploymentStatus) *qualify.EmploymentStatus { return &v }

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), qualify.DefaultPolicy(), logger.NewTestLogger(t))
}

func TestExecuteStrongLead(t *testing.T) {
	handler := newTestHandler(t)

	input := &Input{Lead: qualify.EnrichedLead{Lead: qualify.Lead{
		ID:               "lead-001",
		Name:             "Maria Santos",
		Email:            "maria@acme-corp.com",
		Budget:           strPtr("600000"),
		Source:           qualify.SourceReferral,
		ResponseMinutes:  f64Ptr(45),
		YearsInCity:      intPtr(6),
		EmploymentStatus: empPtr(qualify.EmploymentEmployed),
	}}}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, qualify.ScoreBreakdown{
		Budget:     30,
		Intent:     25,
		Readiness:  22,
		Engagement: 20,
		Total:      97,
	}, output.ScoreBreakdown)
	assert.Empty(t, output.Concerns)
	assert.Equal(t, qualify.ConfidenceHigh, output.Confidence)
}

func TestExecuteEmptyLead(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{Lead: qualify.EnrichedLead{
		Lead: qualify.Lead{ID: "lead-empty", Name: "Jo Smith", Email: "jo@example.com"},
	}})

	require.NoError(t, err)
	assert.Equal(t, 12, output.ScoreBreakdown.Total)
	assert.Equal(t, []string{
		qualify.ConcernBudgetUnknown,
		qualify.ConcernSourceUnknown,
		qualify.ConcernReadinessIncomplete,
		qualify.ConcernEngagementUnknown,
	}, output.Concerns)
	assert.Equal(t, qualify.ConfidenceLow, output.Confidence)
}

func TestExecuteTotalIsExactSum(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name string
		lead qualify.EnrichedLead
	}{
		{
			name: "partial lead",
			lead: qualify.EnrichedLead{Lead: qualify.Lead{
				Budget: strPtr("$120,000"),
				Source: qualify.SourceOrganic,
			}},
		},
		{
			name: "enrichment failed",
			lead: qualify.EnrichedLead{
				Lead:             qualify.Lead{Source: qualify.SourcePaidAd, ResponseMinutes: f64Ptr(300)},
				EnrichmentFailed: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Lead: tt.lead})

			require.NoError(t, err)
			b := output.ScoreBreakdown
			assert.Equal(t, b.Budget+b.Intent+b.Readiness+b.Engagement, b.Total)
		})
	}
}

func TestExecuteHonorsInjectedPolicy(t *testing.T) {
	policy := qualify.DefaultPolicy()
	policy.SourcePoints[qualify.SourceReferral] = 10
	handler := NewHandler(LoadConfig(), policy, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Lead: qualify.EnrichedLead{
		Lead: qualify.Lead{Source: qualify.SourceReferral},
	}})

	require.NoError(t, err)
	assert.Equal(t, 10, output.ScoreBreakdown.Intent)
}
