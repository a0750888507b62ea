// internal/workers/qualification/make-qualification-decision/handler_test.go
package makequalificationdecision

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
	return NewHandler(LoadConfig(), qualify.DefaultEngine(), logger.NewTestLogger(t))
}

func completeLead() qualify.EnrichedLead {
	return qualify.EnrichedLead{Lead: qualify.Lead{
		ID:               "lead-001",
		Name:             "Maria Santos",
		Email:            "maria@acme-corp.com",
		Budget:           strPtr("600000"),
		Source:           qualify.SourceReferral,
		ResponseMinutes:  f64Ptr(45),
		YearsInCity:      intPtr(6),
		EmploymentStatus: empPtr(qualify.EmploymentEmployed),
	}}
}

func TestExecuteQualifiesStrongLead(t *testing.T) {
	handler := newTestHandler(t)
	lead := completeLead()
	breakdown, concerns := qualify.DefaultPolicy().Score(lead)

	output, err := handler.Execute(context.Background(), &Input{
		Lead:           lead,
		ScoreBreakdown: breakdown,
		Concerns:       concerns,
	})

	require.NoError(t, err)
	assert.Equal(t, qualify.DecisionQualified, output.Decision)
	assert.Equal(t, qualify.ConfidenceHigh, output.Confidence)
	assert.False(t, output.NeedsHumanReview)
	assert.Empty(t, output.ReviewReasons)
}

func TestExecuteRejectsWeakLead(t *testing.T) {
	handler := newTestHandler(t)
	lead := qualify.EnrichedLead{Lead: qualify.Lead{ID: "lead-weak", Name: "Jo", Email: "jo@example.com"}}
	breakdown, concerns := qualify.DefaultPolicy().Score(lead)

	output, err := handler.Execute(context.Background(), &Input{
		Lead:           lead,
		ScoreBreakdown: breakdown,
		Concerns:       concerns,
	})

	require.NoError(t, err)
	assert.Equal(t, qualify.DecisionNotQualified, output.Decision)
	assert.Equal(t, qualify.ConfidenceLow, output.Confidence)
	assert.True(t, output.NeedsHumanReview, "low confidence escalates even a rejection")
}

func TestExecuteHighScoreLowConfidenceNeedsReview(t *testing.T) {
	handler := newTestHandler(t)
	lead := completeLead()
	lead.Budget = nil
	breakdown, concerns := qualify.DefaultPolicy().Score(lead)

	output, err := handler.Execute(context.Background(), &Input{
		Lead:           lead,
		ScoreBreakdown: breakdown,
		Concerns:       concerns,
	})

	require.NoError(t, err)
	assert.Equal(t, qualify.DecisionNeedsReview, output.Decision)
	assert.True(t, output.NeedsHumanReview)
	assert.NotEmpty(t, output.ReviewReasons)
}

func TestExecuteScoresFromScratchWithoutBreakdown(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{Lead: completeLead()})

	require.NoError(t, err)
	assert.Equal(t, qualify.DecisionQualified, output.Decision)
	assert.Equal(t, 97, output.ScoreBreakdown.Total)
}

func TestExecuteMatchesFullEnginePass(t *testing.T) {
	handler := newTestHandler(t)
	engine := qualify.DefaultEngine()

	leads := []qualify.EnrichedLead{
		completeLead(),
		{Lead: qualify.Lead{Source: qualify.SourcePaidAd, Budget: strPtr("100000")}},
		{Lead: qualify.Lead{}, EnrichmentFailed: true},
	}

	for _, lead := range leads {
		breakdown, concerns := engine.Policy().Score(lead)
		output, err := handler.Execute(context.Background(), &Input{
			Lead:           lead,
			ScoreBreakdown: breakdown,
			Concerns:       concerns,
		})
		require.NoError(t, err)

		expected := engine.Qualify(lead)
		assert.Equal(t, expected.Decision, output.Decision)
		assert.Equal(t, expected.Confidence, output.Confidence)
		assert.Equal(t, expected.NeedsHumanReview, output.NeedsHumanReview)
		assert.Equal(t, expected.ReviewReasons, output.ReviewReasons)
	}
}
