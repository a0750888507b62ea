// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-qualification-workers/internal/common/config"
	"lead-qualification-workers/internal/common/database"
	"lead-qualification-workers/internal/common/logger"
	"lead-qualification-workers/internal/enrichment"
	"lead-qualification-workers/internal/qualify"

	recordqualification "lead-qualification-workers/internal/workers/crm/record-qualification"
	escalationnotify "lead-qualification-workers/internal/workers/notification/escalation-notify"
	calculatequalificationscore "lead-qualification-workers/internal/workers/qualification/calculate-qualification-score"
	enrichlead "lead-qualification-workers/internal/workers/qualification/enrich-lead"
	makequalificationdecision "lead-qualification-workers/internal/workers/qualification/make-qualification-decision"
	validateleaddata "lead-qualification-workers/internal/workers/qualification/validate-lead-data"
)

// TestLeadPipelineE2E runs the full qualification pipeline against real
// local services: validate, enrich (Redis cache), score, decide, record
// (PostgreSQL + Elasticsearch), notify. Requires docker-compose services
// on localhost; run with -short to skip.
func TestLeadPipelineE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Force localhost for E2E runs regardless of what the config says.
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}

	t.Log("🚀 Starting lead qualification E2E with real services...")

	pg, rdb, es := assertServicesConnectivity(t, ctx, cfg)
	defer pg.Close()
	defer rdb.Close()

	createDatabaseTables(t, ctx, pg)

	log := logger.NewTestLogger(t)

	// 1. Validate
	rawLead := map[string]interface{}{
		"leadId":              fmt.Sprintf("e2e-%d", time.Now().UnixNano()),
		"name":                "Maria Santos",
		"email":               "maria.santos@acme-corp.com",
		"company":             "Acme Corp",
		"budget":              "$450,000",
		"source":              "referral",
		"responseTimeMinutes": 45.0,
		"yearsInCity":         12.0,
		"employmentStatus":    "employed",
	}
	validator := validateleaddata.NewHandler(validateleaddata.LoadConfig(), log)
	validated, err := validator.Execute(ctx, &validateleaddata.Input{Lead: rawLead})
	require.NoError(t, err)
	require.True(t, validated.LeadValid)
	t.Log("✅ validate-lead-data")

	// 2. Enrich, twice to exercise the Redis cache path
	enricher := enrichlead.NewHandler(enrichlead.LoadConfig(), enrichment.NewHeuristicClient(), rdb.GetClient(), log)
	enriched, err := enricher.Execute(ctx, &enrichlead.Input{Lead: validated.Lead})
	require.NoError(t, err)
	require.False(t, enriched.EnrichmentFailed)

	cached, err := enricher.Execute(ctx, &enrichlead.Input{Lead: validated.Lead})
	require.NoError(t, err)
	assert.True(t, cached.FromCache, "second enrichment should hit the cache")
	t.Log("✅ enrich-lead (with cache hit)")

	// 3. Score
	scorer := calculatequalificationscore.NewHandler(calculatequalificationscore.LoadConfig(), qualify.DefaultPolicy(), log)
	scored, err := scorer.Execute(ctx, &calculatequalificationscore.Input{Lead: enriched.Lead})
	require.NoError(t, err)
	assert.Equal(t, scored.ScoreBreakdown.Total,
		scored.ScoreBreakdown.Budget+scored.ScoreBreakdown.Intent+
			scored.ScoreBreakdown.Readiness+scored.ScoreBreakdown.Engagement)
	assert.Equal(t, qualify.ConfidenceHigh, scored.Confidence)
	t.Log("✅ calculate-qualification-score")

	// 4. Decide
	decider := makequalificationdecision.NewHandler(makequalificationdecision.LoadConfig(), qualify.NewEngine(qualify.DefaultPolicy()), log)
	decided, err := decider.Execute(ctx, &makequalificationdecision.Input{
		Lead:           enriched.Lead,
		ScoreBreakdown: scored.ScoreBreakdown,
		Concerns:       scored.Concerns,
	})
	require.NoError(t, err)
	assert.Equal(t, qualify.DecisionQualified, decided.Decision)
	assert.False(t, decided.NeedsHumanReview)
	t.Log("✅ make-qualification-decision")

	// 5. Record to PostgreSQL and Elasticsearch
	recorder := recordqualification.NewHandler(recordqualification.LoadConfig(), pg.GetDB(), es, log)
	recorded, err := recorder.Execute(ctx, &recordqualification.Input{
		Lead:             enriched.Lead,
		ScoreBreakdown:   decided.ScoreBreakdown,
		Decision:         decided.Decision,
		Confidence:       decided.Confidence,
		NeedsHumanReview: decided.NeedsHumanReview,
		Concerns:         decided.Concerns,
		ReviewReasons:    decided.ReviewReasons,
	})
	require.NoError(t, err)
	require.NotEmpty(t, recorded.QualificationID)
	assert.True(t, recorded.Indexed)

	var decision string
	err = pg.GetDB().QueryRowContext(ctx,
		"SELECT decision FROM lead_qualifications WHERE id = $1",
		recorded.QualificationID).Scan(&decision)
	require.NoError(t, err)
	assert.Equal(t, string(qualify.DecisionQualified), decision)
	t.Log("✅ record-qualification")

	// A rerun for the same lead must be rejected as a duplicate.
	_, err = recorder.Execute(ctx, &recordqualification.Input{
		Lead:     enriched.Lead,
		Decision: decided.Decision,
	})
	assert.ErrorIs(t, err, recordqualification.ErrDuplicateQualification)

	// 6. Notify. Channels stay disabled unless AWS credentials are
	// wired into the environment, so this exercises the disabled path.
	notifyCfg := escalationnotify.LoadConfig()
	notifyCfg.EmailEnabled = os.Getenv("E2E_SES_ENABLED") == "true"
	notifyCfg.ReviewQueueEmail = os.Getenv("E2E_REVIEW_QUEUE_EMAIL")
	notifier, err := escalationnotify.NewHandler(notifyCfg, log)
	require.NoError(t, err)
	notified, err := notifier.Execute(ctx, &escalationnotify.Input{
		Lead:             enriched.Lead,
		ScoreBreakdown:   decided.ScoreBreakdown,
		Decision:         decided.Decision,
		Confidence:       decided.Confidence,
		NeedsHumanReview: decided.NeedsHumanReview,
		ReviewReasons:    decided.ReviewReasons,
	})
	require.NoError(t, err)
	if !notifyCfg.EmailEnabled {
		assert.Equal(t, escalationnotify.StatusDisabled, notified.Status)
	}
	t.Log("✅ escalation-notify")

	t.Log("✅ ALL STEPS PASSED: lead qualification pipeline complete")
}

func assertServicesConnectivity(t *testing.T, ctx context.Context, cfg *config.Config) (*database.PostgresClient, *database.RedisClient, *database.ElasticsearchClient) {
	t.Log("🔍 Checking service connectivity...")

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "❌ PostgreSQL connection failed")
	require.NoError(t, pg.Ping(ctx), "❌ PostgreSQL ping failed")
	t.Log("✅ PostgreSQL connected")

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "❌ Redis client creation failed")
	require.NoError(t, rdb.Ping(ctx), "❌ Redis ping failed")
	t.Log("✅ Redis connected")

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err, "❌ Elasticsearch client creation failed")
	require.NoError(t, es.Ping(), "❌ Elasticsearch ping failed")
	t.Log("✅ Elasticsearch connected")

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
	})
	require.NoError(t, err, "❌ Zeebe client creation failed")
	defer zeebeClient.Close()
	_, err = zeebeClient.NewTopologyCommand().Send(ctx)
	assert.NoError(t, err, "❌ Zeebe topology request failed")
	t.Log("✅ Zeebe connected")

	return pg, rdb, es
}

func createDatabaseTables(t *testing.T, ctx context.Context, pg *database.PostgresClient) {
	t.Log("🔧 Creating database tables...")

	queries := []string{
		`CREATE TABLE IF NOT EXISTS lead_qualifications (
			id VARCHAR(255) PRIMARY KEY,
			lead_id VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) NOT NULL,
			company VARCHAR(255),
			source VARCHAR(50),
			decision VARCHAR(50) NOT NULL,
			confidence VARCHAR(50) NOT NULL,
			needs_human_review BOOLEAN DEFAULT false,
			total_score INTEGER NOT NULL,
			score_breakdown JSONB,
			concerns JSONB,
			review_reasons JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id SERIAL PRIMARY KEY,
			event_type VARCHAR(100),
			resource_type VARCHAR(100),
			resource_id VARCHAR(255),
			details JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	db := pg.GetDB()
	for _, query := range queries {
		_, err := db.ExecContext(ctx, query)
		require.NoError(t, err, "table creation failed")
	}
}
