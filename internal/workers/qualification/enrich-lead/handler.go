// internal/workers/qualification/enrich-lead/handler.go
package enrichlead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lead-qualification-workers/internal/common/logger"
	"lead-qualification-workers/internal/common/metrics"
	"lead-qualification-workers/internal/enrichment"
	"lead-qualification-workers/internal/qualify"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "enrich-lead"
)

type Handler struct {
	config   *Config
	enricher enrichment.Client
	cache    *redis.Client
	logger   logger.Logger
}

// NewHandler wires the enrichment adapter and an optional Redis cache.
// A nil cache disables caching without changing behavior.
func NewHandler(config *Config, enricher enrichment.Client, cache *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		enricher: enricher,
		cache:    cache,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "ENRICHMENT_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute never propagates a provider failure. A lead that cannot be
// enriched continues through the pipeline with its raw fields and
// enrichmentFailed set, so downstream scoring degrades instead of
// aborting the process instance.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	lead := input.Lead

	if cached, ok := h.cacheLookup(ctx, lead.Email); ok {
		cached.Lead = lead
		h.logger.Info("enrichment cache hit", map[string]interface{}{
			"leadId": lead.ID,
		})
		return &Output{Lead: *cached, FromCache: true}, nil
	}

	enriched, err := h.enricher.Enrich(ctx, lead)
	if err != nil {
		metrics.EnrichmentFailures.WithLabelValues(h.config.Provider).Inc()
		h.logger.Warn("enrichment failed, continuing with raw lead", map[string]interface{}{
			"leadId": lead.ID,
			"error":  err.Error(),
		})
		return &Output{
			Lead:             qualify.EnrichedLead{Lead: lead, EnrichmentFailed: true},
			EnrichmentFailed: true,
		}, nil
	}

	h.cacheStore(ctx, lead.Email, enriched)

	h.logger.Info("lead enriched", map[string]interface{}{
		"leadId":   lead.ID,
		"provider": h.config.Provider,
	})

	return &Output{Lead: *enriched}, nil
}

func (h *Handler) cacheLookup(ctx context.Context, email string) (*qualify.EnrichedLead, bool) {
	if !h.config.CacheEnabled || h.cache == nil || email == "" {
		return nil, false
	}

	raw, err := h.cache.Get(ctx, cacheKey(email)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("enrichment cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var enriched qualify.EnrichedLead
	if err := json.Unmarshal([]byte(raw), &enriched); err != nil {
		h.logger.Warn("enrichment cache entry corrupt, ignoring", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}

	return &enriched, true
}

func (h *Handler) cacheStore(ctx context.Context, email string, enriched *qualify.EnrichedLead) {
	if !h.config.CacheEnabled || h.cache == nil || email == "" {
		return
	}

	raw, err := json.Marshal(enriched)
	if err != nil {
		return
	}

	ttl := h.config.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	if err := h.cache.Set(ctx, cacheKey(email), raw, ttl).Err(); err != nil {
		h.logger.Warn("enrichment cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func cacheKey(email string) string {
	return "enrichment:lead:" + email
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
