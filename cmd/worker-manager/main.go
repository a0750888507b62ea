// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lead-qualification-workers/internal/common/camunda"
	"lead-qualification-workers/internal/common/config"
	"lead-qualification-workers/internal/common/crm"
	"lead-qualification-workers/internal/common/database"
	"lead-qualification-workers/internal/common/logger"
	"lead-qualification-workers/internal/common/observability"
	"lead-qualification-workers/internal/enrichment"
	"lead-qualification-workers/internal/qualify"

	// Qualification Workers (4)
	cqs "lead-qualification-workers/internal/workers/qualification/calculate-qualification-score"
	el "lead-qualification-workers/internal/workers/qualification/enrich-lead"
	mqd "lead-qualification-workers/internal/workers/qualification/make-qualification-decision"
	vld "lead-qualification-workers/internal/workers/qualification/validate-lead-data"

	// CRM Workers (2)
	rq "lead-qualification-workers/internal/workers/crm/record-qualification"
	scl "lead-qualification-workers/internal/workers/crm/sync-crm-lead"

	// Notification Workers (1)
	en "lead-qualification-workers/internal/workers/notification/escalation-notify"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// buildPolicy starts from the default threshold table and applies any
// cutoffs the configuration overrides. Zero means keep the default.
func buildPolicy(cfg config.ScoringConfig) qualify.Policy {
	policy := qualify.DefaultPolicy()
	if cfg.QualifiedCutoff > 0 {
		policy.QualifiedCutoff = cfg.QualifiedCutoff
	}
	if cfg.NotQualifiedCutoff > 0 {
		policy.NotQualifiedCutoff = cfg.NotQualifiedCutoff
	}
	if cfg.ReviewBandLow > 0 {
		policy.ReviewBandLow = cfg.ReviewBandLow
	}
	if cfg.ReviewBandHigh > 0 {
		policy.ReviewBandHigh = cfg.ReviewBandHigh
	}
	if cfg.ConcernThreshold > 0 {
		policy.ConcernThreshold = cfg.ConcernThreshold
	}
	return policy
}

func buildEnricher(cfg config.EnrichmentConfig) enrichment.Client {
	if cfg.Provider == "http" {
		return enrichment.NewHTTPClient(cfg.BaseURL, cfg.APIKey, time.Duration(cfg.Timeout)*time.Millisecond)
	}
	return enrichment.NewHeuristicClient()
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Shared domain services ---
	policy := buildPolicy(cfg.Scoring)
	engine := qualify.NewEngine(policy)
	enricher := buildEnricher(cfg.Enrichment)
	crmClient := crm.NewClient(cfg.CRM.BaseURL, cfg.CRM.OAuthToken, time.Duration(cfg.CRM.Timeout)*time.Millisecond)

	zapLog.Info("Domain services initialized",
		zap.String("enrichmentProvider", cfg.Enrichment.Provider),
		zap.Int("qualifiedCutoff", policy.QualifiedCutoff),
		zap.Int("notQualifiedCutoff", policy.NotQualifiedCutoff),
	)

	var activeWorkers []*camunda.Worker

	// --- Qualification Workers (4) ---
	if cfg.Workers[vld.TaskType].Enabled {
		handler := vld.NewHandler(
			&vld.Config{
				Timeout: time.Duration(cfg.Workers[vld.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		activeWorkers = append(activeWorkers, startWorker(zeebeClient, vld.TaskType, cfg.Workers[vld.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[el.TaskType].Enabled {
		handler := el.NewHandler(
			&el.Config{
				Provider:     cfg.Enrichment.Provider,
				CacheEnabled: cfg.Enrichment.Cache.Enabled,
				CacheTTL:     time.Duration(cfg.Enrichment.Cache.TTLSeconds) * time.Second,
				Timeout:      time.Duration(cfg.Workers[el.TaskType].Timeout) * time.Millisecond,
			},
			enricher, redis.Client, log,
		)
		activeWorkers = append(activeWorkers, startWorker(zeebeClient, el.TaskType, cfg.Workers[el.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[cqs.TaskType].Enabled {
		handler := cqs.NewHandler(&cqs.Config{}, policy, log)
		activeWorkers = append(activeWorkers, startWorker(zeebeClient, cqs.TaskType, cfg.Workers[cqs.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[mqd.TaskType].Enabled {
		handler := mqd.NewHandler(&mqd.Config{}, engine, log)
		activeWorkers = append(activeWorkers, startWorker(zeebeClient, mqd.TaskType, cfg.Workers[mqd.TaskType], handler.Handle, zapLog))
	}

	// --- CRM Workers (2) ---
	if cfg.Workers[rq.TaskType].Enabled {
		handler := rq.NewHandler(
			&rq.Config{
				SearchIndex: "lead-qualifications",
				Timeout:     time.Duration(cfg.Workers[rq.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, esClient, log,
		)
		activeWorkers = append(activeWorkers, startWorker(zeebeClient, rq.TaskType, cfg.Workers[rq.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[scl.TaskType].Enabled {
		handler := scl.NewHandler(
			&scl.Config{
				Timeout: time.Duration(cfg.Workers[scl.TaskType].Timeout) * time.Millisecond,
			},
			crmClient, log,
		)
		activeWorkers = append(activeWorkers, startWorker(zeebeClient, scl.TaskType, cfg.Workers[scl.TaskType], handler.Handle, zapLog))
	}

	// --- Notification Workers (1) ---
	if cfg.Workers[en.TaskType].Enabled {
		handler, err := en.NewHandler(
			&en.Config{
				EmailEnabled:     cfg.Notifications.Email.Enabled,
				SMSEnabled:       cfg.Notifications.SMS.Enabled,
				FromEmail:        cfg.Notifications.Email.FromEmail,
				ReviewQueueEmail: cfg.Notifications.Email.ReviewQueue,
				SalesPhone:       cfg.Notifications.SMS.SalesPhone,
				SMSMinTotalScore: cfg.Notifications.SMS.MinTotalScore,
				AWSRegion:        cfg.Notifications.AWS.Region,
				Timeout:          time.Duration(cfg.Workers[en.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		if err != nil {
			zapLog.Fatal("failed to create escalation-notify handler", zap.Error(err))
		}
		activeWorkers = append(activeWorkers, startWorker(zeebeClient, en.TaskType, cfg.Workers[en.TaskType], handler.Handle, zapLog))
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range activeWorkers {
		if w != nil {
			w.Stop()
		}
	}

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.HandlerFunc, log *zap.Logger) *camunda.Worker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	w := camunda.NewWorker(client, taskType, wcfg.MaxJobsActive, time.Duration(wcfg.Timeout)*time.Millisecond, handlerFunc, log)

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return w
}
