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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"knowledge-engine/internal/common/camunda"
	"knowledge-engine/internal/common/config"
	"knowledge-engine/internal/common/database"
	"knowledge-engine/internal/common/logger"
	"knowledge-engine/internal/common/observability"
	"knowledge-engine/internal/knowledge/contextbuilder"
	"knowledge-engine/internal/knowledge/experts"
	"knowledge-engine/internal/knowledge/extraction"
	"knowledge-engine/internal/knowledge/graph"
	"knowledge-engine/internal/knowledge/relevance"
	"knowledge-engine/internal/knowledge/trends"
	"knowledge-engine/internal/knowledge/vocabulary"
	"knowledge-engine/internal/sources"

	bc "knowledge-engine/internal/workers/knowledge/build-context"
	ek "knowledge-engine/internal/workers/knowledge/extract-knowledge"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting knowledge engine worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("knowledge-engine")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
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
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build Engine Components ---
	vocab := vocabulary.New(cfg.Engine.ExtraSkills, cfg.Engine.ExtraTopics)

	profileStore := sources.NewProfileStore(pg.DB)
	qaStore := sources.NewQAStore(pg.DB)
	surveyStore := sources.NewSurveyStore(pg.DB)
	rosterStore := sources.NewRosterStore(pg.DB)
	noteStore := sources.NewStatusNoteStore(esClient.Client, cfg.Database.Elasticsearch.NotesIndex)

	extractor := extraction.NewExtractor(
		&extraction.Config{
			ConfidenceWeight:   cfg.Engine.ConfidenceWeight,
			RecencyWeight:      cfg.Engine.RecencyWeight,
			RecencyHorizonDays: float64(cfg.Engine.RecencyHorizonDays),
		},
		profileStore, qaStore, surveyStore, noteStore,
		vocab, log,
	)

	builder := contextbuilder.NewBuilder(
		&contextbuilder.Config{
			MaxRelatedUsers: cfg.Engine.MaxRelatedUsers,
			MaxTopSkills:    cfg.Engine.MaxTopSkills,
		},
		extractor,
		graph.NewBuilder(vocab, log),
		experts.NewInference(vocab, cfg.Engine.EvidenceThreshold, cfg.Engine.MaxExperts, log),
		relevance.NewEngine(cfg.Engine.MaxRelevantItems),
		trends.NewCalculator(cfg.Engine.TrendWindowDays, cfg.Engine.TrendRatio,
			cfg.Engine.TrendMinFrequency, cfg.Engine.MaxTrends),
		profileStore,
		rosterStore,
		vocab,
		log,
	)

	zapLog.Info("Engine components initialized")

	// --- Register Workers ---
	var workers []*camunda.Worker

	if config.IsWorkerEnabled(cfg, ek.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, ek.TaskType)
		handler := ek.NewHandler(
			&ek.Config{
				Timeout:         config.GetDuration(wcfg.Timeout),
				SummaryCacheTTL: time.Duration(cfg.Engine.ContextCacheTTL) * time.Second,
			},
			extractor, redisClient.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, ek.TaskType, wcfg, handler.Handle, zapLog))
	}

	if config.IsWorkerEnabled(cfg, bc.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, bc.TaskType)
		handler := bc.NewHandler(
			&bc.Config{
				Timeout:  config.GetDuration(wcfg.Timeout),
				CacheTTL: time.Duration(cfg.Engine.ContextCacheTTL) * time.Second,
			},
			builder, redisClient.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, bc.TaskType, wcfg, handler.Handle, zapLog))
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

	for _, w := range workers {
		w.Close()
	}

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client *camunda.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.HandlerFunc, log *zap.Logger) *camunda.Worker {
	return client.NewWorker(
		taskType,
		handlerFunc,
		wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond,
		log,
	)
}
