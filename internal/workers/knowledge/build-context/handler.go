// internal/workers/knowledge/build-context/handler.go
package buildcontext

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "knowledge-engine/internal/common/errors"
	"knowledge-engine/internal/common/logger"
	"knowledge-engine/internal/common/metrics"
	"knowledge-engine/internal/common/validation"
	"knowledge-engine/internal/knowledge/contextbuilder"
	"knowledge-engine/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "build-context"

	cacheKeyPrefix = "knowledge:context:"
)

var (
	ErrInvalidInput       = errors.New("INPUT_VALIDATION_FAILED")
	ErrContextBuildFailed = errors.New("CONTEXT_BUILD_FAILED")
)

type Handler struct {
	config  *Config
	builder *contextbuilder.Builder
	redis   *redis.Client
	logger  logger.Logger
}

func NewHandler(config *Config, builder *contextbuilder.Builder, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		builder: builder,
		redis:   redisClient,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &raw); err != nil {
		h.failJob(client, job, fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	if result := validation.ValidateInput(raw, inputSchema()); !result.Valid {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INPUT_VALIDATION_FAILED").Inc()
		h.failJob(client, job, fmt.Sprintf("%v: %+v", ErrInvalidInput, result.Errors), 0)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		retries := int32(1)
		errorCode := string(apperrors.ErrCodeContextBuildFailed)
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			errorCode = string(stdErr.Code)
			retries = int32(apperrors.GetRetryCount(stdErr.Code))
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, err.Error(), retries)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

// execute serves the context from cache when an identical (user, query) pair
// was assembled recently, otherwise builds it fresh and caches the result.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	key := cacheKey(input.UserID, input.Query)

	if cached := h.fromCache(ctx, key); cached != nil {
		metrics.ContextCacheHits.WithLabelValues("hit").Inc()
		return &Output{Context: cached, CacheHit: true}, nil
	}
	metrics.ContextCacheHits.WithLabelValues("miss").Inc()

	aiCtx, err := h.builder.BuildContext(ctx, input.UserID, input.Query)
	if err != nil {
		return nil, err
	}

	h.toCache(ctx, key, aiCtx)
	return &Output{Context: aiCtx}, nil
}

func (h *Handler) fromCache(ctx context.Context, key string) *models.AIContext {
	if h.redis == nil {
		return nil
	}
	val, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var aiCtx models.AIContext
	if err := json.Unmarshal([]byte(val), &aiCtx); err != nil {
		return nil
	}
	return &aiCtx
}

func (h *Handler) toCache(ctx context.Context, key string, aiCtx *models.AIContext) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(aiCtx)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache context", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func cacheKey(userID, query string) string {
	sum := sha256.Sum256([]byte(userID + "|" + query))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, message string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey": job.Key,
		"error":  message,
	})

	_, _ = client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(message).
		Send(context.Background())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
