// internal/workers/knowledge/extract-knowledge/handler.go
package extractknowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"knowledge-engine/internal/common/logger"
	"knowledge-engine/internal/common/metrics"
	"knowledge-engine/internal/knowledge/extraction"
	"knowledge-engine/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "extract-knowledge"

	summaryCacheKey = "knowledge:extraction:summary"
)

var (
	ErrExtractionFailed = errors.New("EXTRACTION_FAILED")
)

type Handler struct {
	config    *Config
	extractor *extraction.Extractor
	redis     *redis.Client
	logger    logger.Logger
}

func NewHandler(config *Config, extractor *extraction.Extractor, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		extractor: extractor,
		redis:     redisClient,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "EXTRACTION_FAILED").Inc()
		h.failJob(client, job, err.Error(), 1)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

// execute runs a full extraction pass and publishes the summary. Extraction
// itself never fails; a cache write failure is logged and ignored since the
// summary is advisory.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	result := h.extractor.ExtractAll(ctx)

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, ctx.Err())
	}

	output := summarize(result)
	h.cacheSummary(ctx, output)

	h.logger.Info("extraction pass completed", map[string]interface{}{
		"triggeredBy":    input.TriggeredBy,
		"totalProcessed": output.TotalProcessed,
		"newItemsFound":  output.NewItemsFound,
	})
	return output, nil
}

func summarize(result *models.ExtractionResult) *Output {
	output := &Output{
		TotalProcessed:   result.TotalProcessed,
		NewItemsFound:    result.NewItemsFound,
		ProcessingTimeMs: result.ProcessingTimeMs,
		ItemsByKind:      make(map[string]int),
		ItemsBySource:    make(map[string]int),
	}
	for _, item := range result.Items {
		output.ItemsByKind[string(item.Kind)]++
		output.ItemsBySource[string(item.Source)]++
	}
	return output
}

func (h *Handler) cacheSummary(ctx context.Context, output *Output) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, summaryCacheKey, data, h.config.SummaryCacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache extraction summary", map[string]interface{}{
			"error": err.Error(),
		})
	}
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
