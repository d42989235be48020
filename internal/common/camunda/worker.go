// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"
)

// HandlerFunc is the job handler signature used by the worker packages.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Worker is a managed Zeebe job worker for one task type.
type Worker struct {
	worker   worker.JobWorker
	taskType string
	logger   *zap.Logger
}

// NewWorker opens a job worker on the client's broker connection.
func (c *Client) NewWorker(taskType string, handlerFunc HandlerFunc, maxJobsActive int, timeout time.Duration, log *zap.Logger) *Worker {
	jobWorker := c.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handlerFunc)).
		MaxJobsActive(maxJobsActive).
		Timeout(timeout).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", maxJobsActive),
		zap.Duration("timeout", timeout),
	)

	return &Worker{worker: jobWorker, taskType: taskType, logger: log}
}

// Close drains and stops the job worker.
func (w *Worker) Close() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
}
