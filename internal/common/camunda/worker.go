// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// HandlerFunc is the callback registered for one task type. The handler
// owns the complete/fail commands; the broker only sees the job outcome.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Worker is one open job subscription on the broker.
type Worker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

func NewWorker(client zbc.Client, taskType string, maxJobsActive int, timeout time.Duration, handler HandlerFunc, logger *zap.Logger) *Worker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(maxJobsActive).
		Timeout(timeout).
		Open()

	return &Worker{
		worker:   jobWorker,
		logger:   logger,
		taskType: taskType,
	}
}

// Stop closes the job subscription. The shared Zeebe client stays open;
// the caller owns its lifecycle.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
}
