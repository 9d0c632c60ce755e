package scheduler

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// JobHandler runs one maintenance job of a registered type
type JobHandler func(ctx context.Context) error

// MaintenanceExecutor dispatches jobs to handlers registered per job type.
// Handlers are registered at startup, before the scheduler starts.
type MaintenanceExecutor struct {
	mu       sync.RWMutex
	handlers map[JobType]JobHandler
	logger   *zap.Logger
}

// NewMaintenanceExecutor creates a new MaintenanceExecutor
func NewMaintenanceExecutor(logger *zap.Logger) *MaintenanceExecutor {
	return &MaintenanceExecutor{
		handlers: make(map[JobType]JobHandler),
		logger:   logger,
	}
}

// Register binds a handler to a job type, replacing any previous handler
func (e *MaintenanceExecutor) Register(jobType JobType, handler JobHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[jobType] = handler
}

// Execute implements JobExecutor
func (e *MaintenanceExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.RLock()
	handler, ok := e.handlers[job.Type]
	e.mu.RUnlock()

	if !ok {
		e.logger.Error("No handler registered for job type",
			zap.String("job_type", string(job.Type)),
		)
		return ErrUnknownJobType
	}

	return handler(ctx)
}
