// File: internal/infra/jobs/executor.go
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/infra/logging"
	"ai-video-writer/internal/infra/metrics"
	"ai-video-writer/internal/infra/worker"

	"github.com/rs/zerolog"
)

// UnitOfWork is the caller-supplied body of a job. The returned payload
// becomes the job result; the returned error becomes the terminal failure
// message. Implementations should honor ctx for cancellation.
type UnitOfWork func(ctx context.Context, jobID string) (any, error)

// Executor runs units of work under the registry's lifecycle. Errors and
// panics from the work are converted into a failed status; nothing
// propagates back to the caller of Execute.
type Executor struct {
	registry *Registry
	pool     *worker.Pool
	log      *zerolog.Logger

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

func NewExecutor(registry *Registry, pool *worker.Pool, logger *zerolog.Logger) *Executor {
	return &Executor{
		registry: registry,
		pool:     pool,
		log:      logger,
		running:  make(map[string]context.CancelFunc),
	}
}

// Execute creates a job, schedules the work onto the pool, and returns the
// job id immediately. The sole production entry point; the registry
// primitives exist to support it and for tests.
func (e *Executor) Execute(kind string, work UnitOfWork) string {
	job := e.registry.Create(kind)

	err := e.pool.Submit(func(poolCtx context.Context) error {
		e.run(poolCtx, job.ID, kind, work)
		return nil
	})
	if err != nil {
		// Rejected before it ever started; the record still resolves.
		e.registry.MarkProcessing(job.ID)
		e.registry.Fail(job.ID, fmt.Sprintf("could not schedule job: %v", err))
		metrics.IncJob(kind, string(model.JobStatusFailed))
	}
	return job.ID
}

func (e *Executor) run(poolCtx context.Context, jobID, kind string, work UnitOfWork) {
	runCtx, cancel := context.WithCancel(poolCtx)
	defer cancel()
	runCtx = logging.WithJobID(runCtx, jobID)

	e.mu.Lock()
	e.running[jobID] = cancel
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.running, jobID)
		e.mu.Unlock()
	}()

	e.registry.MarkProcessing(jobID)
	metrics.JobStarted()
	defer metrics.JobFinished()

	log := logging.With(runCtx, e.log)
	log.Info().Str("kind", kind).Msg("job started")
	start := time.Now()

	result, err := e.invoke(runCtx, jobID, work)

	status := model.JobStatusCompleted
	if err != nil {
		status = model.JobStatusFailed
		e.registry.Fail(jobID, err.Error())
		log.Error().Err(err).Msg("job failed")
	} else {
		e.registry.Complete(jobID, result)
	}
	metrics.IncJob(kind, string(status))
	log.Info().Str("status", string(status)).Dur("duration", time.Since(start)).Msg("job finished")
}

// invoke runs the unit of work, converting a panic into a plain error so a
// misbehaving job can never take the worker down.
func (e *Executor) invoke(ctx context.Context, jobID string, work UnitOfWork) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job panicked: %v", rec)
		}
	}()
	return work(ctx, jobID)
}

// Cancel removes the job record and, when the job is still in flight,
// cancels its context so provider calls abort at their next ctx check.
func (e *Executor) Cancel(jobID string) bool {
	e.mu.Lock()
	cancel, inFlight := e.running[jobID]
	e.mu.Unlock()
	if inFlight {
		cancel()
	}
	return e.registry.Delete(jobID)
}

// Running reports the ids of jobs currently executing.
func (e *Executor) Running() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.running))
	for id := range e.running {
		ids = append(ids, id)
	}
	return ids
}
