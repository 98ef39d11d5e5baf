// File: internal/infra/jobs/registry.go
package jobs

import (
	"context"
	"sync"
	"time"

	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/domain/ports/repository"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ repository.JobRegistry = (*Registry)(nil)

// Registry is the in-memory job store. Records are volatile by design:
// nothing survives a restart, and terminal records are purged once the
// retention window elapses.
type Registry struct {
	mu        sync.RWMutex
	records   map[string]*model.Job
	retention time.Duration
	log       *zerolog.Logger

	now func() time.Time
}

func NewRegistry(retention time.Duration, logger *zerolog.Logger) *Registry {
	if retention <= 0 {
		retention = 30 * time.Minute
	}
	return &Registry{
		records:   make(map[string]*model.Job),
		retention: retention,
		log:       logger,
		now:       time.Now,
	}
}

func (r *Registry) Create(kind string) *model.Job {
	now := r.now()
	job := &model.Job{
		ID:        ulid.Make().String(),
		Kind:      kind,
		Status:    model.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.mu.Lock()
	r.records[job.ID] = job
	r.mu.Unlock()

	cp := *job
	return &cp
}

func (r *Registry) MarkProcessing(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.records[id]
	if !ok {
		r.log.Warn().Str("job_id", id).Msg("mark processing: job missing (purged or invalid id)")
		return
	}
	if job.Status != model.JobStatusPending {
		r.log.Warn().Str("job_id", id).Str("status", string(job.Status)).Msg("mark processing: not pending")
		return
	}
	job.Status = model.JobStatusProcessing
	job.UpdatedAt = r.now()
}

func (r *Registry) UpdateProgress(id string, percent int, message string) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.records[id]
	if !ok {
		r.log.Warn().Str("job_id", id).Msg("update progress: job missing")
		return
	}
	if job.Status != model.JobStatusProcessing {
		r.log.Warn().Str("job_id", id).Str("status", string(job.Status)).Msg("update progress: not processing")
		return
	}
	job.ProgressPercent = percent
	job.ProgressMessage = message
	job.UpdatedAt = r.now()
}

func (r *Registry) Complete(id string, result any) {
	r.finish(id, model.JobStatusCompleted, result, "")
}

func (r *Registry) Fail(id string, errMsg string) {
	r.finish(id, model.JobStatusFailed, nil, errMsg)
}

func (r *Registry) finish(id string, status model.JobStatus, result any, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.records[id]
	if !ok {
		r.log.Warn().Str("job_id", id).Str("to", string(status)).Msg("finish: job missing")
		return
	}
	if job.Status.Terminal() {
		// Terminal states are absorbing.
		r.log.Warn().Str("job_id", id).Str("status", string(job.Status)).Msg("finish: already terminal")
		return
	}
	job.Status = status
	job.Result = result
	job.Error = errMsg
	if status == model.JobStatusCompleted {
		job.ProgressPercent = 100
	}
	job.UpdatedAt = r.now()
}

// Get returns a snapshot copy. Absent is a normal outcome once retention
// elapses, so ok=false carries no error.
func (r *Registry) Get(id string) (*model.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.records[id]
	if !ok {
		return nil, false
	}
	cp := *job
	return &cp, true
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return false
	}
	delete(r.records, id)
	return true
}

// Len reports the number of live records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// StartSweeper purges terminal records older than the retention window.
// Run in a goroutine; it exits when ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	cutoff := r.now().Add(-r.retention)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, job := range r.records {
		if job.Status.Terminal() && job.UpdatedAt.Before(cutoff) {
			delete(r.records, id)
			r.log.Debug().Str("job_id", id).Msg("purged terminal job past retention")
		}
	}
}
