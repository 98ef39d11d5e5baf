// File: internal/infra/jobs/poller.go
package jobs

import (
	"context"
	"time"

	"ai-video-writer/internal/domain"
	"ai-video-writer/internal/domain/model"
)

// Poller implements the client-side wait contract: query a job's record
// until it reaches a terminal state or the caller's timeout elapses. The
// underlying job keeps running either way; an orphaned record is purged by
// retention.
type Poller struct {
	registry *Registry
	interval time.Duration
}

func NewPoller(registry *Registry, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{registry: registry, interval: interval}
}

// Wait returns the terminal record, domain.ErrJobNotFound when the id is
// unknown or already purged, or domain.ErrPollTimeout when the deadline
// passes first.
func (p *Poller) Wait(ctx context.Context, jobID string, timeout time.Duration) (*model.Job, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		job, ok := p.registry.Get(jobID)
		if !ok {
			return nil, domain.ErrJobNotFound
		}
		if job.Status.Terminal() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, domain.ErrPollTimeout
		case <-ticker.C:
		}
	}
}
