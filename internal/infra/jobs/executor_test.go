//go:build !integration

package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/infra/worker"
)

func newStartedPool(t *testing.T, workers int) *worker.Pool {
	t.Helper()
	pool := worker.NewPool(workers, newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	t.Cleanup(func() {
		cancel()
		pool.Stop()
	})
	return pool
}

// newUnstartedFullPool returns a pool whose queue is saturated and which has
// no workers draining it, so the next Submit is rejected.
func newUnstartedFullPool(t *testing.T) *worker.Pool {
	t.Helper()
	pool := worker.NewPool(1, newTestLogger())
	for pool.Submit(func(ctx context.Context) error { return nil }) == nil {
	}
	return pool
}

// waitTerminal polls until the job reaches a terminal state or the test
// deadline expires.
func waitTerminal(t *testing.T, r *Registry, id string) *model.Job {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		job, ok := r.Get(id)
		if ok && job.Status.Terminal() {
			return job
		}
		select {
		case <-deadline:
			t.Fatalf("job %s never reached a terminal state", id)
			return nil
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func newTestExecutor(t *testing.T) (*Executor, *Registry) {
	t.Helper()
	log := newTestLogger()
	registry := NewRegistry(30*time.Minute, log)
	pool := newStartedPool(t, 2)
	return NewExecutor(registry, pool, log), registry
}

func TestExecutor(t *testing.T) {
	t.Run("successful work completes the job with its result", func(t *testing.T) {
		// --- Arrange ---
		exec, registry := newTestExecutor(t)

		// --- Act ---
		jobID := exec.Execute("demo", func(ctx context.Context, id string) (any, error) {
			return map[string]int{"n": 42}, nil
		})

		// --- Assert ---
		job := waitTerminal(t, registry, jobID)
		if job.Status != model.JobStatusCompleted {
			t.Fatalf("expected completed, got %s (error: %q)", job.Status, job.Error)
		}
		if job.ProgressPercent != 100 {
			t.Errorf("expected progress 100, got %d", job.ProgressPercent)
		}
		if job.Result.(map[string]int)["n"] != 42 {
			t.Errorf("result mismatch: %v", job.Result)
		}
	})

	t.Run("a returned error becomes a failed status", func(t *testing.T) {
		exec, registry := newTestExecutor(t)

		jobID := exec.Execute("demo", func(ctx context.Context, id string) (any, error) {
			return nil, errors.New("boom")
		})

		job := waitTerminal(t, registry, jobID)
		if job.Status != model.JobStatusFailed {
			t.Fatalf("expected failed, got %s", job.Status)
		}
		if job.Error != "boom" {
			t.Errorf("expected error message %q, got %q", "boom", job.Error)
		}
		if job.Result != nil {
			t.Errorf("failed job must carry no result, got %v", job.Result)
		}
	})

	t.Run("a panicking unit of work fails the job, not the worker", func(t *testing.T) {
		exec, registry := newTestExecutor(t)

		jobID := exec.Execute("demo", func(ctx context.Context, id string) (any, error) {
			panic("unexpected state")
		})

		job := waitTerminal(t, registry, jobID)
		if job.Status != model.JobStatusFailed {
			t.Fatalf("expected failed, got %s", job.Status)
		}
		if job.Error != "job panicked: unexpected state" {
			t.Errorf("unexpected error message: %q", job.Error)
		}

		// The worker must still be alive for the next job.
		next := exec.Execute("demo", func(ctx context.Context, id string) (any, error) {
			return "ok", nil
		})
		if got := waitTerminal(t, registry, next); got.Status != model.JobStatusCompleted {
			t.Errorf("worker did not survive the panic: %s", got.Status)
		}
	})

	t.Run("a rejected submission fails the job immediately", func(t *testing.T) {
		// --- Arrange: a pool that is never started, with a full queue ---
		log := newTestLogger()
		registry := NewRegistry(30*time.Minute, log)
		pool := newUnstartedFullPool(t)
		exec := NewExecutor(registry, pool, log)

		// --- Act ---
		jobID := exec.Execute("demo", func(ctx context.Context, id string) (any, error) {
			return nil, nil
		})

		// --- Assert ---
		job, ok := registry.Get(jobID)
		if !ok {
			t.Fatalf("expected a record for the rejected job")
		}
		if job.Status != model.JobStatusFailed {
			t.Fatalf("expected failed, got %s", job.Status)
		}
	})

	t.Run("cancel aborts an in-flight job and removes its record", func(t *testing.T) {
		exec, registry := newTestExecutor(t)

		started := make(chan struct{})
		jobID := exec.Execute("demo", func(ctx context.Context, id string) (any, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})
		<-started

		if !exec.Cancel(jobID) {
			t.Fatalf("cancel should report the record as removed")
		}
		if _, ok := registry.Get(jobID); ok {
			t.Errorf("record must be gone after cancel")
		}

		// The running set drains once the work observes cancellation.
		deadline := time.After(2 * time.Second)
		for len(exec.Running()) != 0 {
			select {
			case <-deadline:
				t.Fatalf("cancelled job never left the running set")
			case <-time.After(5 * time.Millisecond):
			}
		}
	})

	t.Run("running reports in-flight job ids", func(t *testing.T) {
		exec, registry := newTestExecutor(t)

		release := make(chan struct{})
		started := make(chan struct{})
		jobID := exec.Execute("demo", func(ctx context.Context, id string) (any, error) {
			close(started)
			<-release
			return nil, nil
		})
		<-started

		ids := exec.Running()
		if len(ids) != 1 || ids[0] != jobID {
			t.Errorf("expected running=[%s], got %v", jobID, ids)
		}

		close(release)
		waitTerminal(t, registry, jobID)
		if got := exec.Running(); len(got) != 0 {
			t.Errorf("expected empty running set after completion, got %v", got)
		}
	})
}
