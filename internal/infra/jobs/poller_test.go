//go:build !integration

package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-video-writer/internal/domain"
	"ai-video-writer/internal/domain/model"
)

func TestPollerWait(t *testing.T) {
	t.Run("returns the record once the job turns terminal", func(t *testing.T) {
		// --- Arrange ---
		registry := NewRegistry(30*time.Minute, newTestLogger())
		poller := NewPoller(registry, 5*time.Millisecond)
		job := registry.Create("demo")
		registry.MarkProcessing(job.ID)

		go func() {
			time.Sleep(20 * time.Millisecond)
			registry.Complete(job.ID, "payload")
		}()

		// --- Act ---
		got, err := poller.Wait(context.Background(), job.ID, time.Second)

		// --- Assert ---
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != model.JobStatusCompleted {
			t.Errorf("expected completed, got %s", got.Status)
		}
		if got.Result != "payload" {
			t.Errorf("result mismatch: %v", got.Result)
		}
	})

	t.Run("an already-terminal job returns without waiting a tick", func(t *testing.T) {
		registry := NewRegistry(30*time.Minute, newTestLogger())
		poller := NewPoller(registry, time.Hour)
		job := registry.Create("demo")
		registry.MarkProcessing(job.ID)
		registry.Fail(job.ID, "boom")

		got, err := poller.Wait(context.Background(), job.ID, time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != model.JobStatusFailed {
			t.Errorf("expected failed, got %s", got.Status)
		}
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		registry := NewRegistry(30*time.Minute, newTestLogger())
		poller := NewPoller(registry, 5*time.Millisecond)

		_, err := poller.Wait(context.Background(), "no-such-id", time.Second)
		if !errors.Is(err, domain.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound, got %v", err)
		}
	})

	t.Run("a job that never finishes times out", func(t *testing.T) {
		registry := NewRegistry(30*time.Minute, newTestLogger())
		poller := NewPoller(registry, 5*time.Millisecond)
		job := registry.Create("demo")
		registry.MarkProcessing(job.ID)

		_, err := poller.Wait(context.Background(), job.ID, 30*time.Millisecond)
		if !errors.Is(err, domain.ErrPollTimeout) {
			t.Errorf("expected ErrPollTimeout, got %v", err)
		}
	})

	t.Run("caller cancellation wins over the timeout", func(t *testing.T) {
		registry := NewRegistry(30*time.Minute, newTestLogger())
		poller := NewPoller(registry, 5*time.Millisecond)
		job := registry.Create("demo")
		registry.MarkProcessing(job.ID)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := poller.Wait(ctx, job.ID, time.Minute)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
