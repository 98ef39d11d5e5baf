package repository

import "ai-video-writer/internal/domain/model"

// JobRegistry is the volatile store of job records. Implementations keep a
// terminal record only for a fixed retention window; an absent job is a
// normal outcome for status queries, never an error.
type JobRegistry interface {
	// Create inserts a pending record and returns it.
	Create(kind string) *model.Job

	// MarkProcessing moves pending -> processing. Missing or terminal jobs
	// are a logged no-op.
	MarkProcessing(id string)

	// UpdateProgress overwrites the progress fields while processing.
	UpdateProgress(id string, percent int, message string)

	// Complete moves the job to completed with the given result.
	Complete(id string, result any)

	// Fail moves the job to failed with the given message.
	Fail(id string, errMsg string)

	// Get returns a snapshot copy of the record, or ok=false when absent.
	Get(id string) (*model.Job, bool)

	// Delete removes the record if present.
	Delete(id string) bool
}
