package model

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one tracked unit of deferred work. Records live only in memory and
// are purged a retention window after reaching a terminal state.
type Job struct {
	ID              string
	Kind            string
	Status          JobStatus
	ProgressPercent int
	ProgressMessage string
	Result          any    // set only when Status == completed
	Error           string // set only when Status == failed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
