package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrJobTerminal     = errors.New("job already reached a terminal state")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrQuotaExceeded   = errors.New("provider quota exceeded")
	ErrPollTimeout     = errors.New("timed out waiting for job completion")
	ErrNoVideosFound   = errors.New("no videos matched the filter")
	ErrEmptyPrompt     = errors.New("article prompt is empty")
)
