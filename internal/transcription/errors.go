package transcription

import (
	"fmt"
	"time"
)

// ConfigError reports a missing or invalid client configuration value.
// It is returned before any network call is made.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("transcription not configured: %s", e.Reason)
}

// UploadError reports a failed byte upload to the provider.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed: %s", e.Message)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *UploadError) Unwrap() error {
	return e.Err
}

// JobCreationError reports a failed transcription job creation.
type JobCreationError struct {
	Message string
	Err     error
}

func (e *JobCreationError) Error() string {
	return fmt.Sprintf("create transcription failed: %s", e.Message)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *JobCreationError) Unwrap() error {
	return e.Err
}

// PollError reports a transport-level failure of a single poll request.
// Poll requests are never retried; the first failed poll aborts the pipeline.
type PollError struct {
	Message string
	Err     error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("polling failed: %s", e.Message)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *PollError) Unwrap() error {
	return e.Err
}

// JobFailedError reports that the provider itself marked the job as failed.
// Message carries the provider-supplied error text.
type JobFailedError struct {
	Message string
}

func (e *JobFailedError) Error() string {
	return e.Message
}

// TimeoutError reports that the job did not reach a terminal status within
// the poll ceiling, measured from the first poll attempt.
type TimeoutError struct {
	Ceiling time.Duration
}

func (e *TimeoutError) Error() string {
	return "Transcription timed out. Please try again."
}
