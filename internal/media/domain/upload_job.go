package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of an upload encryption job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// UploadJob tracks the background encryption of one uploaded file.
type UploadJob struct {
	ID     uuid.UUID
	Name   string
	Status JobStatus
	// Error is the failure message of a failed job; Err keeps the cause for errors.Is.
	Error       string
	Err         error
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Done reports whether the job reached a terminal state.
func (j UploadJob) Done() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}
