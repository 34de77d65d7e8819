package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
	"github.com/allisson/mediavault/internal/metrics"
)

// mediaUseCaseWithMetrics decorates MediaUseCase with metrics instrumentation.
type mediaUseCaseWithMetrics struct {
	next    MediaUseCase
	metrics metrics.BusinessMetrics
}

// NewMediaUseCaseWithMetrics wraps a MediaUseCase with metrics recording.
func NewMediaUseCaseWithMetrics(useCase MediaUseCase, m metrics.BusinessMetrics) MediaUseCase {
	return &mediaUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (m *mediaUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	m.recordStatus(ctx, operation, start, metrics.OperationStatus(err))
}

func (m *mediaUseCaseWithMetrics) recordStatus(ctx context.Context, operation string, start time.Time, status string) {
	m.metrics.RecordOperation(ctx, "media", operation, status)
	m.metrics.RecordDuration(ctx, "media", operation, time.Since(start), status)
}

// List records metrics for listing operations.
func (m *mediaUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
	query string,
) ([]*mediaDomain.Resource, error) {
	start := time.Now()
	resources, err := m.next.List(ctx, offset, limit, query)
	m.record(ctx, "media_list", start, err)
	return resources, err
}

// Count records metrics for count operations.
func (m *mediaUseCaseWithMetrics) Count(ctx context.Context, query string) (int, error) {
	start := time.Now()
	count, err := m.next.Count(ctx, query)
	m.record(ctx, "media_count", start, err)
	return count, err
}

// Get records metrics for metadata lookups.
func (m *mediaUseCaseWithMetrics) Get(ctx context.Context, name string) (*mediaDomain.Resource, error) {
	start := time.Now()
	res, err := m.next.Get(ctx, name)
	m.record(ctx, "media_get", start, err)
	return res, err
}

// Describe records metrics for playback resolution without a body.
func (m *mediaUseCaseWithMetrics) Describe(ctx context.Context, name, rangeHeader string) (*Playback, error) {
	start := time.Now()
	playback, err := m.next.Describe(ctx, name, rangeHeader)
	m.record(ctx, "media_describe", start, err)
	return playback, err
}

// Open records metrics for stream setup. Time spent streaming the body is not included.
func (m *mediaUseCaseWithMetrics) Open(ctx context.Context, name, rangeHeader string) (*Playback, error) {
	start := time.Now()
	playback, err := m.next.Open(ctx, name, rangeHeader)
	m.record(ctx, "media_open", start, err)
	return playback, err
}

// Upload records metrics for upload submissions.
func (m *mediaUseCaseWithMetrics) Upload(
	ctx context.Context,
	name, stagingPath string,
) (*mediaDomain.UploadJob, error) {
	start := time.Now()
	job, err := m.next.Upload(ctx, name, stagingPath)
	m.record(ctx, "media_upload", start, err)
	return job, err
}

// GetUploadJob records metrics for job lookups.
func (m *mediaUseCaseWithMetrics) GetUploadJob(ctx context.Context, id uuid.UUID) (*mediaDomain.UploadJob, error) {
	start := time.Now()
	job, err := m.next.GetUploadJob(ctx, id)
	m.record(ctx, "media_upload_job_get", start, err)
	return job, err
}

// WaitUploadJob records metrics for waiting on jobs, including the encryption time.
func (m *mediaUseCaseWithMetrics) WaitUploadJob(ctx context.Context, id uuid.UUID) (*mediaDomain.UploadJob, error) {
	start := time.Now()
	job, err := m.next.WaitUploadJob(ctx, id)
	status := metrics.OperationStatus(err)
	if err == nil && job.Status == mediaDomain.JobFailed {
		status = metrics.StatusError
	}
	m.recordStatus(ctx, "media_upload_job_wait", start, status)
	return job, err
}

// Delete records metrics for deletions.
func (m *mediaUseCaseWithMetrics) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := m.next.Delete(ctx, name)
	m.record(ctx, "media_delete", start, err)
	return err
}

// Rename records metrics for renames.
func (m *mediaUseCaseWithMetrics) Rename(ctx context.Context, oldName, newName string) error {
	start := time.Now()
	err := m.next.Rename(ctx, oldName, newName)
	m.record(ctx, "media_rename", start, err)
	return err
}
