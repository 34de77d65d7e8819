package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	cryptoService "github.com/allisson/mediavault/internal/crypto/service"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
)

// tempPrefix marks in-flight uploads; listing skips hidden names so these are never served.
const tempPrefix = ".upload-"

// finishedJobRetention bounds how long terminal jobs stay queryable.
const finishedJobRetention = time.Hour

type queuedJob struct {
	job         mediaDomain.UploadJob
	stagingPath string
	done        chan struct{}
}

// EncryptionQueue encrypts staged uploads into storage on a bounded pool of workers.
//
// Each job streams its staging file through the codec into a temporary object,
// publishes it under the final name only on success, and removes the staging
// file either way.
type EncryptionQueue struct {
	repo   ResourceRepository
	codec  cryptoService.Codec
	sem    *semaphore.Weighted
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	jobs   map[uuid.UUID]*queuedJob
	closed bool
}

// NewEncryptionQueue creates a queue running at most workers encryptions at once.
func NewEncryptionQueue(
	repo ResourceRepository,
	codec cryptoService.Codec,
	workers int,
	logger *slog.Logger,
) *EncryptionQueue {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &EncryptionQueue{
		repo:   repo,
		codec:  codec,
		sem:    semaphore.NewWeighted(int64(workers)),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[uuid.UUID]*queuedJob),
	}
}

// Submit registers a pending job and starts it as soon as a worker is free.
// A name already targeted by an unfinished job is rejected with ErrResourceAlreadyExists.
func (q *EncryptionQueue) Submit(name, stagingPath string) (*mediaDomain.UploadJob, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job id: %w", err)
	}

	entry := &queuedJob{
		job: mediaDomain.UploadJob{
			ID:        id,
			Name:      name,
			Status:    mediaDomain.JobPending,
			CreatedAt: time.Now().UTC(),
		},
		stagingPath: stagingPath,
		done:        make(chan struct{}),
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, mediaDomain.ErrUploadQueueClosed
	}
	if q.pendingLocked(name) {
		q.mu.Unlock()
		return nil, mediaDomain.ErrResourceAlreadyExists
	}
	q.pruneLocked(entry.job.CreatedAt)
	q.jobs[id] = entry
	q.wg.Add(1)
	q.mu.Unlock()

	go q.run(entry)

	job := entry.job
	return &job, nil
}

// Get returns a snapshot of the job.
func (q *EncryptionQueue) Get(id uuid.UUID) (*mediaDomain.UploadJob, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	entry, ok := q.jobs[id]
	if !ok {
		return nil, mediaDomain.ErrUploadJobNotFound
	}
	job := entry.job
	return &job, nil
}

// Wait blocks until the job finishes or ctx is done.
func (q *EncryptionQueue) Wait(ctx context.Context, id uuid.UUID) (*mediaDomain.UploadJob, error) {
	q.mu.RLock()
	entry, ok := q.jobs[id]
	q.mu.RUnlock()
	if !ok {
		return nil, mediaDomain.ErrUploadJobNotFound
	}

	select {
	case <-entry.done:
		return q.Get(id)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for running ones. When ctx expires
// first, in-flight jobs are canceled and their temporary objects discarded.
func (q *EncryptionQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-finished
		return ctx.Err()
	}
}

func (q *EncryptionQueue) run(entry *queuedJob) {
	defer q.wg.Done()
	defer close(entry.done)
	defer q.removeStaging(entry.stagingPath)

	if err := q.sem.Acquire(q.ctx, 1); err != nil {
		q.finish(entry, err)
		return
	}
	defer q.sem.Release(1)

	q.setStatus(entry, mediaDomain.JobRunning)
	q.finish(entry, q.encrypt(entry))
}

func (q *EncryptionQueue) encrypt(entry *queuedJob) error {
	src, err := os.Open(entry.stagingPath)
	if err != nil {
		return fmt.Errorf("failed to open staged upload: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	tempName := tempPrefix + entry.job.ID.String()

	ctx, cancel := context.WithCancel(q.ctx)
	defer cancel()

	dst, err := q.repo.NewWriter(ctx, tempName)
	if err != nil {
		return err
	}

	if err := q.writeEncrypted(dst, src); err != nil {
		// Canceling before Close discards the partial object.
		cancel()
		_ = dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to commit encrypted upload: %w", err)
	}

	if err := q.repo.Rename(q.ctx, tempName, entry.job.Name); err != nil {
		if delErr := q.repo.Delete(context.Background(), tempName); delErr != nil {
			q.logger.Warn("failed to remove temporary upload",
				slog.String("name", tempName),
				slog.Any("error", delErr),
			)
		}
		return err
	}
	return nil
}

func (q *EncryptionQueue) writeEncrypted(dst io.Writer, src io.Reader) error {
	w, err := q.codec.NewEncryptWriter(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to encrypt upload: %w", err)
	}
	return w.Close()
}

func (q *EncryptionQueue) setStatus(entry *queuedJob, status mediaDomain.JobStatus) {
	q.mu.Lock()
	entry.job.Status = status
	q.mu.Unlock()
}

func (q *EncryptionQueue) finish(entry *queuedJob, err error) {
	now := time.Now().UTC()

	q.mu.Lock()
	entry.job.CompletedAt = &now
	if err != nil {
		entry.job.Status = mediaDomain.JobFailed
		entry.job.Error = err.Error()
		entry.job.Err = err
	} else {
		entry.job.Status = mediaDomain.JobCompleted
	}
	job := entry.job
	q.mu.Unlock()

	if err != nil {
		q.logger.Error("upload encryption failed",
			slog.String("job_id", job.ID.String()),
			slog.String("name", job.Name),
			slog.Any("error", err),
		)
		return
	}
	q.logger.Info("upload encrypted",
		slog.String("job_id", job.ID.String()),
		slog.String("name", job.Name),
	)
}

func (q *EncryptionQueue) removeStaging(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		q.logger.Warn("failed to remove staged upload", slog.String("path", path), slog.Any("error", err))
	}
}

// pendingLocked reports whether an unfinished job targets name. q.mu must be held.
func (q *EncryptionQueue) pendingLocked(name string) bool {
	for _, entry := range q.jobs {
		if entry.job.Name == name && !entry.job.Done() {
			return true
		}
	}
	return false
}

// pruneLocked drops terminal jobs older than finishedJobRetention. q.mu must be held.
func (q *EncryptionQueue) pruneLocked(now time.Time) {
	for id, entry := range q.jobs {
		if entry.job.CompletedAt != nil && now.Sub(*entry.job.CompletedAt) > finishedJobRetention {
			delete(q.jobs, id)
		}
	}
}
