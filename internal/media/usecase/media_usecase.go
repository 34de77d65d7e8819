package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/allisson/mediavault/internal/errors"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
)

// mediaUseCase implements the MediaUseCase interface.
type mediaUseCase struct {
	resourceRepo ResourceRepository
	decryptor    RangeDecryptor
	queue        *EncryptionQueue
	logger       *slog.Logger
}

// List returns a page of resources whose name contains query, newest first.
func (m *mediaUseCase) List(
	ctx context.Context,
	offset, limit int,
	query string,
) ([]*mediaDomain.Resource, error) {
	resources, err := m.matching(ctx, query)
	if err != nil {
		return nil, err
	}

	if offset >= len(resources) {
		return []*mediaDomain.Resource{}, nil
	}
	end := offset + limit
	if end > len(resources) {
		end = len(resources)
	}
	return resources[offset:end], nil
}

// Count returns how many resources match query.
func (m *mediaUseCase) Count(ctx context.Context, query string) (int, error) {
	resources, err := m.matching(ctx, query)
	if err != nil {
		return 0, err
	}
	return len(resources), nil
}

// Get returns the metadata of a single resource.
func (m *mediaUseCase) Get(ctx context.Context, name string) (*mediaDomain.Resource, error) {
	if err := mediaDomain.ValidateName(name); err != nil {
		return nil, err
	}
	return m.resourceRepo.Stat(ctx, name)
}

// Describe resolves rangeHeader against the plaintext length of name.
func (m *mediaUseCase) Describe(ctx context.Context, name, rangeHeader string) (*Playback, error) {
	res, err := m.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	length, err := m.decryptor.PlaintextLength(ctx, res)
	if err != nil {
		return nil, err
	}

	r, partial, err := mediaDomain.ResolveRange(rangeHeader, length)
	if err != nil {
		return nil, &mediaDomain.RangeError{Length: length, Err: err}
	}

	return &Playback{
		Resource: res,
		Length:   length,
		Range:    r,
		Partial:  partial,
	}, nil
}

// Open resolves the request and opens a decrypting body for the resolved range.
func (m *mediaUseCase) Open(ctx context.Context, name, rangeHeader string) (*Playback, error) {
	playback, err := m.Describe(ctx, name, rangeHeader)
	if err != nil {
		return nil, err
	}

	body, err := m.decryptor.Open(ctx, playback.Resource, playback.Range)
	if err != nil {
		return nil, err
	}
	playback.Body = body
	return playback, nil
}

// Upload validates the target name and queues the staged file for encryption.
func (m *mediaUseCase) Upload(ctx context.Context, name, stagingPath string) (*mediaDomain.UploadJob, error) {
	if err := mediaDomain.ValidateName(name); err != nil {
		return nil, err
	}

	exists, err := m.resourceRepo.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, mediaDomain.ErrResourceAlreadyExists
	}

	job, err := m.queue.Submit(name, stagingPath)
	if err != nil {
		return nil, err
	}

	m.logger.Info("upload queued",
		slog.String("job_id", job.ID.String()),
		slog.String("name", name),
	)
	return job, nil
}

// GetUploadJob returns the current state of an upload job.
func (m *mediaUseCase) GetUploadJob(_ context.Context, id uuid.UUID) (*mediaDomain.UploadJob, error) {
	return m.queue.Get(id)
}

// WaitUploadJob blocks until the job finishes or ctx is done.
func (m *mediaUseCase) WaitUploadJob(ctx context.Context, id uuid.UUID) (*mediaDomain.UploadJob, error) {
	return m.queue.Wait(ctx, id)
}

// Delete removes a resource.
func (m *mediaUseCase) Delete(ctx context.Context, name string) error {
	if err := mediaDomain.ValidateName(name); err != nil {
		return err
	}
	return m.resourceRepo.Delete(ctx, name)
}

// Rename moves a resource to a new name.
func (m *mediaUseCase) Rename(ctx context.Context, oldName, newName string) error {
	if err := mediaDomain.ValidateName(oldName); err != nil {
		return err
	}
	if err := mediaDomain.ValidateName(newName); err != nil {
		return err
	}
	if oldName == newName {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "new name must differ from old name")
	}
	return m.resourceRepo.Rename(ctx, oldName, newName)
}

// matching returns resources whose name contains query, sorted by creation
// date descending with name as a tiebreaker.
func (m *mediaUseCase) matching(ctx context.Context, query string) ([]*mediaDomain.Resource, error) {
	resources, err := m.resourceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	filtered := make([]*mediaDomain.Resource, 0, len(resources))
	for _, r := range resources {
		if needle == "" || strings.Contains(strings.ToLower(r.Name), needle) {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].Name < filtered[j].Name
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

// NewMediaUseCase creates a new MediaUseCase.
func NewMediaUseCase(
	resourceRepo ResourceRepository,
	decryptor RangeDecryptor,
	queue *EncryptionQueue,
	logger *slog.Logger,
) MediaUseCase {
	return &mediaUseCase{
		resourceRepo: resourceRepo,
		decryptor:    decryptor,
		queue:        queue,
		logger:       logger,
	}
}
