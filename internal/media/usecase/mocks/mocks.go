// Package mocks provides mock implementations of the media use case interfaces for testing.
package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
	mediaUseCase "github.com/allisson/mediavault/internal/media/usecase"
)

// MockMediaUseCase is a mock implementation of MediaUseCase.
type MockMediaUseCase struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockMediaUseCase) List(
	ctx context.Context,
	offset, limit int,
	query string,
) ([]*mediaDomain.Resource, error) {
	args := m.Called(ctx, offset, limit, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mediaDomain.Resource), args.Error(1)
}

// Count mocks the Count method.
func (m *MockMediaUseCase) Count(ctx context.Context, query string) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}

// Get mocks the Get method.
func (m *MockMediaUseCase) Get(ctx context.Context, name string) (*mediaDomain.Resource, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaDomain.Resource), args.Error(1)
}

// Describe mocks the Describe method.
func (m *MockMediaUseCase) Describe(ctx context.Context, name, rangeHeader string) (*mediaUseCase.Playback, error) {
	args := m.Called(ctx, name, rangeHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaUseCase.Playback), args.Error(1)
}

// Open mocks the Open method.
func (m *MockMediaUseCase) Open(ctx context.Context, name, rangeHeader string) (*mediaUseCase.Playback, error) {
	args := m.Called(ctx, name, rangeHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaUseCase.Playback), args.Error(1)
}

// Upload mocks the Upload method.
func (m *MockMediaUseCase) Upload(ctx context.Context, name, stagingPath string) (*mediaDomain.UploadJob, error) {
	args := m.Called(ctx, name, stagingPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaDomain.UploadJob), args.Error(1)
}

// GetUploadJob mocks the GetUploadJob method.
func (m *MockMediaUseCase) GetUploadJob(ctx context.Context, id uuid.UUID) (*mediaDomain.UploadJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaDomain.UploadJob), args.Error(1)
}

// WaitUploadJob mocks the WaitUploadJob method.
func (m *MockMediaUseCase) WaitUploadJob(ctx context.Context, id uuid.UUID) (*mediaDomain.UploadJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaDomain.UploadJob), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockMediaUseCase) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// Rename mocks the Rename method.
func (m *MockMediaUseCase) Rename(ctx context.Context, oldName, newName string) error {
	args := m.Called(ctx, oldName, newName)
	return args.Error(0)
}

// MockResourceRepository is a mock implementation of ResourceRepository.
type MockResourceRepository struct {
	mock.Mock
}

// Stat mocks the Stat method.
func (m *MockResourceRepository) Stat(ctx context.Context, name string) (*mediaDomain.Resource, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaDomain.Resource), args.Error(1)
}

// List mocks the List method.
func (m *MockResourceRepository) List(ctx context.Context) ([]*mediaDomain.Resource, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mediaDomain.Resource), args.Error(1)
}

// NewRangeReader mocks the NewRangeReader method.
func (m *MockResourceRepository) NewRangeReader(
	ctx context.Context,
	name string,
	offset, length int64,
) (io.ReadCloser, error) {
	args := m.Called(ctx, name, offset, length)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// NewWriter mocks the NewWriter method.
func (m *MockResourceRepository) NewWriter(ctx context.Context, name string) (io.WriteCloser, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

// Exists mocks the Exists method.
func (m *MockResourceRepository) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// Rename mocks the Rename method.
func (m *MockResourceRepository) Rename(ctx context.Context, oldName, newName string) error {
	args := m.Called(ctx, oldName, newName)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockResourceRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockRangeDecryptor is a mock implementation of RangeDecryptor.
type MockRangeDecryptor struct {
	mock.Mock
}

// PlaintextLength mocks the PlaintextLength method.
func (m *MockRangeDecryptor) PlaintextLength(ctx context.Context, res *mediaDomain.Resource) (int64, error) {
	args := m.Called(ctx, res)
	return args.Get(0).(int64), args.Error(1)
}

// Open mocks the Open method.
func (m *MockRangeDecryptor) Open(
	ctx context.Context,
	res *mediaDomain.Resource,
	r mediaDomain.ByteRange,
) (io.ReadCloser, error) {
	args := m.Called(ctx, res, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
