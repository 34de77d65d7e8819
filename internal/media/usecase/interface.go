// Package usecase defines the interfaces and implementations for media use cases.
// Use cases orchestrate storage, range resolution, and streaming decryption to
// serve encrypted resources without ever writing plaintext back to storage.
package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"

	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
)

// ResourceRepository defines the interface for encrypted resource storage.
type ResourceRepository interface {
	Stat(ctx context.Context, name string) (*mediaDomain.Resource, error)
	List(ctx context.Context) ([]*mediaDomain.Resource, error)
	NewRangeReader(ctx context.Context, name string, offset, length int64) (io.ReadCloser, error)
	NewWriter(ctx context.Context, name string) (io.WriteCloser, error)
	Exists(ctx context.Context, name string) (bool, error)
	Rename(ctx context.Context, oldName, newName string) error
	Delete(ctx context.Context, name string) error
}

// RangeDecryptor defines the interface for decrypting byte ranges of resources.
type RangeDecryptor interface {
	PlaintextLength(ctx context.Context, res *mediaDomain.Resource) (int64, error)
	Open(ctx context.Context, res *mediaDomain.Resource, r mediaDomain.ByteRange) (io.ReadCloser, error)
}

// Playback describes a resolved playback request.
type Playback struct {
	Resource *mediaDomain.Resource
	// Length is the plaintext length of the resource.
	Length int64
	// Range is the plaintext range being served.
	Range mediaDomain.ByteRange
	// Partial is true when the request carried a satisfiable Range header.
	Partial bool
	// Body yields Range.Length() plaintext bytes; nil when produced by Describe.
	Body io.ReadCloser
}

// MediaUseCase defines the interface for media business logic.
type MediaUseCase interface {
	// List returns resources matching query (case-insensitive substring), newest first.
	List(ctx context.Context, offset, limit int, query string) ([]*mediaDomain.Resource, error)
	Count(ctx context.Context, query string) (int, error)
	Get(ctx context.Context, name string) (*mediaDomain.Resource, error)
	// Describe resolves rangeHeader against the resource without opening a body.
	// Range failures are returned as *mediaDomain.RangeError.
	Describe(ctx context.Context, name, rangeHeader string) (*Playback, error)
	// Open is Describe plus a plaintext body. The caller must close Body.
	Open(ctx context.Context, name, rangeHeader string) (*Playback, error)
	// Upload queues stagingPath for encryption into name. The staging file is
	// removed once the job finishes, successfully or not.
	Upload(ctx context.Context, name, stagingPath string) (*mediaDomain.UploadJob, error)
	GetUploadJob(ctx context.Context, id uuid.UUID) (*mediaDomain.UploadJob, error)
	WaitUploadJob(ctx context.Context, id uuid.UUID) (*mediaDomain.UploadJob, error)
	Delete(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName, newName string) error
}
