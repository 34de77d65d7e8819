package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/allisson/mediavault/internal/errors"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
)

// contentType is recorded on every stored object; the bytes are ciphertext
// regardless of the media type of the plaintext.
const contentType = "application/octet-stream"

// BlobResourceRepository stores encrypted resources as objects in a blob bucket.
type BlobResourceRepository struct {
	bucket *blob.Bucket

	// renaming holds the names involved in in-flight renames.
	mu       sync.Mutex
	renaming map[string]struct{}
}

// NewBlobResourceRepository creates a repository over an open bucket. The caller owns the bucket.
func NewBlobResourceRepository(bucket *blob.Bucket) *BlobResourceRepository {
	return &BlobResourceRepository{
		bucket:   bucket,
		renaming: make(map[string]struct{}),
	}
}

// Stat returns the metadata of a stored resource.
func (r *BlobResourceRepository) Stat(ctx context.Context, name string) (*mediaDomain.Resource, error) {
	attrs, err := r.bucket.Attributes(ctx, name)
	if err != nil {
		return nil, mapError(err, "failed to stat resource")
	}

	return &mediaDomain.Resource{
		Name:      name,
		Size:      attrs.Size,
		CreatedAt: attrs.ModTime.UTC(),
	}, nil
}

// List returns every visible resource at the bucket root. Hidden objects
// (in-flight uploads among them) and nested keys are skipped.
func (r *BlobResourceRepository) List(ctx context.Context) ([]*mediaDomain.Resource, error) {
	resources := make([]*mediaDomain.Resource, 0)

	iter := r.bucket.List(&blob.ListOptions{Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, mapError(err, "failed to list resources")
		}
		if obj.IsDir || mediaDomain.ValidateName(obj.Key) != nil {
			continue
		}

		resources = append(resources, &mediaDomain.Resource{
			Name:      obj.Key,
			Size:      obj.Size,
			CreatedAt: obj.ModTime.UTC(),
		})
	}

	return resources, nil
}

// NewRangeReader opens a reader over length bytes starting at offset. A negative
// length reads to the end. Reads stop with ctx.
func (r *BlobResourceRepository) NewRangeReader(
	ctx context.Context,
	name string,
	offset, length int64,
) (io.ReadCloser, error) {
	reader, err := r.bucket.NewRangeReader(ctx, name, offset, length, nil)
	if err != nil {
		return nil, mapError(err, "failed to open resource reader")
	}
	return reader, nil
}

// NewWriter opens a writer for name. The object becomes visible on a successful
// Close; canceling ctx before Close discards it.
func (r *BlobResourceRepository) NewWriter(ctx context.Context, name string) (io.WriteCloser, error) {
	writer, err := r.bucket.NewWriter(ctx, name, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return nil, mapError(err, "failed to open resource writer")
	}
	return writer, nil
}

// Exists reports whether a resource with name is stored.
func (r *BlobResourceRepository) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := r.bucket.Exists(ctx, name)
	if err != nil {
		return false, mapError(err, "failed to check resource")
	}
	return exists, nil
}

// Rename moves oldName to newName. It fails with ErrResourceAlreadyExists when
// newName is taken, or is the source or target of another rename in progress,
// and with ErrResourceNotFound when oldName is missing.
func (r *BlobResourceRepository) Rename(ctx context.Context, oldName, newName string) error {
	if !r.reserve(oldName, newName) {
		return mediaDomain.ErrResourceAlreadyExists
	}
	defer r.release(oldName, newName)

	exists, err := r.Exists(ctx, newName)
	if err != nil {
		return err
	}
	if exists {
		return mediaDomain.ErrResourceAlreadyExists
	}

	if err := r.bucket.Copy(ctx, newName, oldName, nil); err != nil {
		return mapError(err, "failed to copy resource")
	}

	if err := r.bucket.Delete(ctx, oldName); err != nil {
		return mapError(err, "failed to delete renamed resource")
	}
	return nil
}

// reserve marks names as busy unless any of them already is.
func (r *BlobResourceRepository) reserve(names ...string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if _, busy := r.renaming[name]; busy {
			return false
		}
	}
	for _, name := range names {
		r.renaming[name] = struct{}{}
	}
	return true
}

func (r *BlobResourceRepository) release(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		delete(r.renaming, name)
	}
}

// Delete removes a stored resource.
func (r *BlobResourceRepository) Delete(ctx context.Context, name string) error {
	if err := r.bucket.Delete(ctx, name); err != nil {
		return mapError(err, "failed to delete resource")
	}
	return nil
}

// Ping reports whether the bucket is reachable.
func (r *BlobResourceRepository) Ping(ctx context.Context) error {
	iter := r.bucket.List(nil)
	if _, err := iter.Next(ctx); err != nil && !errors.Is(err, io.EOF) {
		return mapError(err, "failed to reach storage")
	}
	return nil
}

// mapError converts driver errors into domain errors.
func mapError(err error, message string) error {
	switch gcerrors.Code(err) {
	case gcerrors.NotFound:
		return mediaDomain.ErrResourceNotFound
	case gcerrors.Canceled, gcerrors.DeadlineExceeded:
		return apperrors.Wrap(err, message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, message)
	}
	return fmt.Errorf("%s: %w: %w", message, apperrors.ErrStorage, err)
}
