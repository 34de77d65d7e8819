package domain

import (
	"github.com/allisson/mediavault/internal/errors"
)

// Media-specific error definitions.
var (
	// ErrResourceNotFound indicates no stored resource has the requested name.
	ErrResourceNotFound = errors.Wrap(errors.ErrNotFound, "resource not found")

	// ErrResourceAlreadyExists indicates the target name of an upload or rename is taken.
	ErrResourceAlreadyExists = errors.Wrap(errors.ErrConflict, "resource already exists")

	// ErrInvalidResourceName indicates a name that is empty, hidden, or not a single path segment.
	ErrInvalidResourceName = errors.Wrap(errors.ErrInvalidInput, "invalid resource name")

	// ErrMalformedRange indicates a Range header outside the bytes=<start>-<end?> grammar.
	ErrMalformedRange = errors.Wrap(errors.ErrRangeNotSatisfiable, "malformed range header")

	// ErrMultipleRanges indicates a multi-range request, which is not served.
	ErrMultipleRanges = errors.Wrap(errors.ErrRangeNotSatisfiable, "multiple ranges are not supported")

	// ErrRangeStartBeyondLength indicates a range starting at or after the end of the resource.
	ErrRangeStartBeyondLength = errors.Wrap(errors.ErrRangeNotSatisfiable, "range start beyond resource length")

	// ErrRangeInverted indicates a range whose end precedes its start.
	ErrRangeInverted = errors.Wrap(errors.ErrRangeNotSatisfiable, "range end before start")

	// ErrUploadJobNotFound indicates an unknown upload job id.
	ErrUploadJobNotFound = errors.Wrap(errors.ErrNotFound, "upload job not found")

	// ErrUploadQueueClosed indicates a submission after the encryption queue shut down.
	ErrUploadQueueClosed = errors.New("upload queue closed")
)

// RangeError reports an unsatisfiable Range header along with the plaintext
// length, which a 416 response must echo in Content-Range.
type RangeError struct {
	Length int64
	Err    error
}

func (e *RangeError) Error() string {
	return e.Err.Error()
}

func (e *RangeError) Unwrap() error {
	return e.Err
}
