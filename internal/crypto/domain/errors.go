package domain

import (
	"github.com/allisson/mediavault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so the HTTP layer can map them without knowing about the cipher.
var (
	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidIVSize indicates an IV or chain seed that is not exactly one block.
	ErrInvalidIVSize = errors.Wrap(errors.ErrInvalidInput, "invalid iv size")

	// ErrInvalidWindow indicates a ciphertext window that is empty or not block aligned.
	ErrInvalidWindow = errors.Wrap(errors.ErrInvalidInput, "ciphertext window must be a non-zero multiple of the block size")

	// ErrInvalidPadding indicates the final block does not carry valid PKCS#7 padding.
	//
	// This is what a wrong key or a corrupted tail looks like under CBC, so the
	// cause is not disclosed further.
	ErrInvalidPadding = errors.Wrap(errors.ErrDecryption, "invalid padding")

	// ErrTruncatedCiphertext indicates a stored resource shorter than IV plus one block
	// or with a body that is not block aligned.
	ErrTruncatedCiphertext = errors.Wrap(errors.ErrDecryption, "truncated ciphertext")

	// ErrWriterClosed indicates a write after the encrypting writer was closed.
	ErrWriterClosed = errors.New("encrypt writer already closed")

	// ErrMasterKeyDecode indicates the configured wrapped master key is not valid base64.
	ErrMasterKeyDecode = errors.Wrap(errors.ErrInvalidInput, "invalid master key encoding")

	// ErrUnsupportedKMSScheme indicates a KMS key URI whose scheme has no registered driver.
	ErrUnsupportedKMSScheme = errors.Wrap(errors.ErrInvalidInput, "unsupported KMS key URI scheme")

	// ErrKMSKeyURINotSet indicates MASTER_KEY was configured without KMS_KEY_URI.
	ErrKMSKeyURINotSet = errors.Wrap(errors.ErrInvalidInput, "KMS_KEY_URI is required when MASTER_KEY is set")
)
