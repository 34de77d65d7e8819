// Package service provides the content-at-rest cipher and KMS access.
// Implements AES-256-CBC with PKCS#7 padding and block-aligned partial decryption.
package service

import (
	"io"
)

// Codec encrypts whole resources and decrypts arbitrary block-aligned windows of them.
type Codec interface {
	// Encrypt encrypts plaintext under a fresh random IV.
	Encrypt(plaintext []byte) (iv, ciphertext []byte, err error)

	// EncryptWithIV encrypts plaintext under the given IV.
	EncryptWithIV(iv, plaintext []byte) ([]byte, error)

	// DecryptAligned decrypts a block-aligned ciphertext window chained from seed.
	// Padding is removed only when isFinalWindow is true.
	DecryptAligned(seed, window []byte, isFinalWindow bool) ([]byte, error)

	// PaddingLength decrypts the last ciphertext block and returns its validated padding length.
	PaddingLength(seed, lastBlock []byte) (int, error)

	// NewEncryptWriter returns a writer that emits [IV][ciphertext] to dst.
	// Close must be called to flush the padded final block.
	NewEncryptWriter(dst io.Writer) (io.WriteCloser, error)
}
