// Package service implements block-aligned streaming decryption of stored resources.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
	cryptoService "github.com/allisson/mediavault/internal/crypto/service"
	apperrors "github.com/allisson/mediavault/internal/errors"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
)

// DefaultChunkSize is the ciphertext chunk decrypted per underlying read.
const DefaultChunkSize = 64 * 1024

// RangeReaderOpener opens ranged reads over stored resources.
type RangeReaderOpener interface {
	NewRangeReader(ctx context.Context, name string, offset, length int64) (io.ReadCloser, error)
}

// RangeDecryptor produces plaintext readers for byte ranges of encrypted resources.
//
// Each Open issues exactly one ranged read starting at the chain seed and
// decrypts it chunk by chunk as the caller reads, so memory use is bounded by
// the chunk size regardless of the requested range.
type RangeDecryptor struct {
	storage   RangeReaderOpener
	codec     cryptoService.Codec
	chunkSize int
}

// NewRangeDecryptor creates a RangeDecryptor. chunkSize is rounded down to a
// multiple of the block size; non-positive values select DefaultChunkSize.
func NewRangeDecryptor(storage RangeReaderOpener, codec cryptoService.Codec, chunkSize int) *RangeDecryptor {
	chunkSize -= chunkSize % cryptoDomain.BlockSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &RangeDecryptor{storage: storage, codec: codec, chunkSize: chunkSize}
}

// PlaintextLength returns the decrypted length of res by decrypting its last
// block and validating the padding. It fails with ErrDecryption for a wrong key
// or a corrupted tail, before any plaintext is produced.
func (d *RangeDecryptor) PlaintextLength(ctx context.Context, res *mediaDomain.Resource) (int64, error) {
	const tailLength = 2 * cryptoDomain.BlockSize

	body := res.Size - cryptoDomain.IVSize
	if body < cryptoDomain.BlockSize || body%cryptoDomain.BlockSize != 0 {
		return 0, cryptoDomain.ErrTruncatedCiphertext
	}

	reader, err := d.storage.NewRangeReader(ctx, res.Name, res.Size-tailLength, tailLength)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = reader.Close()
	}()

	tail := make([]byte, tailLength)
	if _, err := io.ReadFull(reader, tail); err != nil {
		return 0, readError(err, "failed to read resource tail")
	}

	padLen, err := d.codec.PaddingLength(tail[:cryptoDomain.BlockSize], tail[cryptoDomain.BlockSize:])
	if err != nil {
		return 0, err
	}

	return body - int64(padLen), nil
}

// Open returns a reader yielding exactly r.Length() plaintext bytes of res.
//
// r must already be resolved against plaintextLength. An empty range yields
// an empty reader without touching storage.
func (d *RangeDecryptor) Open(
	ctx context.Context,
	res *mediaDomain.Resource,
	r mediaDomain.ByteRange,
) (io.ReadCloser, error) {
	if r.Length() <= 0 {
		return io.NopCloser(strings.NewReader("")), nil
	}

	window := mediaDomain.AlignRange(r, cryptoDomain.BlockSize)
	body := res.Size - cryptoDomain.IVSize
	if window.CipherEnd >= body {
		return nil, cryptoDomain.ErrTruncatedCiphertext
	}

	src, err := d.storage.NewRangeReader(ctx, res.Name, window.FetchOffset(), window.FetchLength())
	if err != nil {
		return nil, err
	}

	seed := make([]byte, cryptoDomain.BlockSize)
	if _, err := io.ReadFull(src, seed); err != nil {
		_ = src.Close()
		return nil, readError(err, "failed to read chain seed")
	}

	return &decryptingReader{
		ctx:             ctx,
		src:             src,
		codec:           d.codec,
		seed:            seed,
		chunk:           make([]byte, d.chunkSize),
		remainingCipher: window.WindowLength(),
		reachesEnd:      window.IsFinal(body),
		trim:            window.LeadingTrim,
		remainingOut:    window.OutputLength,
	}, nil
}

// decryptingReader decrypts one chunk per refill, chaining each chunk from the
// last ciphertext block of the previous one.
type decryptingReader struct {
	ctx             context.Context
	src             io.ReadCloser
	codec           cryptoService.Codec
	seed            []byte
	chunk           []byte
	pending         []byte
	remainingCipher int64
	reachesEnd      bool
	trim            int64
	remainingOut    int64
	err             error
}

func (r *decryptingReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.remainingOut <= 0 {
			return 0, io.EOF
		}
		if r.err != nil {
			return 0, r.err
		}
		if r.err = r.refill(); r.err != nil {
			return 0, r.err
		}
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *decryptingReader) refill() error {
	if err := r.ctx.Err(); err != nil {
		return err
	}

	n := int64(len(r.chunk))
	if r.remainingCipher < n {
		n = r.remainingCipher
	}
	if n == 0 {
		return cryptoDomain.ErrTruncatedCiphertext
	}

	chunk := r.chunk[:n]
	if _, err := io.ReadFull(r.src, chunk); err != nil {
		return readError(err, "failed to read ciphertext")
	}
	r.remainingCipher -= n

	plaintext, err := r.codec.DecryptAligned(r.seed, chunk, r.reachesEnd && r.remainingCipher == 0)
	if err != nil {
		return err
	}
	copy(r.seed, chunk[n-cryptoDomain.BlockSize:])

	if r.trim > 0 {
		if r.trim > int64(len(plaintext)) {
			return cryptoDomain.ErrTruncatedCiphertext
		}
		plaintext = plaintext[r.trim:]
		r.trim = 0
	}
	if int64(len(plaintext)) > r.remainingOut {
		plaintext = plaintext[:r.remainingOut]
	}
	r.remainingOut -= int64(len(plaintext))
	r.pending = plaintext
	return nil
}

func (r *decryptingReader) Close() error {
	cryptoDomain.Zero(r.pending)
	return r.src.Close()
}

// readError keeps cancellation visible and reports everything else as a storage failure.
func readError(err error, message string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, message)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", message, cryptoDomain.ErrTruncatedCiphertext)
	}
	if apperrors.Is(err, apperrors.ErrStorage) {
		return apperrors.Wrap(err, message)
	}
	return fmt.Errorf("%s: %w: %w", message, apperrors.ErrStorage, err)
}
