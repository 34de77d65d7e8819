package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
)

// CBCCodec implements Codec using AES-256-CBC with PKCS#7 padding.
//
// Stored layout is [16-byte IV][ciphertext]. Decryption of any window only needs
// the ciphertext block preceding it (the chain seed), which is the IV for the
// first window.
//
// Thread safety: the underlying cipher.Block is stateless, so a single CBCCodec
// may be shared across goroutines. Block modes are created per call.
type CBCCodec struct {
	block cipher.Block
}

// NewCBCCodec creates a codec from a 32-byte content key.
func NewCBCCodec(key []byte) (*CBCCodec, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &CBCCodec{block: block}, nil
}

// Encrypt encrypts plaintext under a fresh random IV. Each call yields a different IV.
func (c *CBCCodec) Encrypt(plaintext []byte) (iv, ciphertext []byte, err error) {
	iv = make([]byte, cryptoDomain.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	ciphertext, err = c.EncryptWithIV(iv, plaintext)
	if err != nil {
		return nil, nil, err
	}
	return iv, ciphertext, nil
}

// EncryptWithIV is the deterministic form of Encrypt.
func (c *CBCCodec) EncryptWithIV(iv, plaintext []byte) ([]byte, error) {
	if len(iv) != cryptoDomain.IVSize {
		return nil, cryptoDomain.ErrInvalidIVSize
	}

	padded := pkcs7Pad(append([]byte(nil), plaintext...))
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(ciphertext, padded)
	cryptoDomain.Zero(padded)

	return ciphertext, nil
}

// DecryptAligned decrypts window using seed as the chaining value.
//
// seed must be the IV when the window starts at the first ciphertext block,
// otherwise the ciphertext block immediately preceding the window. Padding is
// validated and stripped only when isFinalWindow is true.
func (c *CBCCodec) DecryptAligned(seed, window []byte, isFinalWindow bool) ([]byte, error) {
	if len(seed) != cryptoDomain.BlockSize {
		return nil, cryptoDomain.ErrInvalidIVSize
	}
	if len(window) == 0 || len(window)%cryptoDomain.BlockSize != 0 {
		return nil, cryptoDomain.ErrInvalidWindow
	}

	plaintext := make([]byte, len(window))
	cipher.NewCBCDecrypter(c.block, seed).CryptBlocks(plaintext, window)

	if !isFinalWindow {
		return plaintext, nil
	}

	unpadded, err := pkcs7Unpad(plaintext)
	if err != nil {
		return nil, err
	}
	return unpadded, nil
}

// PaddingLength decrypts lastBlock chained from seed and returns the number of
// padding bytes it carries.
func (c *CBCCodec) PaddingLength(seed, lastBlock []byte) (int, error) {
	if len(seed) != cryptoDomain.BlockSize {
		return 0, cryptoDomain.ErrInvalidIVSize
	}
	if len(lastBlock) != cryptoDomain.BlockSize {
		return 0, cryptoDomain.ErrInvalidWindow
	}

	plaintext := make([]byte, cryptoDomain.BlockSize)
	cipher.NewCBCDecrypter(c.block, seed).CryptBlocks(plaintext, lastBlock)
	defer cryptoDomain.Zero(plaintext)

	return pkcs7PadLength(plaintext)
}

// NewEncryptWriter returns a streaming encryptor under a fresh random IV.
func (c *CBCCodec) NewEncryptWriter(dst io.Writer) (io.WriteCloser, error) {
	iv := make([]byte, cryptoDomain.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}
	return c.NewEncryptWriterWithIV(dst, iv)
}

// NewEncryptWriterWithIV writes iv to dst and returns a writer whose output,
// once closed, equals iv followed by EncryptWithIV(iv, everything written).
func (c *CBCCodec) NewEncryptWriterWithIV(dst io.Writer, iv []byte) (io.WriteCloser, error) {
	if len(iv) != cryptoDomain.IVSize {
		return nil, cryptoDomain.ErrInvalidIVSize
	}
	if _, err := dst.Write(iv); err != nil {
		return nil, fmt.Errorf("failed to write iv: %w", err)
	}

	return &encryptWriter{
		dst:  dst,
		mode: cipher.NewCBCEncrypter(c.block, iv),
	}, nil
}

// encryptWriter encrypts full blocks as soon as they are available and holds
// back the remainder until Close pads it.
type encryptWriter struct {
	dst    io.Writer
	mode   cipher.BlockMode
	buf    []byte
	out    []byte
	err    error
	closed bool
}

func (w *encryptWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, cryptoDomain.ErrWriterClosed
	}
	if w.err != nil {
		return 0, w.err
	}

	w.buf = append(w.buf, p...)
	n := len(w.buf) - len(w.buf)%cryptoDomain.BlockSize
	if n == 0 {
		return len(p), nil
	}

	if err := w.flush(w.buf[:n]); err != nil {
		return 0, err
	}

	rest := copy(w.buf, w.buf[n:])
	w.buf = w.buf[:rest]
	return len(p), nil
}

// Close pads the held-back remainder and writes the final block. It does not close dst.
func (w *encryptWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.err != nil {
		return w.err
	}

	final := pkcs7Pad(w.buf)
	err := w.flush(final)
	cryptoDomain.Zero(final)
	w.buf = nil
	return err
}

func (w *encryptWriter) flush(blocks []byte) error {
	if cap(w.out) < len(blocks) {
		w.out = make([]byte, len(blocks))
	}
	out := w.out[:len(blocks)]
	w.mode.CryptBlocks(out, blocks)

	if _, err := w.dst.Write(out); err != nil {
		w.err = fmt.Errorf("failed to write ciphertext: %w", err)
		return w.err
	}
	return nil
}
