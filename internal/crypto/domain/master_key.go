package domain

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// KMSKeeper is the subset of *secrets.Keeper used to wrap and unwrap the master key.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// MasterKey holds the process-wide root key from which the content key is derived.
//
// An ephemeral master key is generated at startup and never persisted: resources
// encrypted under it cannot be read by any later process. A persisted master key
// is stored wrapped by a KMS and unwrapped on startup.
type MasterKey struct {
	ID        string
	Key       []byte
	Ephemeral bool
}

// NewEphemeralMasterKey generates a random master key that lives only in this process.
func NewEphemeralMasterKey() (*MasterKey, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	return &MasterKey{ID: "ephemeral", Key: key, Ephemeral: true}, nil
}

// WrapMasterKey encrypts key with the keeper and returns the base64 form LoadMasterKey accepts.
func WrapMasterKey(ctx context.Context, keeper KMSKeeper, key []byte) (string, error) {
	if len(key) != KeySize {
		return "", fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}

	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// LoadMasterKey unwraps a base64 KMS ciphertext into a master key.
//
// Temporary decoded bytes are zeroed before returning.
func LoadMasterKey(ctx context.Context, keeper KMSKeeper, encoded string) (*MasterKey, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMasterKeyDecode, err)
	}

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt master key with KMS: %w", err)
	}
	defer Zero(plaintext)

	if len(plaintext) != KeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(plaintext))
	}

	key := make([]byte, KeySize)
	copy(key, plaintext)
	return &MasterKey{ID: "kms", Key: key}, nil
}

// Close zeroes the key material.
func (m *MasterKey) Close() {
	if m == nil {
		return
	}
	Zero(m.Key)
}
