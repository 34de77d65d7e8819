package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
)

// contentKeyInfo is the HKDF info label for the content key.
const contentKeyInfo = "mediavault content-at-rest v1"

// DeriveContentKey derives the 32-byte content key from the master key with HKDF-SHA256.
func DeriveContentKey(masterKey []byte) ([]byte, error) {
	if len(masterKey) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, []byte(contentKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive content key: %w", err)
	}
	return key, nil
}
