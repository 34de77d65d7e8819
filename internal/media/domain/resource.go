// Package domain defines the core domain models and types for encrypted media.
// A resource is stored as [16-byte IV][AES-256-CBC ciphertext] and is only ever
// decrypted in memory, one window at a time.
package domain

import (
	"time"

	"github.com/allisson/mediavault/internal/validation"
)

// Resource describes one encrypted media file in storage.
type Resource struct {
	// Name is the single-segment storage key (e.g., "clip.mp4").
	Name string
	// Size is the stored length in bytes, IV included.
	Size int64
	// CreatedAt is the UTC timestamp when the resource was written.
	CreatedAt time.Time
}

// ValidateName returns ErrInvalidResourceName unless name is a safe single path segment.
func ValidateName(name string) error {
	if !validation.IsResourceName(name) {
		return ErrInvalidResourceName
	}
	return nil
}
