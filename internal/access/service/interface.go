// Package service provides token generation for playback access.
package service

// TokenService generates and hashes opaque playback tokens.
type TokenService interface {
	// GenerateToken returns a fresh random token and its hash.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken returns the storage hash of a plain token.
	HashToken(plainToken string) string
}
