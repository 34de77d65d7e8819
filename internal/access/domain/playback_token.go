// Package domain defines the core domain models for playback access.
// A playback token grants anonymous read access to exactly one stored resource.
package domain

import "time"

// PlaybackToken binds an opaque bearer token to one resource. Only the SHA-256 hash of the
// token is persisted; the plain value is returned once, at issuance.
//
// Tokens never expire.
type PlaybackToken struct {
	TokenHash    string
	ResourceName string
	CreatedAt    time.Time
}

// IssuedToken is the result of generating a playback token. Token holds the plain value
// and must be handed to the caller as is, it cannot be recovered later.
type IssuedToken struct {
	Token        string
	ResourceName string
	CreatedAt    time.Time
}
