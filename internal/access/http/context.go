// Package http provides the access gate, playback token middleware and the token and key handlers.
package http

import (
	"context"

	accessDomain "github.com/allisson/mediavault/internal/access/domain"
)

// playbackTokenKey is a context key type for storing resolved playback tokens.
type playbackTokenKey struct{}

// WithPlaybackToken stores a resolved playback token in the context.
// This is called by PlaybackTokenMiddleware after the token was resolved.
func WithPlaybackToken(ctx context.Context, token *accessDomain.PlaybackToken) context.Context {
	return context.WithValue(ctx, playbackTokenKey{}, token)
}

// GetPlaybackToken retrieves the resolved playback token from the context.
// Returns (token, true) if present, or (nil, false) if no token was set.
func GetPlaybackToken(ctx context.Context) (*accessDomain.PlaybackToken, bool) {
	token, ok := ctx.Value(playbackTokenKey{}).(*accessDomain.PlaybackToken)
	return token, ok
}
