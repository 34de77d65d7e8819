// Package usecase implements playback token issuance and resolution.
package usecase

import (
	"context"

	accessDomain "github.com/allisson/mediavault/internal/access/domain"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
)

// TokenRepository defines the interface for playback token persistence.
type TokenRepository interface {
	// Create stores a token. Returns ErrTokenAlreadyExists on a duplicate hash.
	Create(ctx context.Context, token *accessDomain.PlaybackToken) error

	// GetByTokenHash returns the token stored under tokenHash or ErrTokenNotFound.
	GetByTokenHash(ctx context.Context, tokenHash string) (*accessDomain.PlaybackToken, error)
}

// ResourceFinder looks up stored resources by name.
type ResourceFinder interface {
	Get(ctx context.Context, name string) (*mediaDomain.Resource, error)
}

// TokenUseCase defines the interface for playback token business logic.
type TokenUseCase interface {
	// Generate issues a token for an existing resource. The plain token is only
	// available in the returned value.
	Generate(ctx context.Context, resourceName string) (*accessDomain.IssuedToken, error)

	// Resolve maps a plain token back to its playback token. Unknown tokens return
	// an error wrapping ErrInvalidToken.
	Resolve(ctx context.Context, plainToken string) (*accessDomain.PlaybackToken, error)
}
