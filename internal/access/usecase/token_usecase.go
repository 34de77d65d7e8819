package usecase

import (
	"context"
	"time"

	accessDomain "github.com/allisson/mediavault/internal/access/domain"
	accessService "github.com/allisson/mediavault/internal/access/service"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	resources    ResourceFinder
	tokenRepo    TokenRepository
	tokenService accessService.TokenService
}

// Generate checks that the resource exists, creates a random token and stores its hash.
// Returns the resource lookup error (ErrResourceNotFound, ErrInvalidResourceName) unchanged.
func (t *tokenUseCase) Generate(ctx context.Context, resourceName string) (*accessDomain.IssuedToken, error) {
	resource, err := t.resources.Get(ctx, resourceName)
	if err != nil {
		return nil, err
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	token := &accessDomain.PlaybackToken{
		TokenHash:    tokenHash,
		ResourceName: resource.Name,
		CreatedAt:    time.Now().UTC(),
	}
	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &accessDomain.IssuedToken{
		Token:        plainToken,
		ResourceName: token.ResourceName,
		CreatedAt:    token.CreatedAt,
	}, nil
}

// Resolve hashes the presented token and loads the matching playback token.
func (t *tokenUseCase) Resolve(ctx context.Context, plainToken string) (*accessDomain.PlaybackToken, error) {
	if plainToken == "" {
		return nil, accessDomain.ErrMissingToken
	}
	return t.tokenRepo.GetByTokenHash(ctx, t.tokenService.HashToken(plainToken))
}

// NewTokenUseCase creates a new TokenUseCase.
func NewTokenUseCase(
	resources ResourceFinder,
	tokenRepo TokenRepository,
	tokenService accessService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		resources:    resources,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
	}
}
