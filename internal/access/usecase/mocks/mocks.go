// Package mocks provides mock implementations of the access use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/mediavault/internal/access/domain"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase.
type MockTokenUseCase struct {
	mock.Mock
}

// Generate mocks the Generate method.
func (m *MockTokenUseCase) Generate(ctx context.Context, resourceName string) (*accessDomain.IssuedToken, error) {
	args := m.Called(ctx, resourceName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.IssuedToken), args.Error(1)
}

// Resolve mocks the Resolve method.
func (m *MockTokenUseCase) Resolve(ctx context.Context, plainToken string) (*accessDomain.PlaybackToken, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.PlaybackToken), args.Error(1)
}

// MockTokenRepository is a mock implementation of TokenRepository.
type MockTokenRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockTokenRepository) Create(ctx context.Context, token *accessDomain.PlaybackToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// GetByTokenHash mocks the GetByTokenHash method.
func (m *MockTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*accessDomain.PlaybackToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.PlaybackToken), args.Error(1)
}

// MockResourceFinder is a mock implementation of ResourceFinder.
type MockResourceFinder struct {
	mock.Mock
}

// Get mocks the Get method.
func (m *MockResourceFinder) Get(ctx context.Context, name string) (*mediaDomain.Resource, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaDomain.Resource), args.Error(1)
}

// MockTokenService is a mock implementation of TokenService.
type MockTokenService struct {
	mock.Mock
}

// GenerateToken mocks the GenerateToken method.
func (m *MockTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// HashToken mocks the HashToken method.
func (m *MockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}
