// Package repository provides persistence for playback tokens: an in-process map and
// PostgreSQL/MySQL tables.
package repository

import (
	"context"
	"sync"

	accessDomain "github.com/allisson/mediavault/internal/access/domain"
)

// MemoryTokenRepository keeps playback tokens in a map guarded by a RWMutex.
// Tokens are lost on restart.
type MemoryTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]accessDomain.PlaybackToken
}

// Create stores a token. Returns ErrTokenAlreadyExists when the hash is already present.
func (m *MemoryTokenRepository) Create(_ context.Context, token *accessDomain.PlaybackToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[token.TokenHash]; ok {
		return accessDomain.ErrTokenAlreadyExists
	}
	m.tokens[token.TokenHash] = *token
	return nil
}

// GetByTokenHash returns the token stored under tokenHash or ErrTokenNotFound.
func (m *MemoryTokenRepository) GetByTokenHash(
	_ context.Context,
	tokenHash string,
) (*accessDomain.PlaybackToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.tokens[tokenHash]
	if !ok {
		return nil, accessDomain.ErrTokenNotFound
	}
	return &token, nil
}

// NewMemoryTokenRepository creates an empty in-memory token repository.
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: make(map[string]accessDomain.PlaybackToken)}
}
