// Package mocks provides mock implementations for testing access HTTP handlers.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockKeyManager is a mock implementation of KeyManager.
type MockKeyManager struct {
	mock.Mock
}

// IsAuthorized mocks the IsAuthorized method.
func (m *MockKeyManager) IsAuthorized(secret string) bool {
	args := m.Called(secret)
	return args.Bool(0)
}

// Reload mocks the Reload method.
func (m *MockKeyManager) Reload() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}
