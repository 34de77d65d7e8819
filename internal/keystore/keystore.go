// Package keystore holds the process-wide access secrets and master key.
//
// Access secrets are read from a line-delimited file: one secret per line,
// surrounding whitespace trimmed, blank lines ignored. A missing file yields an
// empty set, which authorizes nobody.
package keystore

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
)

// KeyStore is the set of accepted access secrets plus the master key.
//
// It is safe for concurrent use; Reload swaps the secret set atomically.
type KeyStore struct {
	path      string
	masterKey *cryptoDomain.MasterKey
	logger    *slog.Logger

	mu      sync.RWMutex
	secrets []string
}

// Load reads the secrets file at path and returns a ready KeyStore.
func Load(path string, masterKey *cryptoDomain.MasterKey, logger *slog.Logger) (*KeyStore, error) {
	ks := &KeyStore{
		path:      path,
		masterKey: masterKey,
		logger:    logger,
	}
	if _, err := ks.Reload(); err != nil {
		return nil, err
	}
	return ks, nil
}

// IsAuthorized reports whether secret exactly matches a loaded secret.
// The empty string is never authorized.
func (k *KeyStore) IsAuthorized(secret string) bool {
	if secret == "" {
		return false
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	// Compare against every entry so timing does not reveal which one matched.
	authorized := 0
	for _, s := range k.secrets {
		authorized |= subtle.ConstantTimeCompare([]byte(s), []byte(secret))
	}
	return authorized == 1
}

// Reload re-reads the secrets file and replaces the current set. It returns the
// number of secrets loaded.
func (k *KeyStore) Reload() (int, error) {
	secrets, err := readSecrets(k.path)
	if errors.Is(err, fs.ErrNotExist) {
		k.logger.Warn("access keys file not found, all privileged requests will be denied",
			slog.String("path", k.path),
		)
		secrets = nil
	} else if err != nil {
		return 0, fmt.Errorf("failed to load access keys: %w", err)
	}

	k.mu.Lock()
	k.secrets = secrets
	k.mu.Unlock()

	k.logger.Info("access keys loaded", slog.Int("count", len(secrets)))
	return len(secrets), nil
}

// Count returns the number of loaded secrets.
func (k *KeyStore) Count() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.secrets)
}

// MasterKey returns the master key the content key is derived from.
func (k *KeyStore) MasterKey() *cryptoDomain.MasterKey {
	return k.masterKey
}

// Close zeroes the master key.
func (k *KeyStore) Close() {
	k.masterKey.Close()
}

func readSecrets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	seen := make(map[string]struct{})
	secrets := make([]string, 0)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		secrets = append(secrets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return secrets, nil
}
