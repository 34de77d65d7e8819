package keystore

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeKeysFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Success_TrimsAndSkipsBlankLines", func(t *testing.T) {
		path := writeKeysFile(t, "alpha\n  beta  \n\n\t\ngamma\r\nalpha\n")

		ks, err := Load(path, nil, testLogger())

		require.NoError(t, err)
		assert.Equal(t, 3, ks.Count())
		assert.True(t, ks.IsAuthorized("alpha"))
		assert.True(t, ks.IsAuthorized("beta"))
		assert.True(t, ks.IsAuthorized("gamma"))
	})

	t.Run("Success_MissingFileDeniesEverything", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.txt")

		ks, err := Load(path, nil, testLogger())

		require.NoError(t, err)
		assert.Equal(t, 0, ks.Count())
		assert.False(t, ks.IsAuthorized("anything"))
		assert.False(t, ks.IsAuthorized(""))
	})

	t.Run("Error_PathIsDirectory", func(t *testing.T) {
		ks, err := Load(t.TempDir(), nil, testLogger())

		assert.Nil(t, ks)
		assert.Error(t, err)
	})
}

func TestKeyStore_IsAuthorized(t *testing.T) {
	ks, err := Load(writeKeysFile(t, "s3cret\nOther-Key\n"), nil, testLogger())
	require.NoError(t, err)

	tests := []struct {
		name     string
		secret   string
		expected bool
	}{
		{"exact match", "s3cret", true},
		{"second entry", "Other-Key", true},
		{"case differs", "S3CRET", false},
		{"leading space is not normalized", " s3cret", false},
		{"prefix", "s3c", false},
		{"longer", "s3cret!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ks.IsAuthorized(tt.secret))
		})
	}
}

func TestKeyStore_Reload(t *testing.T) {
	path := writeKeysFile(t, "old-key\n")
	ks, err := Load(path, nil, testLogger())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("new-key\nsecond\n"), 0o600))
	count, err := ks.Reload()

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.False(t, ks.IsAuthorized("old-key"))
	assert.True(t, ks.IsAuthorized("new-key"))

	require.NoError(t, os.Remove(path))
	count, err = ks.Reload()

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.False(t, ks.IsAuthorized("new-key"))
}

func TestKeyStore_ConcurrentReadsDuringReload(t *testing.T) {
	path := writeKeysFile(t, "stable\n")
	ks, err := Load(path, nil, testLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.True(t, ks.IsAuthorized("stable"))
			}
		}()
	}
	for i := 0; i < 20; i++ {
		_, err := ks.Reload()
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestKeyStore_MasterKey(t *testing.T) {
	mk := &cryptoDomain.MasterKey{ID: "test", Key: []byte{1, 2, 3}}
	ks, err := Load(filepath.Join(t.TempDir(), "none"), mk, testLogger())
	require.NoError(t, err)

	assert.Same(t, mk, ks.MasterKey())

	ks.Close()
	assert.Equal(t, []byte{0, 0, 0}, mk.Key)
}
