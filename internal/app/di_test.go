package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/mediavault/internal/config"
)

// newTestConfig returns a configuration backed by in-memory storage and token store.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	keysFile := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(keysFile, []byte("alpha\nbeta\n"), 0o600))

	return &config.Config{
		LogLevel:         "error",
		ServerHost:       "localhost",
		ServerPort:       5000,
		StorageURL:       "mem://",
		AccessKeysFile:   keysFile,
		StreamChunkSize:  4096,
		UploadWorkers:    1,
		UploadStagingDir: t.TempDir(),
		TokenStoreDriver: config.TokenStoreMemory,
		ShutdownTimeout:  time.Second,
	}
}

// TestNewContainer verifies that a new container can be created with a valid configuration.
func TestNewContainer(t *testing.T) {
	cfg := newTestConfig(t)

	container := NewContainer(cfg)

	require.NotNil(t, container)
	assert.Same(t, cfg, container.Config())
}

// TestContainerLogger verifies that the logger can be retrieved from the container.
func TestContainerLogger(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "debug"})

	logger := container.Logger()
	require.NotNil(t, logger)

	// Calling Logger() again should return the same instance (singleton)
	assert.Same(t, logger, container.Logger())
}

// TestContainerLoggerDefaultLevel verifies that logger defaults to info level.
func TestContainerLoggerDefaultLevel(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "invalid"})

	assert.NotNil(t, container.Logger())
}

// TestContainerDB_MemoryDriver verifies that no database is opened for the memory token store.
func TestContainerDB_MemoryDriver(t *testing.T) {
	container := NewContainer(&config.Config{TokenStoreDriver: config.TokenStoreMemory})

	_, err := container.DB()
	assert.Error(t, err)

	// The stored error is returned on subsequent calls
	_, err = container.DB()
	assert.Error(t, err)
}

// TestContainerTokenRepository_UnsupportedDriver verifies driver validation.
func TestContainerTokenRepository_UnsupportedDriver(t *testing.T) {
	container := NewContainer(&config.Config{TokenStoreDriver: "sqlite"})

	_, err := container.TokenRepository()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported token store driver")
}

// TestContainerKeyStore_InvalidMasterKey verifies that a wrapped key without a KMS URI fails.
func TestContainerKeyStore_InvalidMasterKey(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.MasterKey = "d3JhcHBlZA=="

	container := NewContainer(cfg)

	_, err := container.KeyStore()
	assert.Error(t, err)

	_, err = container.Codec()
	assert.Error(t, err)
}

// TestContainerMediaPipeline verifies the media and access components assemble end to end.
func TestContainerMediaPipeline(t *testing.T) {
	cfg := newTestConfig(t)
	container := NewContainer(cfg)
	defer func() {
		assert.NoError(t, container.Shutdown(context.Background()))
	}()

	keyStore, err := container.KeyStore()
	require.NoError(t, err)
	assert.True(t, keyStore.IsAuthorized("alpha"))
	assert.True(t, keyStore.MasterKey().Ephemeral)

	mediaUseCase, err := container.MediaUseCase()
	require.NoError(t, err)

	// Same instance on repeated access
	again, err := container.MediaUseCase()
	require.NoError(t, err)
	assert.Same(t, mediaUseCase, again)

	count, err := mediaUseCase.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	tokenUseCase, err := container.TokenUseCase()
	require.NoError(t, err)
	assert.NotNil(t, tokenUseCase)

	server, err := container.HTTPServer()
	require.NoError(t, err)
	assert.NotNil(t, server.Handler())
}

// TestContainerMetricsServer_Disabled verifies the metrics server is unavailable when metrics are off.
func TestContainerMetricsServer_Disabled(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.MetricsEnabled = false
	container := NewContainer(cfg)

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	_, err = container.MetricsServer()
	assert.Error(t, err)
}

// TestContainerLazyInitialization verifies that components are only initialized when accessed.
func TestContainerLazyInitialization(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "info"})

	// At this point, no components should be initialized
	assert.Nil(t, container.logger)
	assert.Nil(t, container.keyStore)
	assert.Nil(t, container.bucket)

	// Access logger
	require.NotNil(t, container.Logger())

	// Now logger should be initialized
	assert.NotNil(t, container.logger)
	assert.Nil(t, container.keyStore)
}

// TestContainerShutdown verifies that the shutdown method can be called safely.
func TestContainerShutdown(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "info"})

	// Shutdown should not fail even if no components are initialized
	assert.NoError(t, container.Shutdown(context.TODO()))
}

// TestContainerWithVersion verifies the version option is applied.
func TestContainerWithVersion(t *testing.T) {
	assert.Equal(t, "dev", NewContainer(&config.Config{}).version)
	assert.Equal(t, "1.4.0", NewContainer(&config.Config{}, WithVersion("1.4.0")).version)
}
