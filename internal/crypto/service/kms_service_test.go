package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, keeper.Close())
		}()

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok, "keeper should be *secrets.Keeper")
	})

	tests := []struct {
		name   string
		keyURI string
	}{
		{name: "Error_UnknownScheme", keyURI: "invalid://uri"},
		{name: "Error_EmptyURI", keyURI: ""},
		{name: "Error_NoScheme", keyURI: "base64key"},
		{name: "Error_FileScheme", keyURI: "file:///etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keeper, err := kmsService.OpenKeeper(ctx, tt.keyURI)
			assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedKMSScheme)
			assert.Nil(t, keeper)
		})
	}

	t.Run("Error_MalformedLocalKey", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "base64key://not-valid-base64!")
		require.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}

func TestKMSService_MasterKeyRoundTrip(t *testing.T) {
	ctx := context.Background()
	keyURI := generateLocalSecretsURI(t)

	keeper, err := NewKMSService().OpenKeeper(ctx, keyURI)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	raw := make([]byte, cryptoDomain.KeySize)
	_, err = rand.Read(raw)
	require.NoError(t, err)

	encoded, err := cryptoDomain.WrapMasterKey(ctx, keeper, raw)
	require.NoError(t, err)

	masterKey, err := cryptoDomain.LoadMasterKey(ctx, keeper, encoded)
	require.NoError(t, err)
	defer masterKey.Close()

	assert.Equal(t, raw, masterKey.Key)
	assert.False(t, masterKey.Ephemeral)
}

func TestKMSService_DecryptInvalidCiphertext(t *testing.T) {
	ctx := context.Background()

	keeper, err := NewKMSService().OpenKeeper(ctx, generateLocalSecretsURI(t))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	decrypted, err := keeper.Decrypt(ctx, []byte("not a valid ciphertext"))
	assert.Error(t, err)
	assert.Nil(t, decrypted)
}

func TestKMSService_WrongKeeperCannotUnwrap(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	keeper1, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper1.Close())
	}()

	keeper2, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper2.Close())
	}()

	encoded, err := cryptoDomain.WrapMasterKey(ctx, keeper1, make([]byte, cryptoDomain.KeySize))
	require.NoError(t, err)

	masterKey, err := cryptoDomain.LoadMasterKey(ctx, keeper2, encoded)
	assert.Error(t, err)
	assert.Nil(t, masterKey)
}
