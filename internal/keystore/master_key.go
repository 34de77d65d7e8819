package keystore

import (
	"context"
	"log/slog"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
	cryptoService "github.com/allisson/mediavault/internal/crypto/service"
)

// OpenMasterKey returns the configured master key.
//
// With encodedKey empty a fresh ephemeral key is generated and a warning is
// logged: anything encrypted under it is unreadable after the process exits.
// Otherwise encodedKey is unwrapped with the KMS key at kmsKeyURI.
func OpenMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	encodedKey, kmsKeyURI string,
	logger *slog.Logger,
) (*cryptoDomain.MasterKey, error) {
	if encodedKey == "" {
		logger.Warn("MASTER_KEY not set, using an ephemeral master key; " +
			"resources uploaded by this process cannot be decrypted after restart")
		return cryptoDomain.NewEphemeralMasterKey()
	}

	if kmsKeyURI == "" {
		return nil, cryptoDomain.ErrKMSKeyURINotSet
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	masterKey, err := cryptoDomain.LoadMasterKey(ctx, keeper, encodedKey)
	if err != nil {
		return nil, err
	}

	logger.Info("master key loaded from KMS")
	return masterKey, nil
}
