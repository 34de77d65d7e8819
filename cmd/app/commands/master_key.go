package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
	cryptoService "github.com/allisson/mediavault/internal/crypto/service"
)

// RunCreateMasterKey generates a 32-byte master key, wraps it with the KMS key at
// kmsKeyURI, and writes the environment variables that load it. The plaintext key
// is zeroed before returning.
//
// For local development use kmsKeyURI="base64key://<32-byte-base64-key>"; production
// deployments should use a cloud KMS or hashivault://.
//
// Output format:
//   - MASTER_KEY="<base64-encoded-kms-ciphertext>"
//   - KMS_KEY_URI="<uri>"
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	if kmsKeyURI == "" {
		return fmt.Errorf(
			"--kms-key-uri is required\n\nFor local development, use:\n  " +
				"--kms-key-uri=\"base64key://<32-byte-base64-key>\"",
		)
	}

	masterKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	encodedKey, err := cryptoDomain.WrapMasterKey(ctx, keeper, masterKey)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "# Master Key Configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "MASTER_KEY=\"%s\"\n", encodedKey)

	logger.Info("master key created")
	return nil
}
