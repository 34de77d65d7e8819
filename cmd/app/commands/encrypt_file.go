package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
	mediaUseCase "github.com/allisson/mediavault/internal/media/usecase"
)

// EncryptFileOptions configures an offline ingest.
type EncryptFileOptions struct {
	// InputPath is the plaintext file to ingest. It is never modified.
	InputPath string
	// Name is the target resource name; empty means the base name of InputPath.
	Name string
	// StagingDir receives the working copy handed to the encryption queue.
	StagingDir string
	// Ephemeral reports whether the process runs with an ephemeral master key.
	Ephemeral bool
}

// RunEncryptFile encrypts a local file into storage through the same queue used
// by uploads and waits for the result.
//
// A persisted master key is required: a resource encrypted under an ephemeral
// key could never be read by the server.
func RunEncryptFile(
	ctx context.Context,
	useCase mediaUseCase.MediaUseCase,
	logger *slog.Logger,
	writer io.Writer,
	opts EncryptFileOptions,
) error {
	if opts.Ephemeral {
		return errors.New("MASTER_KEY and KMS_KEY_URI are required to encrypt files offline")
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(opts.InputPath)
	}

	stagingPath, err := stageFile(opts.InputPath, opts.StagingDir)
	if err != nil {
		return err
	}

	job, err := useCase.Upload(ctx, name, stagingPath)
	if err != nil {
		_ = os.Remove(stagingPath)
		return fmt.Errorf("failed to queue %s: %w", name, err)
	}

	job, err = useCase.WaitUploadJob(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to wait for %s: %w", name, err)
	}
	if job.Status == mediaDomain.JobFailed {
		return fmt.Errorf("failed to encrypt %s: %s", name, job.Error)
	}

	logger.Info("file encrypted",
		slog.String("input", opts.InputPath),
		slog.String("name", name),
		slog.String("job_id", job.ID.String()),
	)
	_, _ = fmt.Fprintf(writer, "Encrypted %s as %s\n", opts.InputPath, name)
	return nil
}

// stageFile copies inputPath into stagingDir, since the queue removes its input
// once a job finishes.
func stageFile(inputPath, stagingDir string) (string, error) {
	src, err := os.Open(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	dst, err := os.CreateTemp(stagingDir, "ingest-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to stage input file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to stage input file: %w", err)
	}
	return dst.Name(), nil
}
