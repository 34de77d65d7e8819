package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/mediavault/internal/errors"
	"github.com/allisson/mediavault/internal/httputil"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
	"github.com/allisson/mediavault/internal/media/http/dto"
)

const (
	uploadFileField  = "file"
	uploadTitleField = "title"

	// maxTitleBytes bounds the title form field.
	maxTitleBytes = 1024
)

var (
	errMissingFile     = errors.New("no file part")
	errEmptyFilename   = errors.New("no selected file")
	errPayloadTooLarge = errors.New("upload exceeds the maximum allowed size")
)

// stagedUpload is a multipart upload written to a local staging file.
type stagedUpload struct {
	path     string
	filename string
	title    string
}

// UploadHandler receives a multipart upload and encrypts it into storage.
// POST /upload - Requires a valid access key.
//
// Form fields: "file" (required) and "title" (optional). The stored name is the title
// plus the original extension when a title is given, otherwise the uploaded filename.
//
// Returns 200 {success, filename} once encrypted, or 202 {success, filename, job_id}
// when uploads are asynchronous. 409 if the name is taken, 413 if the body is too large.
func (h *MediaHandler) UploadHandler(c *gin.Context) {
	if h.upload.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.upload.MaxBytes)
	}

	staged, err := h.stageUpload(c.Request)
	if err != nil {
		switch {
		case errors.Is(err, errPayloadTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, httputil.ErrorResponse{
				Error:   "payload_too_large",
				Message: err.Error(),
			})
		case errors.Is(err, errMissingFile), errors.Is(err, errEmptyFilename):
			httputil.HandleBadRequestGin(c, err, h.logger)
		default:
			httputil.HandleErrorGin(c, err, h.logger)
		}
		return
	}

	name := uploadName(staged.filename, staged.title)
	ctx := c.Request.Context()

	job, err := h.mediaUseCase.Upload(ctx, name, staged.path)
	if err != nil {
		h.removeStaging(staged.path)
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if h.upload.Async {
		c.JSON(http.StatusAccepted, dto.UploadResponse{
			Success:  true,
			Filename: name,
			JobID:    job.ID.String(),
		})
		return
	}

	job, err = h.mediaUseCase.WaitUploadJob(ctx, job.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if job.Status != mediaDomain.JobCompleted {
		cause := job.Err
		if cause == nil {
			cause = apperrors.Wrap(apperrors.ErrStorage, job.Error)
		}
		httputil.HandleErrorGin(c, cause, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{Success: true, Filename: name})
}

// stageUpload streams the multipart body into a staging file without buffering the
// file part in memory.
func (h *MediaHandler) stageUpload(r *http.Request) (*stagedUpload, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errMissingFile, err)
	}

	staged := &stagedUpload{}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.discardStaged(staged)
			return nil, classifyBodyError(err)
		}

		switch part.FormName() {
		case uploadTitleField:
			title, err := io.ReadAll(io.LimitReader(part, maxTitleBytes))
			if err != nil {
				h.discardStaged(staged)
				return nil, classifyBodyError(err)
			}
			staged.title = strings.TrimSpace(string(title))
		case uploadFileField:
			if staged.path != "" {
				continue
			}
			if err := h.stageFilePart(part, staged); err != nil {
				h.discardStaged(staged)
				return nil, err
			}
		}
		_ = part.Close()
	}

	if staged.path == "" {
		return nil, errMissingFile
	}
	return staged, nil
}

func (h *MediaHandler) stageFilePart(part *multipart.Part, staged *stagedUpload) error {
	filename := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(part.FileName(), "\\", "/")))
	if filename == "" || filename == "/" || filename == "." {
		return errEmptyFilename
	}

	dst, err := os.CreateTemp(h.upload.StagingDir, "upload-*")
	if err != nil {
		return apperrors.Wrap(err, "failed to create staging file")
	}
	staged.path = dst.Name()
	staged.filename = filename

	if _, err := io.Copy(dst, part); err != nil {
		_ = dst.Close()
		return classifyBodyError(err)
	}
	if err := dst.Close(); err != nil {
		return apperrors.Wrap(err, "failed to write staging file")
	}
	return nil
}

func (h *MediaHandler) discardStaged(staged *stagedUpload) {
	if staged.path != "" {
		h.removeStaging(staged.path)
	}
}

func (h *MediaHandler) removeStaging(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.logger.Warn("failed to remove staged upload", slog.String("path", path), slog.Any("error", err))
	}
}

// classifyBodyError maps request body read failures to upload errors.
func classifyBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errPayloadTooLarge
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, "failed to read upload: "+err.Error())
}

// uploadName derives the stored name from the uploaded filename and optional title.
func uploadName(filename, title string) string {
	if title == "" {
		return filename
	}
	return title + filepath.Ext(filename)
}
