// Package http provides HTTP handlers for listing, streaming, uploading and managing
// encrypted media resources.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessHTTP "github.com/allisson/mediavault/internal/access/http"
	apperrors "github.com/allisson/mediavault/internal/errors"
	"github.com/allisson/mediavault/internal/httputil"
	"github.com/allisson/mediavault/internal/media/http/dto"
	mediaUseCase "github.com/allisson/mediavault/internal/media/usecase"
	"github.com/allisson/mediavault/internal/metrics"
	customValidation "github.com/allisson/mediavault/internal/validation"
)

// UploadOptions configures how uploads are received.
type UploadOptions struct {
	// MaxBytes bounds the request body size.
	MaxBytes int64
	// StagingDir holds plaintext uploads until they are encrypted. Empty means os.TempDir().
	StagingDir string
	// Async answers 202 with a job id instead of waiting for encryption.
	Async bool
}

// MediaHandler handles HTTP requests for media operations.
type MediaHandler struct {
	mediaUseCase  mediaUseCase.MediaUseCase
	streamMetrics metrics.StreamMetrics
	upload        UploadOptions
	logger        *slog.Logger
}

// NewMediaHandler creates a new media handler with required dependencies.
func NewMediaHandler(
	mediaUseCase mediaUseCase.MediaUseCase,
	streamMetrics metrics.StreamMetrics,
	upload UploadOptions,
	logger *slog.Logger,
) *MediaHandler {
	return &MediaHandler{
		mediaUseCase:  mediaUseCase,
		streamMetrics: streamMetrics,
		upload:        upload,
		logger:        logger,
	}
}

// ListHandler lists resources newest first.
// GET /videos?offset=0&limit=10&query= - Requires a valid access key.
func (h *MediaHandler) ListHandler(c *gin.Context) {
	q, err := httputil.ParseListQuery(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	resources, err := h.mediaUseCase.List(c.Request.Context(), q.Offset, q.Limit, q.Query)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResourcesToResponse(resources))
}

// CountHandler counts resources matching the optional query.
// GET /videos/count?query= - Requires a valid access key.
func (h *MediaHandler) CountHandler(c *gin.Context) {
	count, err := h.mediaUseCase.Count(c.Request.Context(), strings.TrimSpace(c.Query("query")))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// PrivateVideoHandler returns the metadata of the resource bound to the playback token.
// GET /private-video?token= - Requires PlaybackTokenMiddleware.
func (h *MediaHandler) PrivateVideoHandler(c *gin.Context) {
	name, ok := h.tokenResource(c)
	if !ok {
		return
	}

	res, err := h.mediaUseCase.Get(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResourceToResponse(res))
}

// DeleteHandler removes a resource.
// POST /delete-video - Requires a valid access key.
func (h *MediaHandler) DeleteHandler(c *gin.Context) {
	var req dto.DeleteVideoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.mediaUseCase.Delete(c.Request.Context(), req.VideoName); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("resource deleted", slog.String("name", req.VideoName))
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// RenameHandler moves a resource to a new name.
// POST /rename-video - Requires a valid access key.
// Returns 404 if old_name does not exist and 409 if new_name is taken.
func (h *MediaHandler) RenameHandler(c *gin.Context) {
	var req dto.RenameVideoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.mediaUseCase.Rename(c.Request.Context(), req.OldName, req.NewName); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("resource renamed",
		slog.String("old_name", req.OldName),
		slog.String("new_name", req.NewName),
	)
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// UploadJobHandler reports the state of an upload job.
// GET /upload-jobs/:id - Requires a valid access key.
func (h *MediaHandler) UploadJobHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid job id"), h.logger)
		return
	}

	job, err := h.mediaUseCase.GetUploadJob(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUploadJobToResponse(job))
}

// tokenResource returns the resource name bound to the resolved playback token.
// It writes a 403 response when the token middleware did not run.
func (h *MediaHandler) tokenResource(c *gin.Context) (string, bool) {
	token, ok := accessHTTP.GetPlaybackToken(c.Request.Context())
	if !ok || token == nil {
		httputil.HandleErrorGin(c, apperrors.ErrInvalidToken, h.logger)
		return "", false
	}
	return token.ResourceName, true
}
