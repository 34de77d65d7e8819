package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/mediavault/internal/access/http/dto"
	accessUseCase "github.com/allisson/mediavault/internal/access/usecase"
	"github.com/allisson/mediavault/internal/httputil"
	customValidation "github.com/allisson/mediavault/internal/validation"
)

// TokenHandler handles HTTP requests for playback token issuance.
type TokenHandler struct {
	tokenUseCase accessUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(tokenUseCase accessUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// GenerateTokenHandler issues a playback token for an existing resource.
// POST /generate-token - Requires a valid access key.
// Returns 201 Created with the plain token, 404 if the resource does not exist.
func (h *TokenHandler) GenerateTokenHandler(c *gin.Context) {
	var req dto.GenerateTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	issued, err := h.tokenUseCase.Generate(c.Request.Context(), req.VideoName)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.GenerateTokenResponse{Token: issued.Token})
}
