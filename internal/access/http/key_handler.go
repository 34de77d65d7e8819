package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/mediavault/internal/access/http/dto"
	"github.com/allisson/mediavault/internal/httputil"
)

// KeyManager checks and reloads the access secret set.
type KeyManager interface {
	KeyAuthorizer
	Reload() (int, error)
}

// KeyHandler handles HTTP requests for access secret checks and reloads.
type KeyHandler struct {
	keys   KeyManager
	logger *slog.Logger
}

// NewKeyHandler creates a new key handler with required dependencies.
func NewKeyHandler(keys KeyManager, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		keys:   keys,
		logger: logger,
	}
}

// CheckKeyHandler reports whether the posted key is a valid access secret.
// POST /check_key - No authentication required, rate limited per IP.
// Returns 200 {"access":"granted"} or 403 {"access":"denied"}.
func (h *KeyHandler) CheckKeyHandler(c *gin.Context) {
	var req dto.CheckKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if !h.keys.IsAuthorized(req.Key) {
		c.JSON(http.StatusForbidden, dto.CheckKeyResponse{Access: dto.AccessDenied})
		return
	}

	c.JSON(http.StatusOK, dto.CheckKeyResponse{Access: dto.AccessGranted})
}

// ReloadKeysHandler re-reads the access secret file.
// POST /admin/reload-keys - Requires a valid access key.
// Returns 200 with the number of secrets now loaded.
func (h *KeyHandler) ReloadKeysHandler(c *gin.Context) {
	count, err := h.keys.Reload()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("access keys reloaded", slog.Int("count", count))
	c.JSON(http.StatusOK, dto.ReloadKeysResponse{Success: true, Count: count})
}
