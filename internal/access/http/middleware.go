package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	accessUseCase "github.com/allisson/mediavault/internal/access/usecase"
	apperrors "github.com/allisson/mediavault/internal/errors"
	"github.com/allisson/mediavault/internal/httputil"
)

// AccessKeyHeader carries the shared access secret on management routes.
const AccessKeyHeader = "X-Access-Key"

// TokenQueryParam carries the playback token on private routes.
const TokenQueryParam = "token"

// KeyAuthorizer decides whether a presented access secret is valid.
type KeyAuthorizer interface {
	IsAuthorized(secret string) bool
}

// AccessGateMiddleware rejects requests whose X-Access-Key header is missing or not
// in the loaded secret set with 401 Unauthorized.
//
// Usage:
//
//	router.POST("/upload", AccessGateMiddleware(keyStore, logger), handler)
func AccessGateMiddleware(authorizer KeyAuthorizer, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader(AccessKeyHeader)
		if secret == "" {
			logger.Debug("access denied: missing access key header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !authorizer.IsAuthorized(secret) {
			logger.Debug("access denied: unknown access key",
				slog.String("client_ip", c.ClientIP()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// PlaybackTokenMiddleware resolves the token query parameter and stores the playback
// token in the request context for downstream handlers (see GetPlaybackToken).
//
// Error handling:
//   - Missing or unknown token → 403 invalid_token
//   - Repository failure → 500
func PlaybackTokenMiddleware(tokenUseCase accessUseCase.TokenUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenUseCase.Resolve(c.Request.Context(), c.Query(TokenQueryParam))
		if err != nil {
			logger.Debug("playback token rejected", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPlaybackToken(c.Request.Context(), token)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
