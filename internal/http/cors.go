package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware creates a CORS middleware for browser players on other origins.
// allowOriginsStr is a comma-separated origin list; a lone "*" allows any origin
// without credentials. Returns nil if disabled or no valid origins are configured.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	if allowOriginsStr == "" {
		logger.Warn("CORS enabled but no origins configured - CORS will not be applied")
		return nil
	}

	// Parse comma-separated origins
	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins found")
		return nil
	}

	config := cors.Config{
		AllowMethods: []string{
			"GET",
			"HEAD",
			"POST",
		},
		AllowHeaders: []string{
			"Content-Type",
			"Range",
			"X-Access-Key",
		},
		ExposeHeaders: []string{
			"X-Request-Id",
			"Accept-Ranges",
			"Content-Length",
			"Content-Range",
			"Content-Disposition",
		},
		MaxAge: 12 * time.Hour,
	}

	if len(origins) == 1 && origins[0] == "*" {
		logger.Warn("CORS enabled for any origin, credentials are not allowed")
		config.AllowAllOrigins = true
		return cors.New(config)
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	config.AllowOrigins = origins
	config.AllowCredentials = true
	return cors.New(config)
}

// parseOrigins parses comma-separated origin list and trims whitespace.
// Returns empty slice if input is empty.
func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return nil
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
