// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessHTTP "github.com/allisson/mediavault/internal/access/http"
	accessUseCase "github.com/allisson/mediavault/internal/access/usecase"
	"github.com/allisson/mediavault/internal/config"
	mediaHTTP "github.com/allisson/mediavault/internal/media/http"
	"github.com/allisson/mediavault/internal/metrics"
)

// downloadAliasPrefix is the public download path. Gin reads ':' as a parameter
// marker, so requests are rewritten to downloadPrefix before routing.
const (
	downloadAliasPrefix = "/video:download/"
	downloadPrefix      = "/download/"
)

// StorageChecker reports whether the storage backend is reachable.
type StorageChecker interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server.
type Server struct {
	db      *sql.DB
	storage StorageChecker
	server  *http.Server
	router  *gin.Engine
	logger  *slog.Logger
}

// ServerOption configures optional Server settings.
type ServerOption func(*Server)

// WithStorageChecker adds the storage backend to readiness checks.
func WithStorageChecker(storage StorageChecker) ServerOption {
	return func(s *Server) {
		s.storage = storage
	}
}

// WithTimeouts overrides the read and write timeouts. A zero write timeout
// leaves long-running streams unbounded.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) {
		s.server.ReadTimeout = read
		s.server.WriteTimeout = write
	}
}

// NewServer creates a new HTTP server. The database is optional and only
// checked for readiness when non-nil.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RouterDependencies groups the handlers and middleware inputs served by the router.
type RouterDependencies struct {
	MediaHandler    *mediaHTTP.MediaHandler
	TokenHandler    *accessHTTP.TokenHandler
	KeyHandler      *accessHTTP.KeyHandler
	Keys            accessHTTP.KeyAuthorizer
	TokenUseCase    accessUseCase.TokenUseCase
	MetricsProvider *metrics.Provider
}

// SetupRouter registers every route and middleware on a new gin engine.
// ctx bounds background goroutines started by middlewares.
func (s *Server) SetupRouter(ctx context.Context, cfg *config.Config, deps RouterDependencies) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", s.readinessHandler)

	rateLimit := func(c *gin.Context) { c.Next() }
	if cfg.RateLimitEnabled {
		rateLimit = accessHTTP.IPRateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger)
	}

	// Public playback
	router.GET("/video/:name", deps.MediaHandler.StreamHandler)
	router.HEAD("/video/:name", deps.MediaHandler.StreamHandler)
	router.GET(downloadPrefix+":name", deps.MediaHandler.DownloadHandler)

	router.POST("/check_key", rateLimit, deps.KeyHandler.CheckKeyHandler)

	// Token-scoped playback
	private := router.Group("/private-video")
	private.Use(accessHTTP.PlaybackTokenMiddleware(deps.TokenUseCase, s.logger))
	{
		private.GET("", deps.MediaHandler.PrivateVideoHandler)
		private.GET("/stream", deps.MediaHandler.PrivateStreamHandler)
		private.HEAD("/stream", deps.MediaHandler.PrivateStreamHandler)
	}

	// Privileged operations
	gated := router.Group("")
	gated.Use(accessHTTP.AccessGateMiddleware(deps.Keys, s.logger))
	{
		gated.GET("/videos", deps.MediaHandler.ListHandler)
		gated.GET("/videos/count", deps.MediaHandler.CountHandler)
		gated.POST("/generate-token", rateLimit, deps.TokenHandler.GenerateTokenHandler)
		gated.POST("/upload", deps.MediaHandler.UploadHandler)
		gated.GET("/upload-jobs/:id", deps.MediaHandler.UploadJobHandler)
		gated.POST("/delete-video", deps.MediaHandler.DeleteHandler)
		gated.POST("/rename-video", deps.MediaHandler.RenameHandler)
		gated.POST("/admin/reload-keys", deps.KeyHandler.ReloadKeysHandler)
	}

	s.router = router
}

// Handler returns the root handler, including the download alias rewrite.
func (s *Server) Handler() http.Handler {
	return rewriteDownloadAlias(s.router)
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.Handler()

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start http server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether every configured dependency is reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{}
	ready := true

	if s.storage != nil {
		if err := s.storage.Ping(ctx); err != nil {
			s.logger.Warn("storage readiness check failed", slog.Any("error", err))
			components["storage"] = "error"
			ready = false
		} else {
			components["storage"] = "ok"
		}
	} else {
		components["storage"] = "error"
		ready = false
	}

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("database readiness check failed", slog.Any("error", err))
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

// rewriteDownloadAlias maps /video:download/<name> onto the /download/<name> route.
func rewriteDownloadAlias(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, downloadAliasPrefix) {
			u := *r.URL
			u.Path = downloadPrefix + strings.TrimPrefix(r.URL.Path, downloadAliasPrefix)
			u.RawPath = ""
			r2 := r.WithContext(r.Context())
			r2.URL = &u
			r = r2
		}
		next.ServeHTTP(w, r)
	})
}
