package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/mediavault/internal/httputil"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
	mediaUseCase "github.com/allisson/mediavault/internal/media/usecase"
)

// defaultContentType is served when the resource extension has no known MIME type.
const defaultContentType = "video/mp4"

// mediaContentTypes covers container formats missing from Go's builtin MIME table.
var mediaContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".ts":   "video/mp2t",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
}

// StreamHandler serves range-aware playback of a resource.
// GET, HEAD /video/:name - No authentication required.
//
// Responses:
//   - 200 with the whole plaintext when no Range header is sent
//   - 206 with Content-Range for a satisfiable bytes=<start>-<end?> range
//   - 416 with Content-Range: bytes */<length> otherwise
func (h *MediaHandler) StreamHandler(c *gin.Context) {
	h.serve(c, c.Param("name"), "")
}

// PrivateStreamHandler serves range-aware playback of the resource bound to the
// playback token. GET, HEAD /private-video/stream?token= - Requires PlaybackTokenMiddleware.
func (h *MediaHandler) PrivateStreamHandler(c *gin.Context) {
	name, ok := h.tokenResource(c)
	if !ok {
		return
	}
	h.serve(c, name, "")
}

// DownloadHandler serves the whole decrypted resource as an attachment.
// GET /video:download/:name - No authentication required. Range headers are honored
// so interrupted downloads can resume.
func (h *MediaHandler) DownloadHandler(c *gin.Context) {
	name := c.Param("name")
	h.serve(c, name, mime.FormatMediaType("attachment", map[string]string{"filename": name}))
}

func (h *MediaHandler) serve(c *gin.Context, name, disposition string) {
	ctx := c.Request.Context()
	rangeHeader := c.GetHeader("Range")

	if c.Request.Method == http.MethodHead {
		playback, err := h.mediaUseCase.Describe(ctx, name, rangeHeader)
		if err != nil {
			h.handlePlaybackError(c, err)
			return
		}
		h.writeHeaders(c, playback, disposition)
		c.Writer.WriteHeaderNow()
		return
	}

	playback, err := h.mediaUseCase.Open(ctx, name, rangeHeader)
	if err != nil {
		h.handlePlaybackError(c, err)
		return
	}
	defer func() {
		if closeErr := playback.Body.Close(); closeErr != nil {
			h.logger.Warn("failed to close playback body",
				slog.String("name", name),
				slog.Any("error", closeErr))
		}
	}()

	h.writeHeaders(c, playback, disposition)
	c.Writer.WriteHeaderNow()

	h.streamMetrics.StreamStarted(ctx, playback.Partial)
	written, err := io.Copy(c.Writer, playback.Body)
	status := "success"
	if err != nil {
		// Headers are already sent, so the client sees a truncated body.
		status = "aborted"
		h.logger.Warn("playback stream interrupted",
			slog.String("name", name),
			slog.Int64("written", written),
			slog.Int64("expected", playback.Range.Length()),
			slog.Any("error", err))
	}
	h.streamMetrics.StreamFinished(ctx, playback.Partial, written, status)
}

func (h *MediaHandler) writeHeaders(c *gin.Context, playback *mediaUseCase.Playback, disposition string) {
	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Type", contentType(playback.Resource.Name))
	c.Header("Content-Length", strconv.FormatInt(playback.Range.Length(), 10))
	if disposition != "" {
		c.Header("Content-Disposition", disposition)
	}

	if playback.Partial {
		c.Header("Content-Range", playback.Range.ContentRange(playback.Length))
		c.Status(http.StatusPartialContent)
		return
	}
	c.Status(http.StatusOK)
}

func (h *MediaHandler) handlePlaybackError(c *gin.Context, err error) {
	var rangeErr *mediaDomain.RangeError
	if errors.As(err, &rangeErr) {
		c.Header("Accept-Ranges", "bytes")
		c.Header("Content-Range", mediaDomain.UnsatisfiedContentRange(rangeErr.Length))
	}
	httputil.HandleErrorGin(c, err, h.logger)
}

func contentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := mediaContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return defaultContentType
}
