package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/mediavault/internal/access/domain"
	accessHTTP "github.com/allisson/mediavault/internal/access/http"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
	mediaUseCase "github.com/allisson/mediavault/internal/media/usecase"
	usecaseMocks "github.com/allisson/mediavault/internal/media/usecase/mocks"
)

// mockStreamMetrics is a local mock for metrics.StreamMetrics.
type mockStreamMetrics struct {
	mock.Mock
}

func (m *mockStreamMetrics) StreamStarted(ctx context.Context, partial bool) {
	m.Called(ctx, partial)
}

func (m *mockStreamMetrics) StreamFinished(ctx context.Context, partial bool, bytes int64, status string) {
	m.Called(ctx, partial, bytes, status)
}

func setupStreamRouter(t *testing.T) (*gin.Engine, *usecaseMocks.MockMediaUseCase, *mockStreamMetrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockUseCase := &usecaseMocks.MockMediaUseCase{}
	streamMetrics := &mockStreamMetrics{}
	handler := NewMediaHandler(mockUseCase, streamMetrics, UploadOptions{}, testLogger())

	router := gin.New()
	router.GET("/video/:name", handler.StreamHandler)
	router.HEAD("/video/:name", handler.StreamHandler)
	router.GET("/download/:name", handler.DownloadHandler)
	router.GET("/private-video/stream", func(c *gin.Context) {
		c.Request = c.Request.WithContext(accessHTTP.WithPlaybackToken(
			c.Request.Context(),
			&accessDomain.PlaybackToken{ResourceName: "secret.webm"},
		))
		c.Next()
	}, handler.PrivateStreamHandler)

	return router, mockUseCase, streamMetrics
}

func playback(name string, length int64, r mediaDomain.ByteRange, partial bool, body string) *mediaUseCase.Playback {
	return &mediaUseCase.Playback{
		Resource: &mediaDomain.Resource{Name: name},
		Length:   length,
		Range:    r,
		Partial:  partial,
		Body:     io.NopCloser(strings.NewReader(body)),
	}
}

func TestMediaHandler_StreamHandler(t *testing.T) {
	t.Run("Success_FullBody", func(t *testing.T) {
		router, mockUseCase, streamMetrics := setupStreamRouter(t)
		mockUseCase.On("Open", mock.Anything, "clip.mp4", "").
			Return(playback("clip.mp4", 10, mediaDomain.FullRange(10), false, "0123456789"), nil).
			Once()
		streamMetrics.On("StreamStarted", mock.Anything, false).Once()
		streamMetrics.On("StreamFinished", mock.Anything, false, int64(10), "success").Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/video/clip.mp4", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0123456789", w.Body.String())
		assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
		assert.Equal(t, "10", w.Header().Get("Content-Length"))
		assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
		assert.Empty(t, w.Header().Get("Content-Range"))
		streamMetrics.AssertExpectations(t)
	})

	t.Run("Success_PartialContent", func(t *testing.T) {
		router, mockUseCase, streamMetrics := setupStreamRouter(t)
		mockUseCase.On("Open", mock.Anything, "clip.mp4", "bytes=50000-50099").
			Return(playback(
				"clip.mp4",
				100_000,
				mediaDomain.ByteRange{Start: 50_000, End: 50_099},
				true,
				strings.Repeat("x", 100),
			), nil).
			Once()
		streamMetrics.On("StreamStarted", mock.Anything, true).Once()
		streamMetrics.On("StreamFinished", mock.Anything, true, int64(100), "success").Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/video/clip.mp4", nil)
		req.Header.Set("Range", "bytes=50000-50099")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "bytes 50000-50099/100000", w.Header().Get("Content-Range"))
		assert.Equal(t, "100", w.Header().Get("Content-Length"))
		assert.Len(t, w.Body.Bytes(), 100)
	})

	t.Run("Error_RangeNotSatisfiable", func(t *testing.T) {
		router, mockUseCase, _ := setupStreamRouter(t)
		mockUseCase.On("Open", mock.Anything, "clip.mp4", "bytes=200000-").
			Return(nil, &mediaDomain.RangeError{Length: 100_000, Err: mediaDomain.ErrRangeStartBeyondLength}).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/video/clip.mp4", nil)
		req.Header.Set("Range", "bytes=200000-")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
		assert.Equal(t, "bytes */100000", w.Header().Get("Content-Range"))
		assert.Contains(t, w.Body.String(), "range_not_satisfiable")
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		router, mockUseCase, _ := setupStreamRouter(t)
		mockUseCase.On("Open", mock.Anything, "missing.mp4", "").Return(nil, mediaDomain.ErrResourceNotFound).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/video/missing.mp4", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Success_Head", func(t *testing.T) {
		router, mockUseCase, streamMetrics := setupStreamRouter(t)
		described := playback("clip.webm", 10, mediaDomain.ByteRange{Start: 2, End: 5}, true, "")
		described.Body = nil
		mockUseCase.On("Describe", mock.Anything, "clip.webm", "bytes=2-5").Return(described, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodHead, "/video/clip.webm", nil)
		req.Header.Set("Range", "bytes=2-5")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "bytes 2-5/10", w.Header().Get("Content-Range"))
		assert.Equal(t, "4", w.Header().Get("Content-Length"))
		assert.Equal(t, "video/webm", w.Header().Get("Content-Type"))
		assert.Empty(t, w.Body.String())
		mockUseCase.AssertNotCalled(t, "Open", mock.Anything, mock.Anything, mock.Anything)
		streamMetrics.AssertNotCalled(t, "StreamStarted", mock.Anything, mock.Anything)
	})

	t.Run("Success_EmptyResource", func(t *testing.T) {
		router, mockUseCase, streamMetrics := setupStreamRouter(t)
		mockUseCase.On("Open", mock.Anything, "empty.mp4", "").
			Return(playback("empty.mp4", 0, mediaDomain.FullRange(0), false, ""), nil).
			Once()
		streamMetrics.On("StreamStarted", mock.Anything, false).Once()
		streamMetrics.On("StreamFinished", mock.Anything, false, int64(0), "success").Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/video/empty.mp4", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0", w.Header().Get("Content-Length"))
		assert.Empty(t, w.Body.String())
	})
}

func TestMediaHandler_DownloadHandler(t *testing.T) {
	router, mockUseCase, streamMetrics := setupStreamRouter(t)
	mockUseCase.On("Open", mock.Anything, "clip.mp4", "").
		Return(playback("clip.mp4", 3, mediaDomain.FullRange(3), false, "abc"), nil).
		Once()
	streamMetrics.On("StreamStarted", mock.Anything, false).Once()
	streamMetrics.On("StreamFinished", mock.Anything, false, int64(3), "success").Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/clip.mp4", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=clip.mp4`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "abc", w.Body.String())
}

func TestMediaHandler_PrivateStreamHandler(t *testing.T) {
	router, mockUseCase, streamMetrics := setupStreamRouter(t)
	mockUseCase.On("Open", mock.Anything, "secret.webm", "bytes=0-").
		Return(playback("secret.webm", 4, mediaDomain.FullRange(4), true, "data"), nil).
		Once()
	streamMetrics.On("StreamStarted", mock.Anything, true).Once()
	streamMetrics.On("StreamFinished", mock.Anything, true, int64(4), "success").Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private-video/stream?token=tok", nil)
	req.Header.Set("Range", "bytes=0-")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 0-3/4", w.Header().Get("Content-Range"))
	assert.Equal(t, "data", w.Body.String())
	mockUseCase.AssertExpectations(t)
}
