package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/mediavault/internal/access/domain"
	accessHTTP "github.com/allisson/mediavault/internal/access/http"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
	"github.com/allisson/mediavault/internal/media/http/dto"
	usecaseMocks "github.com/allisson/mediavault/internal/media/usecase/mocks"
	"github.com/allisson/mediavault/internal/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestHandler creates a test media handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*MediaHandler, *usecaseMocks.MockMediaUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &usecaseMocks.MockMediaUseCase{}
	handler := NewMediaHandler(
		mockUseCase,
		metrics.NewNoOpStreamMetrics(),
		UploadOptions{StagingDir: t.TempDir()},
		testLogger(),
	)
	return handler, mockUseCase
}

// createTestContext creates a test Gin context with the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func TestMediaHandler_ListHandler(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Success_DefaultPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		mockUseCase.On("List", mock.Anything, 0, 10, "").
			Return([]*mediaDomain.Resource{{Name: "clip.mp4", CreatedAt: createdAt}}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/videos", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response []dto.VideoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response, 1)
		assert.Equal(t, "clip.mp4", response[0].Name)
		assert.True(t, createdAt.Equal(response[0].CreationDate))
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_QueryAndEmptyPage", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		mockUseCase.On("List", mock.Anything, 20, 5, "holiday").
			Return([]*mediaDomain.Resource{}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/videos?offset=20&limit=5&query=holiday", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Error_InvalidLimit", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/videos?limit=1000", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMediaHandler_CountHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)
	mockUseCase.On("Count", mock.Anything, "clip").Return(7, nil).Once()

	c, w := createTestContext(http.MethodGet, "/videos/count?query=clip", nil)
	handler.CountHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":7}`, w.Body.String())
}

func TestMediaHandler_PrivateVideoHandler(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		mockUseCase.On("Get", mock.Anything, "clip.mp4").
			Return(&mediaDomain.Resource{Name: "clip.mp4", CreatedAt: createdAt}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/private-video?token=tok", nil)
		c.Request = c.Request.WithContext(accessHTTP.WithPlaybackToken(
			c.Request.Context(),
			&accessDomain.PlaybackToken{ResourceName: "clip.mp4"},
		))
		handler.PrivateVideoHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.VideoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "clip.mp4", response.Name)
	})

	t.Run("Error_ResourceGone", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		mockUseCase.On("Get", mock.Anything, "renamed.mp4").Return(nil, mediaDomain.ErrResourceNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/private-video?token=tok", nil)
		c.Request = c.Request.WithContext(accessHTTP.WithPlaybackToken(
			context.Background(),
			&accessDomain.PlaybackToken{ResourceName: "renamed.mp4"},
		))
		handler.PrivateVideoHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_NoTokenInContext", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/private-video", nil)
		handler.PrivateVideoHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestMediaHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		mockUseCase.On("Delete", mock.Anything, "clip.mp4").Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/delete-video", dto.DeleteVideoRequest{VideoName: "clip.mp4"})
		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		mockUseCase.On("Delete", mock.Anything, "missing.mp4").Return(mediaDomain.ErrResourceNotFound).Once()

		c, w := createTestContext(http.MethodPost, "/delete-video", dto.DeleteVideoRequest{VideoName: "missing.mp4"})
		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_PathTraversal", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/delete-video", dto.DeleteVideoRequest{VideoName: "../keys.txt"})
		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestMediaHandler_RenameHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		mockUseCase.On("Rename", mock.Anything, "a.mp4", "b.mp4").Return(nil).Once()

		c, w := createTestContext(
			http.MethodPost,
			"/rename-video",
			dto.RenameVideoRequest{OldName: "a.mp4", NewName: "b.mp4"},
		)
		handler.RenameHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_TargetExists", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		mockUseCase.On("Rename", mock.Anything, "a.mp4", "b.mp4").Return(mediaDomain.ErrResourceAlreadyExists).Once()

		c, w := createTestContext(
			http.MethodPost,
			"/rename-video",
			dto.RenameVideoRequest{OldName: "a.mp4", NewName: "b.mp4"},
		)
		handler.RenameHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Error_SameName", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(
			http.MethodPost,
			"/rename-video",
			dto.RenameVideoRequest{OldName: "a.mp4", NewName: "a.mp4"},
		)
		handler.RenameHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestMediaHandler_UploadJobHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		id := uuid.New()
		mockUseCase.On("GetUploadJob", mock.Anything, id).
			Return(&mediaDomain.UploadJob{ID: id, Name: "clip.mp4", Status: mediaDomain.JobRunning}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/upload-jobs/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.UploadJobHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.UploadJobResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "running", response.Status)
		assert.Equal(t, "clip.mp4", response.Filename)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/upload-jobs/nope", nil)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}
		handler.UploadJobHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		id := uuid.New()
		mockUseCase.On("GetUploadJob", mock.Anything, id).Return(nil, mediaDomain.ErrUploadJobNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/upload-jobs/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.UploadJobHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
