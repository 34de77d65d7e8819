package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/allisson/mediavault/internal/httputil"
)

func TestParseListQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		url         string
		expected    httputil.ListQuery
		expectedErr error
	}{
		{
			name:     "defaults",
			url:      "/videos",
			expected: httputil.ListQuery{Offset: 0, Limit: httputil.DefaultPageLimit},
		},
		{
			name:     "custom window and filter",
			url:      "/videos?offset=10&limit=20&query=holiday",
			expected: httputil.ListQuery{Offset: 10, Limit: 20, Query: "holiday"},
		},
		{
			name:     "filter is trimmed",
			url:      "/videos?query=%20clip%20",
			expected: httputil.ListQuery{Offset: 0, Limit: httputil.DefaultPageLimit, Query: "clip"},
		},
		{
			name:     "max limit",
			url:      "/videos?limit=100",
			expected: httputil.ListQuery{Offset: 0, Limit: httputil.MaxPageLimit},
		},
		{
			name:        "negative offset",
			url:         "/videos?offset=-1",
			expectedErr: httputil.ErrInvalidOffset,
		},
		{
			name:        "offset not an integer",
			url:         "/videos?offset=abc",
			expectedErr: httputil.ErrInvalidOffset,
		},
		{
			name:        "limit zero",
			url:         "/videos?limit=0",
			expectedErr: httputil.ErrInvalidLimit,
		},
		{
			name:        "limit exceeds max",
			url:         "/videos?limit=101",
			expectedErr: httputil.ErrInvalidLimit,
		},
		{
			name:        "limit not an integer",
			url:         "/videos?limit=xyz",
			expectedErr: httputil.ErrInvalidLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tt.url, nil)

			got, err := httputil.ParseListQuery(c)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Equal(t, httputil.ListQuery{}, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
