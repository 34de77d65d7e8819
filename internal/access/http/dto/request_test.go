package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTokenRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		videoName string
		wantErr   bool
	}{
		{"valid", "clip.mp4", false},
		{"valid with spaces inside", "my clip.mp4", false},
		{"empty", "", true},
		{"path traversal", "../secret.mp4", true},
		{"nested path", "a/b.mp4", true},
		{"hidden", ".upload-123", true},
		{"too long", strings.Repeat("a", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := GenerateTokenRequest{VideoName: tt.videoName}
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
