package domain

import (
	apperrors "github.com/allisson/mediavault/internal/errors"
)

// Access-related error definitions.
var (
	// ErrTokenNotFound indicates the presented playback token was never issued.
	ErrTokenNotFound = apperrors.Wrap(apperrors.ErrInvalidToken, "playback token not found")

	// ErrTokenAlreadyExists indicates a token hash collision on insert.
	ErrTokenAlreadyExists = apperrors.Wrap(apperrors.ErrConflict, "playback token already exists")

	// ErrMissingToken indicates a request without the token query parameter.
	ErrMissingToken = apperrors.Wrap(apperrors.ErrInvalidToken, "playback token is required")
)
