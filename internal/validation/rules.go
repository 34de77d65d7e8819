// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/mediavault/internal/errors"
)

// maxResourceNameLength mirrors the common filesystem limit for a single path segment.
const maxResourceNameLength = 255

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// IsResourceName reports whether s is usable as a stored resource name: a single
// path segment that cannot escape the storage root and is not hidden.
func IsResourceName(s string) bool {
	if s == "" || len(s) > maxResourceNameLength {
		return false
	}
	if strings.HasPrefix(s, ".") {
		return false
	}
	if strings.ContainsAny(s, "/\\\x00") {
		return false
	}
	return s == strings.TrimSpace(s)
}

// ResourceName validates that a string is a safe resource name.
var ResourceName = validation.NewStringRuleWithError(
	IsResourceName,
	validation.NewError(
		"validation_resource_name",
		"must be a single path segment without slashes and must not start with a dot",
	),
)
