// Package dto provides data transfer objects for access HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/mediavault/internal/validation"
)

// CheckKeyRequest carries an access secret to verify.
type CheckKeyRequest struct {
	Key string `json:"key"`
}

// GenerateTokenRequest names the resource a playback token should grant access to.
type GenerateTokenRequest struct {
	VideoName string `json:"video_name"`
}

// Validate checks if the generate token request is valid.
func (r *GenerateTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.VideoName,
			validation.Required,
			customValidation.ResourceName,
		),
	)
}
