// Package dto provides data transfer objects for media HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/mediavault/internal/validation"
)

// DeleteVideoRequest names the resource to delete.
type DeleteVideoRequest struct {
	VideoName string `json:"video_name"`
}

// Validate checks if the delete request is valid.
func (r *DeleteVideoRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.VideoName,
			validation.Required,
			customValidation.ResourceName,
		),
	)
}

// RenameVideoRequest moves a resource to a new name.
type RenameVideoRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// Validate checks if the rename request is valid.
func (r *RenameVideoRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OldName,
			validation.Required,
			customValidation.ResourceName,
		),
		validation.Field(&r.NewName,
			validation.Required,
			customValidation.ResourceName,
			validation.NotIn(r.OldName).Error("must differ from old_name"),
		),
	)
}
