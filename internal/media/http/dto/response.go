package dto

import (
	"time"

	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
)

// VideoResponse describes a stored resource.
type VideoResponse struct {
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creation_date"`
}

// MapResourceToResponse converts a domain resource to its API representation.
func MapResourceToResponse(res *mediaDomain.Resource) VideoResponse {
	return VideoResponse{
		Name:         res.Name,
		CreationDate: res.CreatedAt,
	}
}

// MapResourcesToResponse converts a page of resources, never returning nil.
func MapResourcesToResponse(resources []*mediaDomain.Resource) []VideoResponse {
	out := make([]VideoResponse, 0, len(resources))
	for _, res := range resources {
		out = append(out, MapResourceToResponse(res))
	}
	return out
}

// CountResponse reports the number of matching resources.
type CountResponse struct {
	Count int `json:"count"`
}

// SuccessResponse acknowledges a mutation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// UploadResponse acknowledges an upload. JobID is only set for asynchronous uploads.
type UploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	JobID    string `json:"job_id,omitempty"`
}

// UploadJobResponse reports the state of an upload job.
type UploadJobResponse struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// MapUploadJobToResponse converts a domain upload job to its API representation.
func MapUploadJobToResponse(job *mediaDomain.UploadJob) UploadJobResponse {
	return UploadJobResponse{
		ID:          job.ID.String(),
		Filename:    job.Name,
		Status:      string(job.Status),
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
}
