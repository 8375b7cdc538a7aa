package http

import (
	"time"

	"github.com/opencampus/reservation-backend/internal/pkg/request"
	"github.com/opencampus/reservation-backend/internal/resource"
)

// ListResourcesRequest defines query parameters for listing resources.
type ListResourcesRequest struct {
	request.ListParams
	Category   string `form:"category" binding:"omitempty,oneof=rooms equipment av"`
	Status     string `form:"status" binding:"omitempty,oneof=available reserved maintenance"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
	Keyword    string `form:"keyword"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=name category quantity created_at"`
}

type CreateResourceRequest struct {
	Name        string         `json:"name" binding:"required"`
	Category    string         `json:"category" binding:"required,oneof=rooms equipment av"`
	Quantity    int            `json:"quantity" binding:"min=0"`
	LocationID  string         `json:"location_id" binding:"omitempty,uuid"`
	Description string         `json:"description"`
	Specs       resource.Specs `json:"specifications"`
}

type UpdateResourceRequest struct {
	Name        *string         `json:"name"`
	Quantity    *int            `json:"quantity"`
	Status      *string         `json:"status" binding:"omitempty,oneof=available reserved maintenance"`
	LocationID  *string         `json:"location_id"`
	Description *string         `json:"description"`
	Specs       *resource.Specs `json:"specifications"`
	PhotoFileID *string         `json:"photo_file_id"`
}

type ResourceResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Quantity     int            `json:"quantity"`
	Status       string         `json:"status"`
	LocationID   *string        `json:"location_id"`
	LocationName string         `json:"location_name,omitempty"`
	Description  string         `json:"description"`
	Specs        resource.Specs `json:"specifications"`
	PhotoFileID  *string        `json:"photo_file_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ResourceTag is a brief representation of a resource.
type ResourceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewResourceResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:           r.ID,
		Name:         r.Name,
		Category:     string(r.Category),
		Quantity:     r.Quantity,
		Status:       string(r.Status),
		LocationID:   r.LocationID,
		LocationName: r.LocationName,
		Description:  r.Description,
		Specs:        r.Specs,
		PhotoFileID:  r.PhotoFileID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
