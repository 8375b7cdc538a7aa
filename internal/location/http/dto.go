package http

import (
	"time"

	"github.com/opencampus/reservation-backend/internal/location"
	"github.com/opencampus/reservation-backend/internal/pkg/request"
)

// ListLocationsRequest defines query parameters for listing locations.
type ListLocationsRequest struct {
	request.ListParams
	Campus  string `form:"campus"`
	Keyword string `form:"keyword"`
}

type CreateLocationRequest struct {
	Name        string `json:"name" binding:"required"`
	Campus      string `json:"campus"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type UpdateLocationRequest struct {
	Name        *string `json:"name"`
	Campus      *string `json:"campus"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

type LocationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Campus      string    `json:"campus"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// LocationTag is a brief representation of a location.
type LocationTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewLocationResponse(l *location.Location) LocationResponse {
	return LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Campus:      l.Campus,
		Address:     l.Address,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
	}
}
