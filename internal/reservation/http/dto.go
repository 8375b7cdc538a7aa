package http

import (
	"time"

	"github.com/opencampus/reservation-backend/internal/pkg/request"
	"github.com/opencampus/reservation-backend/internal/reservation"
	resHttp "github.com/opencampus/reservation-backend/internal/resource/http"
	userHttp "github.com/opencampus/reservation-backend/internal/user/http"
)

// CheckAvailabilityRequest defines query parameters for the availability probe.
type CheckAvailabilityRequest struct {
	ResourceID string    `form:"resource_id" binding:"required,uuid"`
	StartDate  time.Time `form:"start_date" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate    time.Time `form:"end_date" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	ExcludeID  string    `form:"exclude_reservation_id" binding:"omitempty,uuid"`
}

// Validate performs custom validation for CheckAvailabilityRequest.
func (r *CheckAvailabilityRequest) Validate() error {
	if !r.StartDate.Before(r.EndDate) {
		return reservation.ErrInvalidTimeRange
	}
	return nil
}

type AvailabilityResponse struct {
	HasConflict    bool `json:"has_conflict"`
	TotalQuantity  int  `json:"total_quantity"`
	ReservedSlots  int  `json:"reserved_slots"`
	AvailableSlots int  `json:"available_slots"`
}

func NewAvailabilityResponse(a *reservation.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		HasConflict:    a.HasConflict,
		TotalQuantity:  a.TotalQuantity,
		ReservedSlots:  a.ReservedSlots,
		AvailableSlots: a.AvailableSlots,
	}
}

type CreateReservationRequest struct {
	ResourceID   string    `json:"resource_id" binding:"required,uuid"`
	StartDate    time.Time `json:"start_date" binding:"required"`
	EndDate      time.Time `json:"end_date" binding:"required"`
	Purpose      string    `json:"purpose" binding:"required"`
	Description  string    `json:"description"`
	Priority     string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Attendees    int       `json:"attendees" binding:"omitempty,min=0"`
	Requirements string    `json:"requirements"`
}

// Validate performs custom validation for CreateReservationRequest.
func (r *CreateReservationRequest) Validate() error {
	if !r.StartDate.Before(r.EndDate) {
		return reservation.ErrInvalidTimeRange
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// ListReservationsRequest defines query parameters for listing reservations.
type ListReservationsRequest struct {
	request.ListParams
	ResourceID    string     `form:"resource_id" binding:"omitempty,uuid"`
	Status        string     `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	UserID        string     `form:"user_id" binding:"omitempty,uuid"`
	StartDateFrom *time.Time `form:"start_date_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartDateTo   *time.Time `form:"start_date_to" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy        string     `form:"sort_by" binding:"omitempty,oneof=start_date end_date created_at status priority"`
}

// Validate performs custom validation for ListReservationsRequest.
func (r *ListReservationsRequest) Validate() error {
	if r.StartDateFrom != nil && r.StartDateTo != nil {
		if r.StartDateFrom.After(*r.StartDateTo) {
			return reservation.ErrInvalidTimeRange
		}
	}
	return nil
}

type ReservationResponse struct {
	ID           string              `json:"id"`
	User         userHttp.UserTag    `json:"user"`
	Resource     resHttp.ResourceTag `json:"resource"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      time.Time           `json:"end_date"`
	Status       string              `json:"status"`
	Priority     string              `json:"priority"`
	Purpose      string              `json:"purpose"`
	Description  string              `json:"description,omitempty"`
	Attendees    int                 `json:"attendees,omitempty"`
	Requirements string              `json:"requirements,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:           r.ID,
		User:         userHttp.UserTag{ID: r.UserID, Name: r.UserName},
		Resource:     resHttp.ResourceTag{ID: r.ResourceID, Name: r.ResourceName},
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Status:       string(r.Status),
		Priority:     string(r.Priority),
		Purpose:      r.Purpose,
		Description:  r.Description,
		Attendees:    r.Attendees,
		Requirements: r.Requirements,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
