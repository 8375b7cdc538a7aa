package reservation

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/opencampus/reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "reservation not found")
	ErrResourceNotFound  = apperror.New(http.StatusNotFound, "resource not found")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, "start date must be before end date")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid reservation status")
	ErrInvalidPriority   = apperror.New(http.StatusBadRequest, "invalid reservation priority")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "reservation is no longer pending")
	ErrReservationLimit  = apperror.New(http.StatusUnprocessableEntity, "active reservation limit reached")
	ErrTooFarAhead       = apperror.New(http.StatusUnprocessableEntity, "window exceeds the advance booking limit")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")

	// ErrNoCapacity is returned by Repository.CreateGuarded when every slot of
	// the resource is taken for the requested window. The service turns it
	// into a ConflictError carrying the full breakdown.
	ErrNoCapacity = errors.New("no free slots for the requested window")
)

// Status of a reservation. Only pending and approved reservations occupy
// slots; rejected reservations never count.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsActive reports whether a reservation with this status occupies a slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// Priority is informational only; it does not affect allocation order.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Reservation holds one resource for one half-open time window [StartDate, EndDate).
type Reservation struct {
	ID           string
	UserID       string
	UserName     string
	ResourceID   string
	ResourceName string
	StartDate    time.Time
	EndDate      time.Time
	Status       Status
	Priority     Priority
	Purpose      string
	Description  string
	Attendees    int
	Requirements string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Availability is the slot arithmetic for one resource and one window.
type Availability struct {
	HasConflict    bool
	TotalQuantity  int
	ReservedSlots  int
	AvailableSlots int
}

// ConflictError reports that a booking could not be granted, with the
// concrete numbers callers need to render alternatives.
type ConflictError struct {
	Availability
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time window unavailable: %d of %d slots in use", e.ReservedSlots, e.TotalQuantity)
}

// AppError maps the conflict onto the HTTP error shape, keeping the breakdown.
func (e *ConflictError) AppError() *apperror.AppError {
	return apperror.New(http.StatusConflict, e.Error()).WithDetails(map[string]any{
		"total_quantity":  e.TotalQuantity,
		"reserved_slots":  e.ReservedSlots,
		"available_slots": e.AvailableSlots,
	})
}

// Overlaps reports whether two half-open windows intersect. Windows that
// merely touch (one ends exactly when the other starts) do not overlap.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// Filter defines parameters for listing reservations.
type Filter struct {
	UserID     string
	ResourceID string
	Status     string
	StartTime  *time.Time // Keep reservations ending after this time
	EndTime    *time.Time // Keep reservations starting before this time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
