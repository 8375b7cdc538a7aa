package respackage

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opencampus/reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "package not found")
	ErrEmptyName    = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrNoMembers    = apperror.New(http.StatusBadRequest, "package must contain at least one resource")
	ErrBadQuantity  = apperror.New(http.StatusBadRequest, "quantity_needed must be at least 1")
	ErrNotOwner     = apperror.New(http.StatusForbidden, "only the package owner or an admin may modify it")
)

// Package is a named, fixed set of resources booked together, all-or-nothing,
// for one shared time window.
type Package struct {
	ID        string
	Name      string
	Subject   string
	CreatedBy string
	CreatedAt time.Time
	Members   []Member
}

// Member links one resource into a package. QuantityNeeded is stored for
// future use; a booking currently consumes one slot per member.
type Member struct {
	ResourceID     string
	ResourceName   string
	QuantityNeeded int
}

// ConflictError reports the all-or-nothing pre-check failure: at least one
// member resource has no free slot for the requested window. Zero rows are
// created when this is returned.
type ConflictError struct {
	ConflictingResourceNames []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("resources unavailable for the requested window: %s",
		strings.Join(e.ConflictingResourceNames, ", "))
}

// AppError maps the conflict onto the HTTP error shape.
func (e *ConflictError) AppError() *apperror.AppError {
	return apperror.New(http.StatusConflict, e.Error()).WithDetails(map[string]any{
		"conflicting_resources": e.ConflictingResourceNames,
	})
}

// BookingFailedError reports a mid-sequence booking failure. All rows created
// in the same invocation were deleted before this was returned.
type BookingFailedError struct {
	ResourceName string
	Cause        error
}

func (e *BookingFailedError) Error() string {
	return fmt.Sprintf("package booking failed at %q: %v", e.ResourceName, e.Cause)
}

func (e *BookingFailedError) Unwrap() error {
	return e.Cause
}

// AppError maps the rolled-back failure onto the HTTP error shape.
func (e *BookingFailedError) AppError() *apperror.AppError {
	return apperror.New(http.StatusConflict, e.Error()).WithDetails(map[string]any{
		"failed_resource": e.ResourceName,
	})
}

// OrphanError is the fatal variant of BookingFailedError: the compensating
// deletes themselves failed, leaving a partial package behind. The IDs listed
// need operator attention; this condition is not auto-healed.
type OrphanError struct {
	OrphanedReservationIDs []string
	Cause                  error
}

func (e *OrphanError) Error() string {
	return fmt.Sprintf("partial package booking left behind (%d orphaned reservations): %v",
		len(e.OrphanedReservationIDs), e.Cause)
}

func (e *OrphanError) Unwrap() error {
	return e.Cause
}

// AppError maps the partial-booking condition onto the HTTP error shape. The
// orphaned IDs are included so an operator can clean up by hand.
func (e *OrphanError) AppError() *apperror.AppError {
	return apperror.New(http.StatusInternalServerError, "package booking partially failed").WithDetails(map[string]any{
		"orphaned_reservation_ids": e.OrphanedReservationIDs,
	})
}

// Filter defines parameters for listing packages.
type Filter struct {
	Subject   string
	CreatedBy string
	Keyword   string
	Page      int
	PageSize  int
}
