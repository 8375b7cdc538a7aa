package http

import (
	"time"

	"github.com/opencampus/reservation-backend/internal/pkg/request"
	"github.com/opencampus/reservation-backend/internal/reservation"
	rsvHttp "github.com/opencampus/reservation-backend/internal/reservation/http"
	"github.com/opencampus/reservation-backend/internal/respackage"
)

type MemberRequest struct {
	ResourceID     string `json:"resource_id" binding:"required,uuid"`
	QuantityNeeded int    `json:"quantity_needed" binding:"omitempty,min=1"`
}

type CreatePackageRequest struct {
	Name    string          `json:"name" binding:"required"`
	Subject string          `json:"subject"`
	Members []MemberRequest `json:"members" binding:"required,min=1,dive"`
}

// ListPackagesRequest defines query parameters for listing packages.
type ListPackagesRequest struct {
	request.ListParams
	Subject string `form:"subject"`
	Keyword string `form:"keyword"`
}

// ReservePackageRequest books every member of the package for one window.
type ReservePackageRequest struct {
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	Purpose     string    `json:"purpose"`
	Description string    `json:"description"`
	Priority    string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// Validate performs custom validation for ReservePackageRequest.
func (r *ReservePackageRequest) Validate() error {
	if !r.StartDate.Before(r.EndDate) {
		return reservation.ErrInvalidTimeRange
	}
	return nil
}

type MemberResponse struct {
	ResourceID     string `json:"resource_id"`
	ResourceName   string `json:"resource_name"`
	QuantityNeeded int    `json:"quantity_needed"`
}

type PackageResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Subject   string           `json:"subject,omitempty"`
	CreatedBy string           `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
	Members   []MemberResponse `json:"members"`
}

func NewPackageResponse(p *respackage.Package) PackageResponse {
	members := make([]MemberResponse, len(p.Members))
	for i, m := range p.Members {
		members[i] = MemberResponse{
			ResourceID:     m.ResourceID,
			ResourceName:   m.ResourceName,
			QuantityNeeded: m.QuantityNeeded,
		}
	}
	return PackageResponse{
		ID:        p.ID,
		Name:      p.Name,
		Subject:   p.Subject,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
		Members:   members,
	}
}

type ReservePackageResponse struct {
	Reservations []rsvHttp.ReservationResponse `json:"reservations"`
}

func NewReservePackageResponse(reservations []*reservation.Reservation) ReservePackageResponse {
	items := make([]rsvHttp.ReservationResponse, len(reservations))
	for i, r := range reservations {
		items[i] = rsvHttp.NewReservationResponse(r)
	}
	return ReservePackageResponse{Reservations: items}
}
