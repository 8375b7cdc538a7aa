package http

import (
	"time"

	"github.com/opencampus/reservation-backend/internal/settings"
)

type UpdatePolicyRequest struct {
	MaxActiveReservationsPerUser *int `json:"max_active_reservations_per_user" binding:"omitempty,min=0"`
	MaxAdvanceBookingDays        *int `json:"max_advance_booking_days" binding:"omitempty,min=0"`
}

type PolicyResponse struct {
	MaxActiveReservationsPerUser int       `json:"max_active_reservations_per_user"`
	MaxAdvanceBookingDays        int       `json:"max_advance_booking_days"`
	UpdatedAt                    time.Time `json:"updated_at"`
}

func NewPolicyResponse(p *settings.Policy) PolicyResponse {
	return PolicyResponse{
		MaxActiveReservationsPerUser: p.MaxActiveReservationsPerUser,
		MaxAdvanceBookingDays:        p.MaxAdvanceBookingDays,
		UpdatedAt:                    p.UpdatedAt,
	}
}
