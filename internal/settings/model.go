package settings

import (
	"errors"
	"time"
)

var (
	ErrInvalidLimit = errors.New("limits must be zero or positive")
)

// Policy holds the booking preconditions enforced at reservation creation.
// A value of zero disables the corresponding limit.
type Policy struct {
	MaxActiveReservationsPerUser int
	MaxAdvanceBookingDays        int
	UpdatedAt                    time.Time
}

// DefaultPolicy is used when no policy row has been stored yet.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxActiveReservationsPerUser: 0,
		MaxAdvanceBookingDays:        0,
	}
}
