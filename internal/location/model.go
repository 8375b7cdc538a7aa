package location

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("location not found")
	ErrEmptyName = errors.New("name cannot be empty")
)

// Location represents a campus building or area that resources belong to.
type Location struct {
	ID          string
	Name        string
	Campus      string
	Address     string
	Description string
	CreatedAt   time.Time
}

// Filter defines parameters for listing locations.
type Filter struct {
	Campus   string
	Keyword  string // Search in Name or Address
	Page     int
	PageSize int
}
