package resource

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidCategory = errors.New("invalid resource category")
	ErrInvalidStatus   = errors.New("invalid resource status")
	ErrInvalidQuantity = errors.New("quantity must be zero or positive")
	ErrInvalidLocation = errors.New("invalid location_id")
	ErrSpecMismatch    = errors.New("specifications do not match resource category")
)

// Category is the closed set of resource kinds.
type Category string

const (
	CategoryRooms     Category = "rooms"
	CategoryEquipment Category = "equipment"
	CategoryAV        Category = "av"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryRooms, CategoryEquipment, CategoryAV:
		return true
	}
	return false
}

// Status is an administrative flag, independent of live booking arithmetic.
// A resource flagged "maintenance" is blocked from new bookings regardless
// of how many units are free.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusReserved    Status = "reserved"
	StatusMaintenance Status = "maintenance"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusMaintenance:
		return true
	}
	return false
}

// RoomSpec describes room-specific attributes.
type RoomSpec struct {
	Capacity      int  `json:"capacity"`
	HasWhiteboard bool `json:"has_whiteboard,omitempty"`
	HasProjector  bool `json:"has_projector,omitempty"`
}

// EquipmentSpec describes equipment-specific attributes.
type EquipmentSpec struct {
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model,omitempty"`
	SerialPrefix string `json:"serial_prefix,omitempty"`
}

// AVSpec describes audio/video-specific attributes.
type AVSpec struct {
	Inputs     []string `json:"inputs,omitempty"`
	Resolution string   `json:"resolution,omitempty"`
	Portable   bool     `json:"portable,omitempty"`
}

// Specs holds category-specific attributes. Exactly the field matching the
// resource category may be set; Extra carries unanticipated keys.
type Specs struct {
	Room      *RoomSpec         `json:"room,omitempty"`
	Equipment *EquipmentSpec    `json:"equipment,omitempty"`
	AV        *AVSpec           `json:"av,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// MatchesCategory reports whether the populated spec fields are consistent
// with the given category. An entirely empty spec is always consistent.
func (s Specs) MatchesCategory(c Category) bool {
	if s.Room != nil && c != CategoryRooms {
		return false
	}
	if s.Equipment != nil && c != CategoryEquipment {
		return false
	}
	if s.AV != nil && c != CategoryAV {
		return false
	}
	return true
}

// Resource represents a bookable unit or a pool of interchangeable units
// (e.g. Lab 101 with quantity 1, or a cart of 10 identical projectors).
type Resource struct {
	ID           string
	Name         string
	Category     Category
	Quantity     int
	Status       Status
	LocationID   *string
	LocationName string
	Description  string
	Specs        Specs
	PhotoFileID  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter defines parameters for listing resources.
type Filter struct {
	Category   string
	Status     string
	LocationID string
	Keyword    string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
