package maintenance

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("maintenance task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid maintenance task status")
)

// TaskStatus is the lifecycle of a maintenance task.
type TaskStatus string

const (
	StatusOpen       TaskStatus = "open"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task tracks repair or upkeep work on one resource. Completing a task does
// not change the resource status; an admin flips that explicitly.
type Task struct {
	ID           string
	ResourceID   string
	ResourceName string
	Title        string
	Description  string
	Status       TaskStatus
	ReportedBy   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter defines parameters for listing maintenance tasks.
type Filter struct {
	ResourceID string
	Status     string
	Page       int
	PageSize   int
}
