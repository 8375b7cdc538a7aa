package http

import (
	"time"

	"github.com/opencampus/reservation-backend/internal/maintenance"
	"github.com/opencampus/reservation-backend/internal/pkg/request"
)

type CreateTaskRequest struct {
	ResourceID  string `json:"resource_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=open in_progress done"`
}

// ListTasksRequest defines query parameters for listing maintenance tasks.
type ListTasksRequest struct {
	request.ListParams
	ResourceID string `form:"resource_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=open in_progress done"`
}

type TaskResponse struct {
	ID           string    `json:"id"`
	ResourceID   string    `json:"resource_id"`
	ResourceName string    `json:"resource_name,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	ReportedBy   string    `json:"reported_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewTaskResponse(t *maintenance.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		ResourceID:   t.ResourceID,
		ResourceName: t.ResourceName,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		ReportedBy:   t.ReportedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
