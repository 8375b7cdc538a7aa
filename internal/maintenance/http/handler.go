package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/opencampus/reservation-backend/internal/auth"
	"github.com/opencampus/reservation-backend/internal/maintenance"
	"github.com/opencampus/reservation-backend/internal/pkg/response"
	"github.com/opencampus/reservation-backend/internal/resource"
)

type Handler struct {
	service maintenance.Service
}

func NewHandler(service maintenance.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	task, err := h.service.Create(c.Request.Context(), maintenance.CreateRequest{
		ResourceID:  req.ResourceID,
		Title:       req.Title,
		Description: req.Description,
		ReportedBy:  userID,
	})
	if err != nil {
		if errors.Is(err, maintenance.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, resource.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create maintenance task"})
		return
	}

	c.JSON(http.StatusCreated, NewTaskResponse(task))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, maintenance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "maintenance task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get maintenance task"})
		return
	}

	c.JSON(http.StatusOK, NewTaskResponse(task))
}

func (h *Handler) List(c *gin.Context) {
	var req ListTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	tasks, total, err := h.service.List(c.Request.Context(), maintenance.Filter{
		ResourceID: req.ResourceID,
		Status:     req.Status,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list maintenance tasks"})
		return
	}

	items := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		items[i] = NewTaskResponse(t)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	task, err := h.service.Update(c.Request.Context(), id, maintenance.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, maintenance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "maintenance task not found"})
			return
		}
		if errors.Is(err, maintenance.ErrTitleRequired) || errors.Is(err, maintenance.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update maintenance task"})
		return
	}

	c.JSON(http.StatusOK, NewTaskResponse(task))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, maintenance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "maintenance task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete maintenance task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "maintenance task deleted"})
}
