package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/opencampus/reservation-backend/internal/auth"
	"github.com/opencampus/reservation-backend/internal/pkg/response"
	"github.com/opencampus/reservation-backend/internal/reservation"
	"github.com/opencampus/reservation-backend/internal/user"
)

type Handler struct {
	service     reservation.Service
	userService user.Service
}

func NewHandler(service reservation.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

// isStaff checks whether the current user may approve/reject and see all rows.
func (h *Handler) isStaff(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.Role.IsStaff()
}

// CheckAvailability is the read-only availability probe used by booking forms
// for live feedback. The authoritative check happens again at creation time.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var req CheckAvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	avail, err := h.service.CheckAvailability(c.Request.Context(), req.ResourceID, req.StartDate, req.EndDate, req.ExcludeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(avail))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	resv, err := h.service.Create(c.Request.Context(), reservation.CreateRequest{
		UserID:       userID,
		ResourceID:   req.ResourceID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Purpose:      req.Purpose,
		Description:  req.Description,
		Priority:     req.Priority,
		Attendees:    req.Attendees,
		Requirements: req.Requirements,
	})
	if err != nil {
		var conflict *reservation.ConflictError
		if errors.As(err, &conflict) {
			response.Error(c, conflict.AppError())
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(resv))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	resv, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Access Check: owner or staff.
	userID := auth.GetUserID(c)
	if resv.UserID != userID && !h.isStaff(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(resv))
}

func (h *Handler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	// Access Control: staff may see everyone's rows, others only their own.
	currentUserID := auth.GetUserID(c)
	filterUserID := currentUserID
	if h.isStaff(c, currentUserID) {
		filterUserID = req.UserID // can be empty to show all
	}

	filter := reservation.Filter{
		UserID:     filterUserID,
		ResourceID: req.ResourceID,
		Status:     req.Status,
		StartTime:  req.StartDateFrom,
		EndTime:    req.StartDateTo,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	reservations, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reservations"})
		return
	}

	items := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		items[i] = NewReservationResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// UpdateStatus approves or rejects a pending reservation. Staff only
// (enforced by route middleware); the service enforces the one-way transition.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	resv, err := h.service.UpdateStatus(c.Request.Context(), id, reservation.Status(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(resv))
}
