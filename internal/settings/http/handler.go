package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/reservation-backend/internal/settings"
)

type Handler struct {
	service settings.Service
}

func NewHandler(service settings.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load booking policy"})
		return
	}
	c.JSON(http.StatusOK, NewPolicyResponse(p))
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.Update(c.Request.Context(), settings.UpdateRequest{
		MaxActiveReservationsPerUser: req.MaxActiveReservationsPerUser,
		MaxAdvanceBookingDays:        req.MaxAdvanceBookingDays,
	})
	if err != nil {
		if errors.Is(err, settings.ErrInvalidLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update booking policy"})
		return
	}

	c.JSON(http.StatusOK, NewPolicyResponse(p))
}
