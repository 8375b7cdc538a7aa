package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/reservation-backend/internal/assistant"
	"github.com/opencampus/reservation-backend/internal/auth"
	"github.com/opencampus/reservation-backend/internal/pkg/response"
)

type Handler struct {
	service assistant.Service
}

func NewHandler(service assistant.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reply, err := h.service.Chat(c.Request.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
			return
		}
		if errors.Is(err, assistant.ErrBadIntent) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not understand the request"})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewChatResponse(reply))
}
