package http

import "github.com/opencampus/reservation-backend/internal/assistant"

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Message string                   `json:"message"`
	Intent  *assistant.BookingIntent `json:"intent,omitempty"`
	Data    any                      `json:"data,omitempty"`
}

func NewChatResponse(r *assistant.Reply) ChatResponse {
	return ChatResponse{
		Message: r.Message,
		Intent:  r.Intent,
		Data:    r.Data,
	}
}
