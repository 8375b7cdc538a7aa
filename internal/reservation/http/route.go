package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/reservations")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("/availability", h.CheckAvailability)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
	}

	// === Staff Routes (faculty or admin) ===
	staff := group.Group("")
	staff.Use(staffMiddleware)
	{
		staff.PATCH("/:id/status", h.UpdateStatus)
	}
}
