package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/settings")
	group.Use(authMiddleware)
	{
		group.GET("/booking-policy", h.Get)
	}

	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.PUT("/booking-policy", h.Update)
	}
}
