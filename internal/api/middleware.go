package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/reservation-backend/internal/auth"
	"github.com/opencampus/reservation-backend/internal/user"
)

// RequireAdmin ensures the authenticated user has the admin role.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin(userService user.Service) gin.HandlerFunc {
	return requireRole(userService, func(u *user.User) bool {
		return u.Role == user.RoleAdmin
	}, "admin access required")
}

// RequireStaff ensures the authenticated user is faculty or admin.
// It MUST be used after auth.AuthRequired middleware.
func RequireStaff(userService user.Service) gin.HandlerFunc {
	return requireRole(userService, func(u *user.User) bool {
		return u.Role.IsStaff()
	}, "staff access required")
}

func requireRole(userService user.Service, allowed func(*user.User) bool, denyMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// The role on the token can be stale; the DB row is authoritative.
		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		if !allowed(u) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: " + denyMsg})
			return
		}

		c.Next()
	}
}
