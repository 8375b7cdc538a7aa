package auth

import "github.com/gin-gonic/gin"

// Gin context keys set by AuthRequired.
const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
	ctxUserRole  = "userRole"
)

func ctxString(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string { return ctxString(c, ctxUserID) }

// GetUserEmail returns the authenticated user's email or empty string.
func GetUserEmail(c *gin.Context) string { return ctxString(c, ctxUserEmail) }

// GetUserRole returns the role embedded in the token or empty string.
// Authorization decisions re-check the role against the database.
func GetUserRole(c *gin.Context) string { return ctxString(c, ctxUserRole) }
