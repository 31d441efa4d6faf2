package middleware

import "github.com/gin-gonic/gin"

const (
	userIDKey    = contextKey("userID")
	companyIDKey = contextKey("companyID")
	userRoleKey  = contextKey("userRole")
)

// GetUserIDFromContext retrieves the authenticated user ID set by the auth
// middleware.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(userIDKey); v != nil {
		id, ok := v.(string)
		return id, ok
	}
	return "", false
}

// GetCompanyIDFromContext retrieves the authenticated user's company ID.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(companyIDKey); v != nil {
		id, ok := v.(string)
		return id, ok
	}
	return "", false
}

// GetUserRoleFromContext retrieves the authenticated user's role claim.
func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(userRoleKey); v != nil {
		role, ok := v.(string)
		return role, ok
	}
	return "", false
}
