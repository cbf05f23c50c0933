package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"filedrop/internal/models"
	"filedrop/internal/permissions"
	"filedrop/internal/security"
)

// CurrentClaims returns the authenticated session claims, if any.
func CurrentClaims(c *gin.Context) (*security.SessionClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*security.SessionClaims)
	if !ok || !claims.Authenticated() {
		return nil, false
	}
	return claims, true
}

// RequireRole gates a route on the role hierarchy: any role at or above min
// passes. Anonymous requests get 401, authenticated-but-outranked get 403.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !permissions.HasMinRole(claims.Role, min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}
