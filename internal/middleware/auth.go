package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"filedrop/internal/service"
)

const (
	// SessionCookie carries the signed session token for browser clients;
	// API clients may use a bearer header instead.
	SessionCookie = "filedrop_session"

	claimsKey = "session_claims"
)

// Session parses the session token when present, applies the revalidation
// policy and re-issues the cookie when the claims changed. It never rejects:
// RequireRole decides whether an identity is needed.
func Session(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				tokenStr = cookie
			}
		}
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.Next()
			return
		}

		changed, err := auth.Refresh(c.Request.Context(), claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session refresh failed"})
			return
		}

		if changed && claims.Authenticated() {
			if reissued, err := auth.IssueToken(*claims); err == nil {
				c.SetCookie(SessionCookie, reissued, 0, "/", "", false, true)
			}
		}
		if changed && !claims.Authenticated() {
			// Revalidation found the user gone; drop the cookie so the
			// client re-logs in.
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Next()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
