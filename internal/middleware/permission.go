package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"userhub/api/internal/security"
)

// RequireSelf allows a request through only when the authenticated user is
// the owner of the :id route parameter. There are no roles in this system;
// an account can read and mutate itself and nothing else.
func RequireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsVal, exists := c.Get(ContextClaimsKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claims, ok := claimsVal.(security.AccessClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_claims"})
			return
		}

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id != claims.UserID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
