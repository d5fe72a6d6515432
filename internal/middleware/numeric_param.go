package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// NumericParam rejects requests whose named route parameter is not a
// positive integer, before any auth or handler work runs.
func NumericParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.Param(name)
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_" + name})
			return
		}

		c.Next()
	}
}
