package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applog "userhub/api/internal/log"
)

const requestIDHeader = "X-Request-Id"

// RequestID accepts a caller-supplied id or generates one, echoes it in the
// response header and stamps it into the request context so service-level
// log events can carry it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDHeader, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(applog.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}
