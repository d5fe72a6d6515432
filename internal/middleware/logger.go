package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	applog "userhub/api/internal/log"
	"userhub/api/internal/models"
)

func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", latency).
			Str("request_id", applog.RequestIDFromContext(c.Request.Context()))

		// Auth ran inside c.Next(), so the account is known by now.
		if userVal, ok := c.Get(ContextUserKey); ok {
			if user, ok := userVal.(models.User); ok {
				event.Int64("user_id", user.ID)
			}
		}

		event.Msg("http request")
	}
}
