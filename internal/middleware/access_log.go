package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"group-service/internal/observability"
)

// AccessLog writes one structured line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", observability.IPFromRequest(c.Request),
			"request_id", c.GetString(requestIDContextKey),
		)
	}
}
