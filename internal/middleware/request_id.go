package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"group-service/internal/observability"
)

const requestIDContextKey = "request_id"

// RequestID attaches a request id to the context and response, honoring a
// client-supplied X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := observability.RequestIDFromRequest(c.Request)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDContextKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}
