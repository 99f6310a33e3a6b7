package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"group-service/internal/telemetry"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, errorResponse{Status: "error", Message: "audit emitter not configured"})
			return
		}
		emitter.Emit(c.Request.Context(), "INFO", "audit.test", requestIDFromContext(c), 0, 0)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
