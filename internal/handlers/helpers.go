package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"group-service/internal/services"
	"group-service/internal/telemetry"
)

const requestIDContextKey = "request_id"

// errorResponse is the envelope every failure answers with.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, errorResponse{Status: "error", Message: message})
}

// respondServiceError maps the domain error taxonomy onto status codes.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		respondError(c, http.StatusInternalServerError, "Database error occurred")
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case services.KindInvalidInput:
		status = http.StatusBadRequest
	case services.KindForbidden:
		status = http.StatusForbidden
	}
	respondError(c, status, svcErr.Message)
}

// parseGroupID reads the :group_id path parameter; on failure it has already
// written the error response.
func parseGroupID(c *gin.Context) (int, bool) {
	groupID, err := strconv.Atoi(c.Param("group_id"))
	if err != nil || groupID <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid group ID")
		return 0, false
	}
	return groupID, true
}

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func emitAudit(c *gin.Context, audit *telemetry.AuditEmitter, level, action string, groupID, userID int) {
	if audit == nil {
		return
	}
	audit.Emit(c.Request.Context(), level, action, requestIDFromContext(c), groupID, userID)
}
