package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"group-service/internal/services"
	"group-service/internal/telemetry"
)

// MembershipHandler manages join/leave endpoints.
type MembershipHandler struct {
	memberships *services.MembershipService
	audit       *telemetry.AuditEmitter
}

// NewMembershipHandler constructs a MembershipHandler.
func NewMembershipHandler(memberships *services.MembershipService, audit *telemetry.AuditEmitter) *MembershipHandler {
	return &MembershipHandler{memberships: memberships, audit: audit}
}

// Join handles POST /groups/:group_id/join.
func (h *MembershipHandler) Join(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req struct {
		UserID int `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.memberships.Join(c.Request.Context(), groupID, req.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "member.joined", groupID, req.UserID)
	c.JSON(http.StatusOK, gin.H{"group_id": groupID, "user_id": req.UserID, "status": "joined"})
}

// Leave handles POST /groups/:group_id/leave. A departing admin hands over
// the role; the last member takes the group down with them.
func (h *MembershipHandler) Leave(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req struct {
		UserID int `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.memberships.Leave(c.Request.Context(), groupID, req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	switch {
	case result.GroupDeleted:
		emitAudit(c, h.audit, "INFO", "group.deleted_on_last_leave", groupID, req.UserID)
	case result.AdminChanged:
		emitAudit(c, h.audit, "INFO", "admin.transferred", groupID, result.NewAdminID)
	default:
		emitAudit(c, h.audit, "INFO", "member.left", groupID, req.UserID)
	}
	c.JSON(http.StatusOK, gin.H{"status": "left"})
}
