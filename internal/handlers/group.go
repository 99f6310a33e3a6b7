package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"group-service/internal/services"
	"group-service/internal/telemetry"
)

// GroupHandler manages the group lifecycle endpoints.
type GroupHandler struct {
	groups *services.GroupService
	audit  *telemetry.AuditEmitter
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groups *services.GroupService, audit *telemetry.AuditEmitter) *GroupHandler {
	return &GroupHandler{groups: groups, audit: audit}
}

// ListGroups handles GET /groups.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groups.ListGroups(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// CreateGroup handles POST /groups. The caller becomes admin and sole member.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req struct {
		UserID    int    `json:"user_id"`
		GroupName string `json:"group_name"`
	}
	// An empty body behaves like missing fields, matching the form-style API.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	group, err := h.groups.CreateGroup(c.Request.Context(), req.UserID, req.GroupName)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "group.created", group.ID, req.UserID)
	c.JSON(http.StatusOK, group)
}

// DeleteGroup handles DELETE /groups/:group_id. Admin only; messages and
// memberships go with the group.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
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

	if err := h.groups.DeleteGroup(c.Request.Context(), groupID, req.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "group.deleted", groupID, req.UserID)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
