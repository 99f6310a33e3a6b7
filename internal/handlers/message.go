package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"group-service/internal/services"
	"group-service/internal/telemetry"
)

// MessageHandler manages the per-group message endpoints.
type MessageHandler struct {
	messages *services.MessageService
	audit    *telemetry.AuditEmitter
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(messages *services.MessageService, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{messages: messages, audit: audit}
}

// SendMessage handles POST /groups/:group_id/messages.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req struct {
		UserID  int    `json:"user_id"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.messages.SendMessage(c.Request.Context(), groupID, req.UserID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "message.sent", groupID, req.UserID)
	c.JSON(http.StatusOK, gin.H{"message_id": msg.ID, "status": "sent"})
}

// GetMessages handles GET /groups/:group_id/messages. The caller identifies
// itself via the user_id query parameter or a JSON body.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	userID := 0
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "User ID is required")
			return
		}
		userID = parsed
	} else {
		var req struct {
			UserID int `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		userID = req.UserID
	}

	msgs, err := h.messages.GetMessages(c.Request.Context(), groupID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}
