package services

import (
	"context"
	"html"
	"log/slog"

	"group-service/internal/models"
	"group-service/internal/repositories"
)

// Content limit applies to the escaped form, which is what gets stored.
const maxMessageLength = 1000

// MessageService owns membership-gated message send/list.
type MessageService struct {
	groups   repositories.GroupRepository
	members  repositories.MembershipRepository
	messages repositories.MessageRepository
}

// NewMessageService constructs a MessageService.
func NewMessageService(groups repositories.GroupRepository, members repositories.MembershipRepository, messages repositories.MessageRepository) *MessageService {
	return &MessageService{groups: groups, members: members, messages: messages}
}

// SendMessage stores a message in the group on behalf of a member. Content is
// HTML-escaped before validation and storage.
func (s *MessageService) SendMessage(ctx context.Context, groupID, userID int, content string) (models.Message, error) {
	exists, err := s.groups.GroupExists(ctx, groupID)
	if err != nil {
		slog.Error("send existence check failed", "group_id", groupID, "error", err)
		return models.Message{}, internalError(err)
	}
	if !exists {
		return models.Message{}, invalidInput("Invalid group ID")
	}

	if userID <= 0 || content == "" {
		return models.Message{}, invalidInput("User ID and content are required")
	}

	member, err := s.members.IsMember(ctx, groupID, userID)
	if err != nil {
		slog.Error("send membership check failed", "group_id", groupID, "user_id", userID, "error", err)
		return models.Message{}, internalError(err)
	}
	if !member {
		return models.Message{}, forbidden("You are not a member of this group")
	}

	escaped := html.EscapeString(content)
	if len(escaped) > maxMessageLength {
		return models.Message{}, invalidInput("Content exceeds the maximum allowed length of 1000 characters.")
	}

	msg, err := s.messages.CreateMessage(ctx, groupID, userID, escaped)
	if err != nil {
		slog.Error("send insert failed", "group_id", groupID, "user_id", userID, "error", err)
		return models.Message{}, internalError(err)
	}

	slog.Info("message sent", "group_id", groupID, "user_id", userID, "message_id", msg.ID)
	return msg, nil
}

// GetMessages returns the group's messages in insertion order, members only.
func (s *MessageService) GetMessages(ctx context.Context, groupID, userID int) ([]models.Message, error) {
	exists, err := s.groups.GroupExists(ctx, groupID)
	if err != nil {
		slog.Error("list existence check failed", "group_id", groupID, "error", err)
		return nil, internalError(err)
	}
	if !exists {
		return nil, invalidInput("Invalid group ID")
	}

	if userID <= 0 {
		return nil, invalidInput("User ID is required")
	}

	member, err := s.members.IsMember(ctx, groupID, userID)
	if err != nil {
		slog.Error("list membership check failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, internalError(err)
	}
	if !member {
		return nil, forbidden("You are not a member of this group")
	}

	msgs, err := s.messages.ListMessages(ctx, groupID)
	if err != nil {
		slog.Error("list messages failed", "group_id", groupID, "error", err)
		return nil, internalError(err)
	}
	return msgs, nil
}
