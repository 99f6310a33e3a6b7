package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"group-service/internal/models"
)

// MessageRepository abstracts message persistence.
type MessageRepository interface {
	CreateMessage(ctx context.Context, groupID, userID int, content string) (models.Message, error)
	ListMessages(ctx context.Context, groupID int) ([]models.Message, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage persists a message; id and timestamp are store-assigned.
func (r *MessageRepo) CreateMessage(ctx context.Context, groupID, userID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (group_id, user_id, content) VALUES ($1, $2, $3) RETURNING message_id, group_id, user_id, content, timestamp`, groupID, userID, content).
		Scan(&msg.ID, &msg.GroupID, &msg.UserID, &msg.Content, &msg.Timestamp)
	return msg, err
}

// ListMessages returns the group's messages in insertion order.
func (r *MessageRepo) ListMessages(ctx context.Context, groupID int) ([]models.Message, error) {
	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs, `SELECT message_id, group_id, user_id, content, timestamp FROM messages WHERE group_id=$1 ORDER BY timestamp ASC`, groupID)
	return msgs, err
}
