package models

import "time"

// Message is a text message posted to a group by a member.
type Message struct {
	ID        int       `db:"message_id" json:"message_id"`
	GroupID   int       `db:"group_id" json:"group_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}
