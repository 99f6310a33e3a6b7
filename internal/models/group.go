package models

// Group is a named collection of users with exactly one admin.
type Group struct {
	ID    int    `db:"group_id" json:"id"`
	Name  string `db:"group_name" json:"group_name"`
	Admin int    `db:"group_admin" json:"group_admin"`
}

// GroupSummary is the listing projection of a group.
type GroupSummary struct {
	ID   int    `db:"group_id" json:"group_id"`
	Name string `db:"group_name" json:"group_name"`
}

// Membership ties a user to a group. The (group_id, user_id) pair is unique.
type Membership struct {
	GroupID int `db:"group_id" json:"group_id"`
	UserID  int `db:"user_id" json:"user_id"`
}
