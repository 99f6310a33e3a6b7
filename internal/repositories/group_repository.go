package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"

	"group-service/internal/models"
)

var ErrGroupNotFound = errors.New("group not found")

// GroupRepository abstracts group persistence.
type GroupRepository interface {
	CreateGroup(ctx context.Context, name string, adminID int) (models.Group, error)
	ListGroups(ctx context.Context) ([]models.GroupSummary, error)
	GetGroup(ctx context.Context, groupID int) (models.Group, error)
	GroupExists(ctx context.Context, groupID int) (bool, error)
	DeleteGroupCascade(ctx context.Context, groupID int) error
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// CreateGroup inserts the group and its admin membership atomically.
func (r *GroupRepo) CreateGroup(ctx context.Context, name string, adminID int) (models.Group, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Group{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	group := models.Group{Name: name, Admin: adminID}
	if err = tx.QueryRowxContext(ctx, `INSERT INTO groups (group_name, group_admin) VALUES ($1, $2) RETURNING group_id`, name, adminID).
		Scan(&group.ID); err != nil {
		return models.Group{}, err
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`, group.ID, adminID); err != nil {
		return models.Group{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// ListGroups returns every group as an id/name projection.
func (r *GroupRepo) ListGroups(ctx context.Context) ([]models.GroupSummary, error) {
	groups := []models.GroupSummary{}
	err := r.db.SelectContext(ctx, &groups, `SELECT group_id, group_name FROM groups`)
	return groups, err
}

// GetGroup fetches a single group.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `SELECT group_id, group_name, group_admin FROM groups WHERE group_id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// GroupExists probes for the group id.
func (r *GroupRepo) GroupExists(ctx context.Context, groupID int) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM groups WHERE group_id=$1`, groupID)
	return count > 0, err
}

// DeleteGroupCascade removes the group's messages, memberships and the group
// row in one transaction.
func (r *GroupRepo) DeleteGroupCascade(ctx context.Context, groupID int) error {
	ctx, span := otel.Tracer("group-service/repositories").Start(ctx, "group.cascade_delete")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE group_id=$1`, groupID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id=$1`, groupID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM groups WHERE group_id=$1`, groupID); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}
