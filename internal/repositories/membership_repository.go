package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
)

var ErrAlreadyMember = errors.New("already a member")

// LeaveResult reports how an admin departure was resolved.
type LeaveResult struct {
	GroupDeleted bool
	AdminChanged bool
	NewAdminID   int
}

// MembershipRepository abstracts group membership persistence.
type MembershipRepository interface {
	AddMember(ctx context.Context, groupID, userID int) error
	RemoveMember(ctx context.Context, groupID, userID int) error
	IsMember(ctx context.Context, groupID, userID int) (bool, error)
	CountMembers(ctx context.Context, groupID int) (int, error)
	RemoveAdminMember(ctx context.Context, groupID, adminID int) (LeaveResult, error)
}

// MembershipRepo is a sqlx implementation of MembershipRepository.
type MembershipRepo struct {
	db *sqlx.DB
}

// NewMembershipRepo constructs a MembershipRepo.
func NewMembershipRepo(db *sqlx.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// AddMember inserts the membership row. A duplicate (group_id, user_id) pair
// surfaces as ErrAlreadyMember.
func (r *MembershipRepo) AddMember(ctx context.Context, groupID, userID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`, groupID, userID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrAlreadyMember
	}
	return err
}

// RemoveMember deletes a single membership row.
func (r *MembershipRepo) RemoveMember(ctx context.Context, groupID, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM group_members WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	return err
}

// IsMember checks membership.
func (r *MembershipRepo) IsMember(ctx context.Context, groupID, userID int) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM group_members WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	return count > 0, err
}

// CountMembers returns the group's current member count.
func (r *MembershipRepo) CountMembers(ctx context.Context, groupID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM group_members WHERE group_id=$1`, groupID)
	return count, err
}

// RemoveAdminMember resolves the departure of the group's admin in one
// transaction: the remaining member with the lowest user id inherits the
// admin role, or the group is cascade-deleted when nobody is left.
func (r *MembershipRepo) RemoveAdminMember(ctx context.Context, groupID, adminID int) (LeaveResult, error) {
	ctx, span := otel.Tracer("group-service/repositories").Start(ctx, "membership.admin_leave")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return LeaveResult{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var successor int
	err = tx.GetContext(ctx, &successor, `SELECT user_id FROM group_members WHERE group_id=$1 AND user_id <> $2 ORDER BY user_id ASC LIMIT 1`, groupID, adminID)
	if errors.Is(err, sql.ErrNoRows) {
		// Last member out: the group goes with them.
		err = nil
		for _, q := range []string{
			`DELETE FROM messages WHERE group_id=$1`,
			`DELETE FROM group_members WHERE group_id=$1`,
			`DELETE FROM groups WHERE group_id=$1`,
		} {
			if _, err = tx.ExecContext(ctx, q, groupID); err != nil {
				return LeaveResult{}, err
			}
		}
		if err = tx.Commit(); err != nil {
			return LeaveResult{}, err
		}
		return LeaveResult{GroupDeleted: true}, nil
	}
	if err != nil {
		return LeaveResult{}, err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE groups SET group_admin=$1 WHERE group_id=$2`, successor, groupID); err != nil {
		return LeaveResult{}, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id=$1 AND user_id=$2`, groupID, adminID); err != nil {
		return LeaveResult{}, err
	}

	if err = tx.Commit(); err != nil {
		return LeaveResult{}, err
	}
	return LeaveResult{AdminChanged: true, NewAdminID: successor}, nil
}
