package repositories

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestAddMemberDuplicateBecomesAlreadyMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMembershipRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`)).
		WithArgs(4, 2).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.AddMember(context.Background(), 4, 2)

	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestAddMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMembershipRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`)).
		WithArgs(4, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddMember(context.Background(), 4, 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMembershipRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM group_members WHERE group_id=$1 AND user_id=$2`)).
		WithArgs(4, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	member, err := repo.IsMember(context.Background(), 4, 2)

	require.NoError(t, err)
	require.False(t, member)
}

func TestRemoveAdminMemberPromotesLowestUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMembershipRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM group_members WHERE group_id=$1 AND user_id <> $2 ORDER BY user_id ASC LIMIT 1`)).
		WithArgs(4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE groups SET group_admin=$1 WHERE group_id=$2`)).
		WithArgs(2, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM group_members WHERE group_id=$1 AND user_id=$2`)).
		WithArgs(4, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.RemoveAdminMember(context.Background(), 4, 1)

	require.NoError(t, err)
	require.True(t, result.AdminChanged)
	require.Equal(t, 2, result.NewAdminID)
	require.False(t, result.GroupDeleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveAdminMemberLastMemberCascades(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMembershipRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM group_members WHERE group_id=$1 AND user_id <> $2 ORDER BY user_id ASC LIMIT 1`)).
		WithArgs(4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM messages WHERE group_id=$1`)).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM group_members WHERE group_id=$1`)).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM groups WHERE group_id=$1`)).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.RemoveAdminMember(context.Background(), 4, 1)

	require.NoError(t, err)
	require.True(t, result.GroupDeleted)
	require.False(t, result.AdminChanged)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountMembers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMembershipRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM group_members WHERE group_id=$1`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountMembers(context.Background(), 4)

	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestRemoveMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMembershipRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM group_members WHERE group_id=$1 AND user_id=$2`)).
		WithArgs(4, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveMember(context.Background(), 4, 2))
	require.NoError(t, mock.ExpectationsWereMet())
}
