package services

import (
	"context"
	"errors"
	"log/slog"

	"group-service/internal/observability"
	"group-service/internal/repositories"
)

// MembershipService owns join/leave logic, including the admin succession
// and last-member cascade on leave.
type MembershipService struct {
	groups  repositories.GroupRepository
	members repositories.MembershipRepository
}

// NewMembershipService constructs a MembershipService.
func NewMembershipService(groups repositories.GroupRepository, members repositories.MembershipRepository) *MembershipService {
	return &MembershipService{groups: groups, members: members}
}

// Join adds the user to the group. Joining twice is an input error, not a
// silent no-op.
func (s *MembershipService) Join(ctx context.Context, groupID, userID int) error {
	if groupID <= 0 || userID <= 0 {
		return invalidInput("User ID and Group ID are required")
	}

	exists, err := s.groups.GroupExists(ctx, groupID)
	if err != nil {
		slog.Error("join existence check failed", "group_id", groupID, "error", err)
		return internalError(err)
	}
	if !exists {
		return invalidInput("Invalid group ID")
	}

	if err := s.members.AddMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyMember) {
			return invalidInput("User is already a member of this group")
		}
		slog.Error("join insert failed", "group_id", groupID, "user_id", userID, "error", err)
		return internalError(err)
	}

	slog.Info("member joined", "group_id", groupID, "user_id", userID)
	return nil
}

// Leave removes the user from the group. A departing admin hands the role to
// the remaining member with the lowest user id; the last member out takes the
// group (and its messages) with them.
func (s *MembershipService) Leave(ctx context.Context, groupID, userID int) (repositories.LeaveResult, error) {
	if groupID <= 0 || userID <= 0 {
		return repositories.LeaveResult{}, invalidInput("User ID and Group ID are required")
	}

	group, err := s.groups.GetGroup(ctx, groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		return repositories.LeaveResult{}, invalidInput("Invalid group ID")
	}
	if err != nil {
		slog.Error("leave group lookup failed", "group_id", groupID, "error", err)
		return repositories.LeaveResult{}, internalError(err)
	}

	member, err := s.members.IsMember(ctx, groupID, userID)
	if err != nil {
		slog.Error("leave membership check failed", "group_id", groupID, "user_id", userID, "error", err)
		return repositories.LeaveResult{}, internalError(err)
	}
	if !member {
		return repositories.LeaveResult{}, invalidInput("You are not a member of this group")
	}

	if userID != group.Admin {
		if err := s.members.RemoveMember(ctx, groupID, userID); err != nil {
			slog.Error("leave remove failed", "group_id", groupID, "user_id", userID, "error", err)
			return repositories.LeaveResult{}, internalError(err)
		}
		slog.Info("member left", "group_id", groupID, "user_id", userID)
		return repositories.LeaveResult{}, nil
	}

	result, err := s.members.RemoveAdminMember(ctx, groupID, userID)
	if err != nil {
		slog.Error("admin leave failed", "group_id", groupID, "user_id", userID, "error", err)
		return repositories.LeaveResult{}, internalError(err)
	}

	switch {
	case result.GroupDeleted:
		observability.IncCascadeDelete("last_member_left")
		slog.Info("last member left, group deleted", "group_id", groupID, "user_id", userID)
	case result.AdminChanged:
		slog.Info("admin left, role transferred", "group_id", groupID, "user_id", userID, "new_admin", result.NewAdminID)
	}
	return result, nil
}

// IsMember checks membership.
func (s *MembershipService) IsMember(ctx context.Context, groupID, userID int) (bool, error) {
	member, err := s.members.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, internalError(err)
	}
	return member, nil
}
