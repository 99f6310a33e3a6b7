package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"group-service/internal/models"
	"group-service/internal/observability"
	"group-service/internal/repositories"
)

const maxGroupNameLength = 100

// GroupService owns the group lifecycle.
type GroupService struct {
	groups repositories.GroupRepository
}

// NewGroupService constructs a GroupService.
func NewGroupService(groups repositories.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// CreateGroup creates a group with the caller as admin and sole member. A
// missing name gets a generated one; collisions are accepted, names are not
// unique keys.
func (s *GroupService) CreateGroup(ctx context.Context, adminID int, name string) (models.Group, error) {
	if adminID <= 0 {
		return models.Group{}, invalidInput("Group admin ID is required")
	}
	if name == "" {
		name = generateGroupName()
	} else if len(name) > maxGroupNameLength {
		return models.Group{}, invalidInput("Group name is too long")
	}

	group, err := s.groups.CreateGroup(ctx, name, adminID)
	if err != nil {
		slog.Error("create group failed", "group_admin", adminID, "error", err)
		return models.Group{}, internalError(err)
	}

	slog.Info("group created", "group_id", group.ID, "group_admin", adminID)
	return group, nil
}

// ListGroups returns every group as an id/name projection, store order.
func (s *GroupService) ListGroups(ctx context.Context) ([]models.GroupSummary, error) {
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		slog.Error("list groups failed", "error", err)
		return nil, internalError(err)
	}
	return groups, nil
}

// GroupExists probes for the group id.
func (s *GroupService) GroupExists(ctx context.Context, groupID int) (bool, error) {
	exists, err := s.groups.GroupExists(ctx, groupID)
	if err != nil {
		return false, internalError(err)
	}
	return exists, nil
}

// IsAdmin reports whether the user is the group's current admin. A missing
// group counts as false.
func (s *GroupService) IsAdmin(ctx context.Context, groupID, userID int) (bool, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		return false, nil
	}
	if err != nil {
		return false, internalError(err)
	}
	return group.Admin == userID, nil
}

// DeleteGroup removes the group and everything under it. Admin only.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, requesterID int) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		return invalidInput("Invalid group ID")
	}
	if err != nil {
		slog.Error("delete group lookup failed", "group_id", groupID, "error", err)
		return internalError(err)
	}

	if group.Admin != requesterID {
		return forbidden("Only the group admin can delete the group")
	}

	if err := s.groups.DeleteGroupCascade(ctx, groupID); err != nil {
		slog.Error("delete group cascade failed", "group_id", groupID, "error", err)
		return internalError(err)
	}

	observability.IncCascadeDelete("admin_delete")
	slog.Info("group deleted", "group_id", groupID, "group_admin", requesterID)
	return nil
}

func generateGroupName() string {
	return fmt.Sprintf("group%d_%d", 1000+rand.Intn(9000), time.Now().Unix())
}
