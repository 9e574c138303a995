package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIDs),
		"user_id", userID,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}
	for _, memberID := range req.Msg.MemberIDs {
		if _, err := s.store.GetUserByID(ctx, memberID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, invalidArgument("unknown user %q", memberID)
			}
			return nil, toConnectError(err)
		}
	}

	group := &models.Group{Name: name, CreatedBy: userID}
	if err := s.store.CreateGroup(ctx, group, req.Msg.MemberIDs); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.GroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup returns a group with its roster.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	if _, err := authorizeGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	members, err := s.store.ListGroupMembers(ctx, group.ID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{
		Group:   groupToAPI(group),
		Members: membersToAPI(members),
	}), nil
}

// ListGroups returns the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ListGroupsResponse], error) {
	userID := middleware.GetUserID(ctx)

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = groupToAPI(g)
	}

	slog.Debug("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// JoinGroup adds the caller to the group the invite token belongs to.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	if req.Msg.InviteToken == "" {
		return nil, invalidArgument("invite token is required")
	}

	group, err := s.store.GetGroupByInviteToken(ctx, req.Msg.InviteToken)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.AddGroupMember(ctx, group.ID, userID); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("User joined group", "group_id", group.ID, "user_id", userID)
	return connect.NewResponse(&api.GroupResponse{Group: groupToAPI(group)}), nil
}

// ListMembers returns the group's roster in join order.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	if _, err := authorizeGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	members, err := s.store.ListGroupMembers(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: membersToAPI(members)}), nil
}
