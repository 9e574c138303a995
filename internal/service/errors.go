package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/storage"
)

var (
	// ErrConflict is returned when a change would rewrite history that
	// other records already depend on.
	ErrConflict = errors.New("conflict")

	errNotMember = errors.New("not a member of this group")
)

// toConnectError maps domain and storage errors to Connect codes.
// Errors that already carry a code pass through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, calculator.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ErrConflict):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, calculator.ErrDataIntegrity):
		return connect.NewError(connect.CodeDataLoss, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// authorizeGroup returns the caller's user ID if the group exists and the
// caller belongs to it.
func authorizeGroup(ctx context.Context, store storage.Store, groupID string) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}
	if groupID == "" {
		return "", invalidArgument("group ID is required")
	}

	if _, err := store.GetGroup(ctx, groupID); err != nil {
		return "", toConnectError(err)
	}
	ok, err := store.IsGroupMember(ctx, groupID, userID)
	if err != nil {
		return "", toConnectError(err)
	}
	if !ok {
		return "", connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return userID, nil
}

// rosterOf loads the group's roster in join order.
func rosterOf(ctx context.Context, store storage.Store, groupID string) ([]calculator.Member, error) {
	members, err := store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	roster := make([]calculator.Member, len(members))
	for i, m := range members {
		roster[i] = calculator.Member{ID: m.UserID, Name: m.DisplayName}
	}
	return roster, nil
}

func namesOf(roster []calculator.Member) map[string]string {
	names := make(map[string]string, len(roster))
	for _, m := range roster {
		names[m.ID] = m.Name
	}
	return names
}
