// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

var (
	// ErrNotFound is returned when a referenced user, group or expense does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned on a duplicate email or group membership.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Reads are independent queries; a balance computed from them is not a
// snapshot if writes to the same group happen concurrently.
type Store interface {
	// CreateUser persists a new user. Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group with the creator and the given users
	// as its initial roster. The ID, invite token and CreatedAt fields are
	// populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group, memberIDs []string) error

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByInviteToken retrieves the group an invite token belongs to.
	GetGroupByInviteToken(ctx context.Context, token string) (*models.Group, error)

	// ListGroupsForUser returns every group the user is a member of.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMember adds a user to a group's roster.
	// Returns ErrAlreadyExists if the user is already a member.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// ListGroupMembers returns the group's roster, each member exactly once,
	// in join order.
	ListGroupMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// IsGroupMember reports whether the user belongs to the group.
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)

	// CreateExpense persists an expense and its splits atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits, deleted or not.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListActiveExpenses returns the group's expenses that are not soft-deleted.
	// Splits are not loaded; use ListExpenseSplits.
	ListActiveExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListExpenseSplits returns the split entries of one expense.
	ListExpenseSplits(ctx context.Context, expenseID string) ([]models.Split, error)

	// SoftDeleteExpense marks an expense deleted.
	// Returns ErrNotFound if it does not exist or is already deleted.
	SoftDeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup returns all settlements recorded in a group.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// HasSettlements reports whether any settlement exists in the group.
	HasSettlements(ctx context.Context, groupID string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
