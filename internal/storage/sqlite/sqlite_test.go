package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email, name string) *models.User {
	t.Helper()

	user := models.NewUser(email, name, "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestNew_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := New(dbPath)
	require.NoError(t, err)
	user := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))
	require.NoError(t, store.Close())

	// Migrations are idempotent on an existing database
	reopened, err := New(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash"))
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		_, err = store.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")
	charlie := createUser(t, store, "charlie@example.com", "Charlie")

	group := &models.Group{Name: "Roommates", CreatedBy: alice.ID}
	require.NoError(t, store.CreateGroup(ctx, group, []string{bob.ID, alice.ID}))

	t.Run("CreateGroup generates ID and invite token", func(t *testing.T) {
		assert.NotEmpty(t, group.ID)
		assert.NotEmpty(t, group.InviteToken)
		assert.NotZero(t, group.CreatedAt)
	})

	t.Run("roster holds creator once, in join order", func(t *testing.T) {
		members, err := store.ListGroupMembers(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, alice.ID, members[0].UserID)
		assert.Equal(t, "Alice", members[0].DisplayName)
		assert.Equal(t, bob.ID, members[1].UserID)
	})

	t.Run("GetGroupByInviteToken", func(t *testing.T) {
		got, err := store.GetGroupByInviteToken(ctx, group.InviteToken)
		require.NoError(t, err)
		assert.Equal(t, group.ID, got.ID)

		_, err = store.GetGroupByInviteToken(ctx, "bogus")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("AddGroupMember", func(t *testing.T) {
		require.NoError(t, store.AddGroupMember(ctx, group.ID, charlie.ID))

		err := store.AddGroupMember(ctx, group.ID, charlie.ID)
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)

		ok, err := store.IsGroupMember(ctx, group.ID, charlie.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ListGroupsForUser", func(t *testing.T) {
		groups, err := store.ListGroupsForUser(ctx, charlie.ID)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "Roommates", groups[0].Name)

		groups, err = store.ListGroupsForUser(ctx, "stranger")
		require.NoError(t, err)
		assert.Empty(t, groups)
	})

	t.Run("GetGroup unknown", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestExpensesAndSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")
	group := &models.Group{Name: "Trip", CreatedBy: alice.ID}
	require.NoError(t, store.CreateGroup(ctx, group, []string{bob.ID}))

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: "Dinner",
		Amount:      decimal.RequireFromString("100.00"),
		PaidBy:      alice.ID,
		CreatedBy:   alice.ID,
		Splits: []models.Split{
			{UserID: alice.ID, OwedAmount: decimal.RequireFromString("33.33")},
			{UserID: bob.ID, OwedAmount: decimal.RequireFromString("66.67")},
		},
	}
	require.NoError(t, store.CreateExpense(ctx, expense))
	require.NotEmpty(t, expense.ID)

	t.Run("amounts round-trip exactly", func(t *testing.T) {
		got, err := store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, "100", got.Amount.String())
		require.Len(t, got.Splits, 2)
		assert.True(t, got.Splits[0].OwedAmount.Equal(decimal.RequireFromString("33.33")))
		assert.True(t, got.Splits[1].OwedAmount.Equal(decimal.RequireFromString("66.67")))
		assert.False(t, got.Deleted)
	})

	t.Run("split for unknown user rolls back the expense", func(t *testing.T) {
		bad := &models.Expense{
			GroupID: group.ID, Description: "Bad", Amount: decimal.NewFromInt(10),
			PaidBy: alice.ID, CreatedBy: alice.ID,
			Splits: []models.Split{{UserID: "ghost", OwedAmount: decimal.NewFromInt(10)}},
		}
		require.Error(t, store.CreateExpense(ctx, bad))

		_, err := store.GetExpense(ctx, bad.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("settlements", func(t *testing.T) {
		has, err := store.HasSettlements(ctx, group.ID)
		require.NoError(t, err)
		assert.False(t, has)

		settlement := &models.Settlement{
			GroupID:    group.ID,
			FromUserID: bob.ID,
			ToUserID:   alice.ID,
			Amount:     decimal.RequireFromString("66.67"),
			CreatedBy:  bob.ID,
		}
		require.NoError(t, store.CreateSettlement(ctx, settlement))
		assert.Equal(t, models.SettlementStatusSettled, settlement.Status)

		settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, settlements, 1)
		assert.True(t, settlements[0].Amount.Equal(decimal.RequireFromString("66.67")))
		assert.Empty(t, settlements[0].Note)

		has, err = store.HasSettlements(ctx, group.ID)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("soft delete hides expense from active list", func(t *testing.T) {
		active, err := store.ListActiveExpenses(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, active, 1)

		require.NoError(t, store.SoftDeleteExpense(ctx, expense.ID))

		active, err = store.ListActiveExpenses(ctx, group.ID)
		require.NoError(t, err)
		assert.Empty(t, active)

		// Still retrievable for history
		got, err := store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.True(t, got.Deleted)

		err = store.SoftDeleteExpense(ctx, expense.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
