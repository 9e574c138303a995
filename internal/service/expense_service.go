package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// AddExpense records an expense paid by one member and split among others.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	msg := req.Msg
	userID, err := authorizeGroup(ctx, s.store, msg.GroupID)
	if err != nil {
		return nil, err
	}

	slog.Info("AddExpense request received",
		"group_id", msg.GroupID,
		"amount", msg.Amount,
		"split_method", msg.SplitMethod,
		"splits_count", len(msg.Splits),
	)

	description := strings.TrimSpace(msg.Description)
	if description == "" {
		return nil, invalidArgument("description is required")
	}
	paidBy := msg.PaidBy
	if paidBy == "" {
		paidBy = userID
	}

	roster, err := rosterOf(ctx, s.store, msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	names := namesOf(roster)
	if _, ok := names[paidBy]; !ok {
		return nil, invalidArgument("payer %q is not a group member", paidBy)
	}

	entries, err := s.splitsFor(msg, roster)
	if err != nil {
		return nil, toConnectError(err)
	}
	for _, e := range entries {
		if _, ok := names[e.MemberID]; !ok {
			return nil, invalidArgument("participant %q is not a group member", e.MemberID)
		}
	}

	expense := &models.Expense{
		ID:          uuid.New().String(),
		GroupID:     msg.GroupID,
		Description: description,
		Amount:      msg.Amount,
		PaidBy:      paidBy,
		CreatedBy:   userID,
		CreatedAt:   time.Now().Unix(),
		Splits:      make([]models.Split, len(entries)),
	}
	for i, e := range entries {
		expense.Splits[i] = models.Split{UserID: e.MemberID, OwedAmount: e.Amount}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added", "expense_id", expense.ID, "group_id", expense.GroupID)
	return connect.NewResponse(&api.ExpenseResponse{Expense: expenseToAPI(expense, names)}), nil
}

// splitsFor turns the request's split inputs into entries summing to the
// expense amount. An EQUAL split without participants covers the whole roster.
func (s *ExpenseService) splitsFor(msg *api.AddExpenseRequest, roster []calculator.Member) ([]calculator.SplitEntry, error) {
	method := calculator.SplitMethod(strings.ToUpper(msg.SplitMethod))
	if method == "" {
		method = calculator.SplitExact
	}

	var shares []calculator.Share
	if method == calculator.SplitEqual && len(msg.Splits) == 0 {
		shares = make([]calculator.Share, len(roster))
		for i, m := range roster {
			shares[i] = calculator.Share{MemberID: m.ID}
		}
	} else {
		shares = make([]calculator.Share, len(msg.Splits))
		for i, in := range msg.Splits {
			shares[i] = calculator.Share{MemberID: in.UserID, Value: in.Value}
		}
	}

	entries, err := calculator.SplitExpense(method, msg.Amount, shares)
	if err != nil {
		return nil, fmt.Errorf("failed to split expense: %w", err)
	}
	return entries, nil
}

// ListExpenses returns the group's active expenses with their splits.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if _, err := authorizeGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	roster, err := rosterOf(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	names := namesOf(roster)

	expenses, err := s.store.ListActiveExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		e.Splits, err = s.store.ListExpenseSplits(ctx, e.ID)
		if err != nil {
			return nil, toConnectError(err)
		}
		out[i] = expenseToAPI(e, names)
	}

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense soft-deletes an expense. Once the group has recorded a
// settlement its expense history is frozen.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense ID is required")
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	// Outsiders see the same NotFound as for an unknown ID.
	userID, err := authorizeGroup(ctx, s.store, expense.GroupID)
	if connect.CodeOf(err) == connect.CodePermissionDenied {
		return nil, toConnectError(fmt.Errorf("expense %s: %w", req.Msg.ExpenseID, storage.ErrNotFound))
	}
	if err != nil {
		return nil, err
	}
	if expense.Deleted {
		return nil, toConnectError(fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound))
	}

	settled, err := s.store.HasSettlements(ctx, expense.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if settled {
		return nil, toConnectError(fmt.Errorf("%w: cannot delete expenses once the group has settlements", ErrConflict))
	}

	if err := s.store.SoftDeleteExpense(ctx, expense.ID); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", expense.ID, "group_id", expense.GroupID, "user_id", userID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}
