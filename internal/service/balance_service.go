package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

// BalanceService implements the Connect BalanceService. Balances are
// recomputed from the ledger on every call and never stored.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// groupLedger is everything the calculator needs about one group.
type groupLedger struct {
	roster      []calculator.Member
	expenses    []calculator.ExpenseForBalance
	settlements []calculator.SettlementForBalance
}

func (s *BalanceService) loadLedger(ctx context.Context, groupID string) (*groupLedger, error) {
	roster, err := rosterOf(ctx, s.store, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListActiveExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	l := &groupLedger{
		roster:   roster,
		expenses: make([]calculator.ExpenseForBalance, len(expenses)),
	}
	for i, e := range expenses {
		splits, err := s.store.ListExpenseSplits(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load splits of expense %s: %w", e.ID, err)
		}
		entries := make([]calculator.SplitEntry, len(splits))
		for j, sp := range splits {
			entries[j] = calculator.SplitEntry{MemberID: sp.UserID, Amount: sp.OwedAmount}
		}
		l.expenses[i] = calculator.ExpenseForBalance{
			ID:      e.ID,
			Amount:  e.Amount,
			PayerID: e.PaidBy,
			Splits:  entries,
		}
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}
	l.settlements = make([]calculator.SettlementForBalance, len(settlements))
	for i, st := range settlements {
		l.settlements[i] = calculator.SettlementForBalance{
			ID:         st.ID,
			FromUserID: st.FromUserID,
			ToUserID:   st.ToUserID,
			Amount:     st.Amount,
		}
	}

	return l, nil
}

// GetGroupBalances returns every member's net position in roster order.
func (s *BalanceService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	if _, err := authorizeGroup(ctx, s.store, groupID); err != nil {
		return nil, err
	}

	l, err := s.loadLedger(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	sheet, err := calculator.BalanceSheet(l.roster, l.expenses, l.settlements)
	if err != nil {
		slog.Error("Ledger rejected", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.MemberBalance, len(sheet))
	for i, b := range sheet {
		out[i] = api.MemberBalance{
			UserID:     b.MemberID,
			UserName:   b.MemberName,
			NetBalance: b.NetBalance,
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
		}
	}
	return connect.NewResponse(&api.GetGroupBalancesResponse{Balances: out}), nil
}

// GetGroupDebts returns the simplified set of payments that settles the group.
func (s *BalanceService) GetGroupDebts(ctx context.Context, req *connect.Request[api.GetGroupDebtsRequest]) (*connect.Response[api.GetGroupDebtsResponse], error) {
	groupID := req.Msg.GroupID
	if _, err := authorizeGroup(ctx, s.store, groupID); err != nil {
		return nil, err
	}

	l, err := s.loadLedger(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupDebts failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	balances, err := calculator.ComputeGroupBalances(l.roster, l.expenses, l.settlements)
	if err != nil {
		slog.Error("Ledger rejected", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	plan, err := calculator.ComputeDebtPlan(balances)
	if err != nil {
		slog.Error("Debt simplification failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	for memberID, left := range calculator.Replay(balances, plan) {
		if !left.IsZero() {
			err := fmt.Errorf("%w: plan leaves %s with %s", calculator.ErrDataIntegrity, memberID, left)
			slog.Error("Debt plan does not settle", "group_id", groupID, "error", err)
			return nil, toConnectError(err)
		}
	}

	names := namesOf(l.roster)
	out := make([]api.Debt, len(plan))
	for i, t := range plan {
		out[i] = api.Debt{
			FromUserID:   t.From,
			FromUserName: names[t.From],
			ToUserID:     t.To,
			ToUserName:   names[t.To],
			Amount:       t.Amount,
		}
	}

	slog.Debug("GetGroupDebts successful", "group_id", groupID, "transfers", len(out))
	return connect.NewResponse(&api.GetGroupDebtsResponse{Debts: out}), nil
}
