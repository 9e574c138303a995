package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Member is a roster entry as seen by the calculator.
type Member struct {
	ID   string
	Name string
}

// SplitEntry is one participant's share of an expense.
type SplitEntry struct {
	MemberID string
	Amount   decimal.Decimal
}

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	ID      string
	Amount  decimal.Decimal
	PayerID string
	Splits  []SplitEntry
}

// SettlementForBalance represents a settlement with the minimal information needed for balance calculations.
type SettlementForBalance struct {
	ID         string
	FromUserID string // Who paid (debtor settling up)
	ToUserID   string // Who received (creditor being paid)
	Amount     decimal.Decimal
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	MemberID   string
	MemberName string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal // Expenses paid plus settlements sent
	TotalOwed  decimal.Decimal // Expense shares plus settlements received
}

// ledger accumulates per-member totals while folding expenses and settlements.
type ledger struct {
	net  map[string]decimal.Decimal
	paid map[string]decimal.Decimal
	owed map[string]decimal.Decimal
}

func newLedger(roster []Member) *ledger {
	l := &ledger{
		net:  make(map[string]decimal.Decimal, len(roster)),
		paid: make(map[string]decimal.Decimal, len(roster)),
		owed: make(map[string]decimal.Decimal, len(roster)),
	}
	for _, m := range roster {
		l.net[m.ID] = decimal.Zero
		l.paid[m.ID] = decimal.Zero
		l.owed[m.ID] = decimal.Zero
	}
	return l
}

func (l *ledger) credit(memberID string, amount decimal.Decimal) {
	l.net[memberID] = l.net[memberID].Add(amount)
	l.paid[memberID] = l.paid[memberID].Add(amount)
}

func (l *ledger) debit(memberID string, amount decimal.Decimal) {
	l.net[memberID] = l.net[memberID].Sub(amount)
	l.owed[memberID] = l.owed[memberID].Add(amount)
}

// ComputeGroupBalances folds a group's expenses and settlements into one net
// balance per roster member.
//
// Algorithm:
//   - Every roster member starts at exactly zero
//   - For each expense: payer is credited the full amount, then each split
//     participant is debited their share
//   - For each settlement: the sender is credited, the receiver debited
//
// Inputs are validated before anything is folded; a violation returns
// ErrInvalidInput. A result that does not sum to zero returns ErrDataIntegrity.
func ComputeGroupBalances(roster []Member, expenses []ExpenseForBalance, settlements []SettlementForBalance) (map[string]decimal.Decimal, error) {
	l, err := fold(roster, expenses, settlements)
	if err != nil {
		return nil, err
	}
	return l.net, nil
}

// BalanceSheet is ComputeGroupBalances with per-member totals, returned in
// roster order.
func BalanceSheet(roster []Member, expenses []ExpenseForBalance, settlements []SettlementForBalance) ([]MemberBalance, error) {
	l, err := fold(roster, expenses, settlements)
	if err != nil {
		return nil, err
	}

	sheet := make([]MemberBalance, len(roster))
	for i, m := range roster {
		sheet[i] = MemberBalance{
			MemberID:   m.ID,
			MemberName: m.Name,
			NetBalance: l.net[m.ID],
			TotalPaid:  l.paid[m.ID],
			TotalOwed:  l.owed[m.ID],
		}
	}
	return sheet, nil
}

func fold(roster []Member, expenses []ExpenseForBalance, settlements []SettlementForBalance) (*ledger, error) {
	members, err := rosterSet(roster)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		if err := validateExpense(e, members); err != nil {
			return nil, err
		}
	}
	for _, s := range settlements {
		if err := validateSettlement(s, members); err != nil {
			return nil, err
		}
	}

	l := newLedger(roster)

	for _, e := range expenses {
		l.credit(e.PayerID, e.Amount)
		for _, split := range e.Splits {
			l.debit(split.MemberID, split.Amount)
		}
	}

	// Sender already paid the receiver: sender owes less, receiver is owed less
	for _, s := range settlements {
		l.credit(s.FromUserID, s.Amount)
		l.debit(s.ToUserID, s.Amount)
	}

	if sum := sumBalances(l.net); !sum.IsZero() {
		return nil, fmt.Errorf("%w: balances sum to %s", ErrDataIntegrity, sum)
	}
	return l, nil
}

func rosterSet(roster []Member) (map[string]struct{}, error) {
	members := make(map[string]struct{}, len(roster))
	for _, m := range roster {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: roster member without ID", ErrInvalidInput)
		}
		if _, dup := members[m.ID]; dup {
			return nil, fmt.Errorf("%w: member %s listed twice in roster", ErrInvalidInput, m.ID)
		}
		members[m.ID] = struct{}{}
	}
	return members, nil
}

func validateExpense(e ExpenseForBalance, members map[string]struct{}) error {
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: expense %s has negative amount %s", ErrInvalidInput, e.ID, e.Amount)
	}
	if _, ok := members[e.PayerID]; !ok {
		return fmt.Errorf("%w: expense %s paid by non-member %q", ErrInvalidInput, e.ID, e.PayerID)
	}

	total := decimal.Zero
	for _, split := range e.Splits {
		if _, ok := members[split.MemberID]; !ok {
			return fmt.Errorf("%w: expense %s split to non-member %q", ErrInvalidInput, e.ID, split.MemberID)
		}
		if split.Amount.IsNegative() {
			return fmt.Errorf("%w: expense %s has negative split %s for %s", ErrInvalidInput, e.ID, split.Amount, split.MemberID)
		}
		total = total.Add(split.Amount)
	}
	if !total.Equal(e.Amount) {
		return fmt.Errorf("%w: expense %s splits sum to %s, want %s", ErrInvalidInput, e.ID, total, e.Amount)
	}
	return nil
}

func validateSettlement(s SettlementForBalance, members map[string]struct{}) error {
	if s.Amount.IsNegative() {
		return fmt.Errorf("%w: settlement %s has negative amount %s", ErrInvalidInput, s.ID, s.Amount)
	}
	if s.FromUserID == s.ToUserID {
		return fmt.Errorf("%w: settlement %s pays %q to themselves", ErrInvalidInput, s.ID, s.FromUserID)
	}
	if _, ok := members[s.FromUserID]; !ok {
		return fmt.Errorf("%w: settlement %s sent by non-member %q", ErrInvalidInput, s.ID, s.FromUserID)
	}
	if _, ok := members[s.ToUserID]; !ok {
		return fmt.Errorf("%w: settlement %s received by non-member %q", ErrInvalidInput, s.ID, s.ToUserID)
	}
	return nil
}

func sumBalances(balances map[string]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b)
	}
	return sum
}
