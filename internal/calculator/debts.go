package calculator

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Transfer is one suggested payment: From pays To the given Amount.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// position is a member's outstanding magnitude during the sweep.
type position struct {
	memberID  string
	remaining decimal.Decimal
}

// ComputeDebtPlan turns net balances into an ordered list of transfers that
// brings every balance to zero.
//
// Greedy two-pointer sweep: debtors sorted most negative first, creditors
// largest first, ties broken by member ID. Each step pays the smaller of the
// current debtor's debt and the current creditor's credit, then advances
// whichever side reached zero. This settles large obligations first but is
// not guaranteed to find the minimum number of transfers; at most
// debtors+creditors-1 are emitted.
//
// The input map is not modified. Balances that do not sum to zero leave an
// unmatched remainder and return ErrDataIntegrity.
func ComputeDebtPlan(balances map[string]decimal.Decimal) ([]Transfer, error) {
	var debtors, creditors []position
	for id, bal := range balances {
		switch bal.Sign() {
		case -1:
			debtors = append(debtors, position{memberID: id, remaining: bal.Neg()})
		case 1:
			creditors = append(creditors, position{memberID: id, remaining: bal})
		}
	}

	slices.SortFunc(debtors, byLargestFirst)
	slices.SortFunc(creditors, byLargestFirst)

	plan := make([]Transfer, 0, max(len(debtors)+len(creditors)-1, 0))
	d, c := 0, 0
	for d < len(debtors) && c < len(creditors) {
		debtor, creditor := &debtors[d], &creditors[c]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		plan = append(plan, Transfer{
			From:   debtor.memberID,
			To:     creditor.memberID,
			Amount: amount,
		})

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.IsZero() {
			d++
		}
		if creditor.remaining.IsZero() {
			c++
		}
	}

	if d < len(debtors) {
		return nil, fmt.Errorf("%w: %s still owes %s with no creditor left",
			ErrDataIntegrity, debtors[d].memberID, debtors[d].remaining)
	}
	if c < len(creditors) {
		return nil, fmt.Errorf("%w: %s is still owed %s with no debtor left",
			ErrDataIntegrity, creditors[c].memberID, creditors[c].remaining)
	}

	return plan, nil
}

// Replay applies a plan to a copy of balances: each transfer raises the
// payer's balance and lowers the receiver's. A correct plan replayed against
// the balances it was computed from yields all zeros.
func Replay(balances map[string]decimal.Decimal, plan []Transfer) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(balances))
	for id, bal := range balances {
		out[id] = bal
	}
	for _, t := range plan {
		out[t.From] = out[t.From].Add(t.Amount)
		out[t.To] = out[t.To].Sub(t.Amount)
	}
	return out
}

func byLargestFirst(a, b position) int {
	if n := b.remaining.Cmp(a.remaining); n != 0 {
		return n
	}
	return cmp.Compare(a.memberID, b.memberID)
}
