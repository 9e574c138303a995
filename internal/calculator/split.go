package calculator

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// SplitMethod selects how an expense amount is divided among participants.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "EQUAL"
	SplitExact      SplitMethod = "EXACT"
	SplitPercentage SplitMethod = "PERCENTAGE"
)

var (
	cent    = decimal.New(1, -2)
	hundred = decimal.NewFromInt(100)
)

// Share is one participant's input to SplitExpense.
// Value is ignored for SplitEqual, is the owed amount for SplitExact and the
// percentage for SplitPercentage.
type Share struct {
	MemberID string
	Value    decimal.Decimal
}

// SplitExpense computes split entries that sum exactly to amount.
//
// For EQUAL and PERCENTAGE every share is truncated to whole cents and the
// cents lost to truncation go, one each, to the participants whose exact
// share lost the most; ties keep the order given. 100 split three ways is
// 33.34, 33.33, 33.33, and a participant at 0% is never charged a cent.
func SplitExpense(method SplitMethod, amount decimal.Decimal, shares []Share) ([]SplitEntry, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(shares))
	for _, s := range shares {
		if s.MemberID == "" {
			return nil, fmt.Errorf("%w: participant without ID", ErrInvalidInput)
		}
		if _, dup := seen[s.MemberID]; dup {
			return nil, fmt.Errorf("%w: participant %s listed twice", ErrInvalidInput, s.MemberID)
		}
		seen[s.MemberID] = struct{}{}
	}

	switch method {
	case SplitEqual:
		return splitEqually(amount, shares)
	case SplitExact:
		return splitExactly(amount, shares)
	case SplitPercentage:
		return splitByPercentage(amount, shares)
	default:
		return nil, fmt.Errorf("%w: unknown split method %q", ErrInvalidInput, method)
	}
}

func splitEqually(amount decimal.Decimal, shares []Share) ([]SplitEntry, error) {
	exact := amount.Div(decimal.NewFromInt(int64(len(shares))))

	entries := make([]SplitEntry, len(shares))
	exacts := make([]decimal.Decimal, len(shares))
	for i, s := range shares {
		entries[i] = SplitEntry{MemberID: s.MemberID, Amount: exact.Truncate(2)}
		exacts[i] = exact
	}
	distributeRemainder(amount, exacts, entries)
	return entries, nil
}

func splitExactly(amount decimal.Decimal, shares []Share) ([]SplitEntry, error) {
	total := decimal.Zero
	entries := make([]SplitEntry, len(shares))
	for i, s := range shares {
		if s.Value.IsNegative() {
			return nil, fmt.Errorf("%w: negative share %s for %s", ErrInvalidInput, s.Value, s.MemberID)
		}
		if err := requireWholeCents(s.Value); err != nil {
			return nil, fmt.Errorf("share for %s: %w", s.MemberID, err)
		}
		total = total.Add(s.Value)
		entries[i] = SplitEntry{MemberID: s.MemberID, Amount: s.Value}
	}
	if !total.Equal(amount) {
		return nil, fmt.Errorf("%w: splits sum to %s, must equal total %s", ErrInvalidInput, total, amount)
	}
	return entries, nil
}

func splitByPercentage(amount decimal.Decimal, shares []Share) ([]SplitEntry, error) {
	totalPct := decimal.Zero
	entries := make([]SplitEntry, len(shares))
	exacts := make([]decimal.Decimal, len(shares))
	for i, s := range shares {
		if s.Value.IsNegative() {
			return nil, fmt.Errorf("%w: negative percentage %s for %s", ErrInvalidInput, s.Value, s.MemberID)
		}
		totalPct = totalPct.Add(s.Value)
		exacts[i] = amount.Mul(s.Value).Div(hundred)
		entries[i] = SplitEntry{MemberID: s.MemberID, Amount: exacts[i].Truncate(2)}
	}
	if !totalPct.Equal(hundred) {
		return nil, fmt.Errorf("%w: percentages sum to %s, must equal 100", ErrInvalidInput, totalPct)
	}
	distributeRemainder(amount, exacts, entries)
	return entries, nil
}

// distributeRemainder adds the cents lost to truncation using the
// largest-remainder method: entries are ranked by how much truncation took
// from their exact share, and each of the top ones gets one cent. An entry
// whose exact share was already whole cents (a 0% share, say) lost nothing
// and is only reached after every entry that did lose something.
func distributeRemainder(amount decimal.Decimal, exacts []decimal.Decimal, entries []SplitEntry) {
	allocated := decimal.Zero
	for _, e := range entries {
		allocated = allocated.Add(e.Amount)
	}
	remaining := amount.Sub(allocated)
	if !remaining.IsPositive() {
		return
	}

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	lost := func(i int) decimal.Decimal { return exacts[i].Sub(entries[i].Amount) }
	slices.SortStableFunc(order, func(a, b int) int {
		return lost(b).Cmp(lost(a))
	})

	for _, i := range order {
		if !remaining.IsPositive() {
			break
		}
		entries[i].Amount = entries[i].Amount.Add(cent)
		remaining = remaining.Sub(cent)
	}
}

// ValidateAmount checks that an expense or settlement amount is positive
// and in whole cents.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidInput, amount)
	}
	return requireWholeCents(amount)
}

func requireWholeCents(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("%w: amount %s has fractions of a cent", ErrInvalidInput, amount)
	}
	return nil
}
