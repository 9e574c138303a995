package models

import "github.com/shopspring/decimal"

// Expense is an amount paid by one group member on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a short label (e.g., "Groceries").
	Description string

	// Amount is the total paid. Always positive.
	Amount decimal.Decimal

	// PaidBy is the user ID of the member who paid.
	PaidBy string

	// CreatedBy is the user ID of the member who recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// Deleted marks a soft-deleted expense. Deleted expenses are kept
	// for history but excluded from balances.
	Deleted bool

	// Splits apportion Amount among participants.
	// A well-formed expense has splits summing to Amount.
	Splits []Split
}

// Split is one participant's share of an expense.
type Split struct {
	UserID     string
	OwedAmount decimal.Decimal
}
