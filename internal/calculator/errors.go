package calculator

import "errors"

var (
	// ErrInvalidInput marks ledger data that breaks an input precondition:
	// negative amounts, members missing from the roster, or splits that do
	// not add up to their expense.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataIntegrity marks a ledger that is not closed: balances do not
	// sum to zero, or the debt plan leaves an unmatched remainder.
	ErrDataIntegrity = errors.New("data integrity violation")
)
