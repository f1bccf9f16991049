package ledger

import (
	"errors"
	"fmt"
)

// Closed set of domain error kinds. They are carried as structured errors
// and rendered to text only at the tool boundary.
var (
	// ErrInvalidAmount rejects zero or negative transfer amounts.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrMissingCommodity means the source account has no currency set.
	ErrMissingCommodity = errors.New("source account has no currency/commodity set")
)

// NotFoundError reports a query that resolved to no account.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %q not found", e.Name)
}

// CurrencyMismatchError reports a transfer between accounts of different
// currencies. Multi-currency transfers are not supported.
type CurrencyMismatchError struct {
	From, To string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("account currencies don't match (%s vs %s): multi-currency transactions are not supported", e.From, e.To)
}

// InvalidDateError reports a date that is not a YYYY-MM-DD calendar date.
type InvalidDateError struct {
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: use YYYY-MM-DD", e.Input)
}
