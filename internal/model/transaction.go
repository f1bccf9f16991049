package model

import "time"

// ReconcileState is the reconciliation flag on a split.
type ReconcileState string

const (
	StateNew        ReconcileState = "n"
	StateCleared    ReconcileState = "c"
	StateReconciled ReconcileState = "y"
)

// Split is one leg of a double-entry transaction, posted against exactly
// one account. Its account and parent transaction are fixed at creation.
type Split struct {
	ID      string
	Account *Account
	Tx      *Transaction
	Value   Numeric // in the transaction's currency
	Amount  Numeric // in the account's currency; equal to Value when they match
	Memo    string
	State   ReconcileState
}

// Transaction is an ordered set of splits that sum to exactly zero in the
// transaction currency.
type Transaction struct {
	ID          string
	Currency    Commodity
	PostedDate  time.Time
	EnteredDate time.Time
	Description string
	Splits      []*Split
}

// Imbalance returns the sum of all split values. Zero for a balanced
// transaction.
func (t *Transaction) Imbalance() Numeric {
	sum := NewNumeric(0, t.Currency.Fraction)
	for _, s := range t.Splits {
		sum = sum.Add(s.Value)
	}
	return sum
}
