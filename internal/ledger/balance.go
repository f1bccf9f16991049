package ledger

import (
	"github.com/bookwright-dev/bookwright/internal/model"
)

// Balances are the three balance figures of one account, in the account's
// own commodity.
type Balances struct {
	Current    model.Numeric // all splits
	Cleared    model.Numeric // cleared and reconciled splits
	Reconciled model.Numeric // reconciled splits only
}

// ComputeBalances sums the account's own splits' amounts partitioned by
// reconciliation state. It never recurses into child accounts: balances
// are per-account, matching the leaf-level posting model. Nothing is
// cached; every call recomputes from the split list.
func ComputeBalances(acc *model.Account) Balances {
	fraction := int64(1)
	if acc.Commodity != nil {
		fraction = acc.Commodity.Fraction
	}

	b := Balances{
		Current:    model.NewNumeric(0, fraction),
		Cleared:    model.NewNumeric(0, fraction),
		Reconciled: model.NewNumeric(0, fraction),
	}
	for _, s := range acc.Splits() {
		b.Current = b.Current.Add(s.Amount)
		switch s.State {
		case model.StateCleared:
			b.Cleared = b.Cleared.Add(s.Amount)
		case model.StateReconciled:
			b.Cleared = b.Cleared.Add(s.Amount)
			b.Reconciled = b.Reconciled.Add(s.Amount)
		}
	}
	return b
}
