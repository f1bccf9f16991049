package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookwright-dev/bookwright/internal/book"
	"github.com/bookwright-dev/bookwright/internal/id"
	"github.com/bookwright-dev/bookwright/internal/lockguard"
	"github.com/bookwright-dev/bookwright/internal/model"
	"github.com/bookwright-dev/bookwright/internal/session"
)

// newOpenService builds a fixture store, opens it read-write, and returns
// a Service over it.
func newOpenService(t *testing.T) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.ledger")

	usd := model.NewCommodity("USD", 100)
	eur := model.NewCommodity("EUR", 100)
	b := book.NewBook(path, book.ModeReadWrite)

	assets := model.NewAccount(id.New(), "Assets", model.TypeAsset, &usd)
	bank := model.NewAccount(id.New(), "Bank", model.TypeBank, &usd)
	checking := model.NewAccount(id.New(), "Checking", model.TypeBank, &usd)
	savings := model.NewAccount(id.New(), "Savings", model.TypeBank, &usd)
	expenses := model.NewAccount(id.New(), "Expenses", model.TypeExpense, &usd)
	groceries := model.NewAccount(id.New(), "Groceries", model.TypeExpense, &usd)
	travel := model.NewAccount(id.New(), "Travel", model.TypeExpense, &eur)
	limbo := model.NewAccount(id.New(), "Limbo", model.TypeAsset, nil)

	b.AddAccount(nil, assets)
	b.AddAccount(assets, bank)
	b.AddAccount(bank, checking)
	b.AddAccount(bank, savings)
	b.AddAccount(nil, expenses)
	b.AddAccount(expenses, groceries)
	b.AddAccount(expenses, travel)
	b.AddAccount(nil, limbo)

	require.NoError(t, b.Save())
	require.NoError(t, b.Close())

	guard := lockguard.NewWithProbe(func(context.Context) (bool, error) { return false, nil }, zap.NewNop())
	mgr := session.NewManager(book.ModeReadWrite, guard, zap.NewNop())
	require.NoError(t, mgr.Open(path, false))
	t.Cleanup(mgr.ShutdownCleanup)

	return NewService(mgr), path
}

func TestListAccountsSortedAndStable(t *testing.T) {
	svc, _ := newOpenService(t)

	first, err := svc.ListAccounts()
	require.NoError(t, err)
	second, err := svc.ListAccounts()
	require.NoError(t, err)

	var paths []string
	for _, a := range first {
		paths = append(paths, a.FullName())
	}
	assert.Equal(t, []string{
		"Assets",
		"Assets.Bank",
		"Assets.Bank.Checking",
		"Assets.Bank.Savings",
		"Expenses",
		"Expenses.Groceries",
		"Expenses.Travel",
		"Limbo",
	}, paths)
	assert.Equal(t, first, second, "listing must be stable while the tree is unchanged")
}

func TestOperationsWithoutSession(t *testing.T) {
	guard := lockguard.NewWithProbe(func(context.Context) (bool, error) { return false, nil }, zap.NewNop())
	mgr := session.NewManager(book.ModeReadOnly, guard, zap.NewNop())
	svc := NewService(mgr)

	_, err := svc.ListAccounts()
	require.ErrorIs(t, err, session.ErrNoSession)
	_, err = svc.Balance("Checking")
	require.ErrorIs(t, err, session.ErrNoSession)
	_, err = svc.Transfer(TransferParams{Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, session.ErrNoSession)
}

func TestTransferRoundTripScaling(t *testing.T) {
	svc, _ := newOpenService(t)

	sum, err := svc.Transfer(TransferParams{
		From:        "Checking",
		To:          "Groceries",
		Amount:      decimal.RequireFromString("12.34"),
		Description: "Weekly shop",
		Date:        "2025-04-05",
		Memo:        "market",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", sum.Currency)
	assert.Equal(t, "Assets.Bank.Checking", sum.FromPath)
	assert.Equal(t, "Expenses.Groceries", sum.ToPath)

	b, err := svc.Sessions().Current()
	require.NoError(t, err)
	require.Len(t, b.Transactions(), 1)
	tx := b.Transactions()[0]

	require.Len(t, tx.Splits, 2)
	assert.Equal(t, int64(-1234), tx.Splits[0].Value.Num)
	assert.Equal(t, int64(1234), tx.Splits[1].Value.Num)
	assert.Equal(t, int64(100), tx.Splits[0].Value.Denom)
	assert.Equal(t, "market", tx.Splits[0].Memo)
	assert.Equal(t, "market", tx.Splits[1].Memo)
	assert.True(t, tx.Imbalance().IsZero(), "balance law")

	// Re-deriving the decimal amount yields the original figure.
	assert.Equal(t, "12.34", tx.Splits[1].Value.String())
	assert.Equal(t, "2025-04-05", tx.PostedDate.Format("2006-01-02"))
}

func TestTransferValidation(t *testing.T) {
	svc, _ := newOpenService(t)

	tests := []struct {
		name   string
		params TransferParams
		check  func(t *testing.T, err error)
	}{
		{
			name:   "zero amount",
			params: TransferParams{From: "Checking", To: "Groceries", Amount: decimal.Zero},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidAmount)
			},
		},
		{
			name:   "negative amount",
			params: TransferParams{From: "Checking", To: "Groceries", Amount: decimal.NewFromInt(-5)},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidAmount)
			},
		},
		{
			name:   "unknown source",
			params: TransferParams{From: "Nope", To: "Groceries", Amount: decimal.NewFromInt(1)},
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "Nope", nf.Name)
			},
		},
		{
			name:   "unknown destination",
			params: TransferParams{From: "Checking", To: "Nowhere", Amount: decimal.NewFromInt(1)},
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "Nowhere", nf.Name)
			},
		},
		{
			name:   "source without commodity",
			params: TransferParams{From: "Limbo", To: "Groceries", Amount: decimal.NewFromInt(1)},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingCommodity)
			},
		},
		{
			name:   "currency mismatch",
			params: TransferParams{From: "Checking", To: "Travel", Amount: decimal.NewFromInt(1)},
			check: func(t *testing.T, err error) {
				var cm *CurrencyMismatchError
				require.ErrorAs(t, err, &cm)
				assert.Equal(t, "USD", cm.From)
				assert.Equal(t, "EUR", cm.To)
			},
		},
		{
			name:   "bad date",
			params: TransferParams{From: "Checking", To: "Groceries", Amount: decimal.NewFromInt(1), Date: "05/04/2025"},
			check: func(t *testing.T, err error) {
				var ide *InvalidDateError
				require.ErrorAs(t, err, &ide)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Transfer(tt.params)
			require.Error(t, err)
			tt.check(t, err)

			// A rejected transfer leaves no partial state behind.
			b, berr := svc.Sessions().Current()
			require.NoError(t, berr)
			assert.Empty(t, b.Transactions())
		})
	}
}

func TestTransferDefaultsToToday(t *testing.T) {
	svc, _ := newOpenService(t)
	sum, err := svc.Transfer(TransferParams{
		From:        "Checking",
		To:          "Groceries",
		Amount:      decimal.NewFromInt(3),
		Description: "snack",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), sum.Date, time.Minute)
}

func TestBalancePartitions(t *testing.T) {
	svc, _ := newOpenService(t)

	// Three committed transfers, then adjust reconcile states directly.
	for _, amt := range []string{"10.00", "20.00", "40.00"} {
		_, err := svc.Transfer(TransferParams{
			From:   "Checking",
			To:     "Groceries",
			Amount: decimal.RequireFromString(amt),
		})
		require.NoError(t, err)
	}

	rep, err := svc.Balance("Groceries")
	require.NoError(t, err)
	acc := rep.Account
	require.Len(t, acc.Splits(), 3)

	acc.Splits()[0].State = model.StateReconciled
	acc.Splits()[1].State = model.StateCleared

	rep, err = svc.Balance("Groceries")
	require.NoError(t, err)
	assert.Equal(t, "70.00", rep.Balances.Current.String())
	assert.Equal(t, "30.00", rep.Balances.Cleared.String())
	assert.Equal(t, "10.00", rep.Balances.Reconciled.String())

	// The source side is the exact negation.
	rep, err = svc.Balance("Checking")
	require.NoError(t, err)
	assert.Equal(t, "-70.00", rep.Balances.Current.String())
}

func TestRecentActivityLimit(t *testing.T) {
	svc, _ := newOpenService(t)
	for i := 1; i <= 5; i++ {
		_, err := svc.Transfer(TransferParams{
			From:        "Checking",
			To:          "Groceries",
			Amount:      decimal.NewFromInt(int64(i)),
			Description: "tx",
		})
		require.NoError(t, err)
	}

	rep, err := svc.RecentActivity("Groceries", 2)
	require.NoError(t, err)
	require.Len(t, rep.Splits, 2)
	// Most-recent-last: the last two postings survive the cut.
	assert.Equal(t, int64(400), rep.Splits[0].Value.Num)
	assert.Equal(t, int64(500), rep.Splits[1].Value.Num)
}

func TestAccountInfo(t *testing.T) {
	svc, _ := newOpenService(t)
	info, err := svc.AccountInfo("Assets.Bank")
	require.NoError(t, err)
	assert.Equal(t, model.TypeBank, info.Account.Type)
	assert.Equal(t, []string{"Checking", "Savings"}, info.Children)
	assert.Zero(t, info.SplitCount)
}

func TestCommitPersists(t *testing.T) {
	svc, path := newOpenService(t)
	_, err := svc.Transfer(TransferParams{
		From:   "Checking",
		To:     "Groceries",
		Amount: decimal.RequireFromString("7.50"),
	})
	require.NoError(t, err)
	require.NoError(t, svc.Commit())

	closed, err := svc.Sessions().Close()
	require.NoError(t, err)
	require.True(t, closed)

	reopened, err := book.Open(path, book.ModeReadOnly)
	require.NoError(t, err)
	require.Len(t, reopened.Transactions(), 1)
}
