package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree() (*Account, *Account, *Account) {
	usd := NewCommodity("USD", 0)
	root := NewAccount("r", "Root", TypeRoot, nil)
	assets := NewAccount("a", "Assets", TypeAsset, &usd)
	bank := NewAccount("b", "Bank", TypeBank, &usd)
	checking := NewAccount("c", "Checking", TypeBank, &usd)
	root.AddChild(assets)
	assets.AddChild(bank)
	bank.AddChild(checking)
	return root, bank, checking
}

func TestFullName(t *testing.T) {
	root, bank, checking := newTree()
	assert.Equal(t, "", root.FullName())
	assert.Equal(t, "Assets.Bank", bank.FullName())
	assert.Equal(t, "Assets.Bank.Checking", checking.FullName())
}

func TestDescendantsPreOrder(t *testing.T) {
	root, _, _ := newTree()
	savings := NewAccount("s", "Savings", TypeBank, nil)
	root.Children()[0].Children()[0].AddChild(savings)

	var names []string
	for _, a := range root.Descendants() {
		names = append(names, a.FullName())
	}
	assert.Equal(t, []string{
		"Assets",
		"Assets.Bank",
		"Assets.Bank.Checking",
		"Assets.Bank.Savings",
	}, names)
}

func TestNewCommodityFraction(t *testing.T) {
	assert.Equal(t, int64(100), NewCommodity("USD", 0).Fraction)
	assert.Equal(t, int64(1), NewCommodity("JPY", 0).Fraction)
	assert.Equal(t, int64(1000), NewCommodity("USD", 1000).Fraction)
	// Unknown codes fall back to 2 decimal places.
	assert.Equal(t, int64(100), NewCommodity("XXQ", 0).Fraction)
}

func TestImbalance(t *testing.T) {
	usd := NewCommodity("USD", 0)
	tx := &Transaction{Currency: usd}
	tx.Splits = append(tx.Splits,
		&Split{Value: NewNumeric(-1234, 100)},
		&Split{Value: NewNumeric(1234, 100)},
	)
	require.True(t, tx.Imbalance().IsZero())

	tx.Splits = append(tx.Splits, &Split{Value: NewNumeric(1, 100)})
	assert.False(t, tx.Imbalance().IsZero())
}
