package model

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	TypeBank       AccountType = "BANK"
	TypeCash       AccountType = "CASH"
	TypeAsset      AccountType = "ASSET"
	TypeCredit     AccountType = "CREDIT"
	TypeLiability  AccountType = "LIABILITY"
	TypeStock      AccountType = "STOCK"
	TypeMutual     AccountType = "MUTUAL"
	TypeCurrency   AccountType = "CURRENCY"
	TypeIncome     AccountType = "INCOME"
	TypeExpense    AccountType = "EXPENSE"
	TypeEquity     AccountType = "EQUITY"
	TypeReceivable AccountType = "RECEIVABLE"
	TypePayable    AccountType = "PAYABLE"
	TypeRoot       AccountType = "ROOT"
	TypeTrading    AccountType = "TRADING"
)

// Commodity is a currency with an integer fractional denominator defining
// its smallest representable increment (100 for USD, 1 for JPY).
type Commodity struct {
	Mnemonic string
	Fraction int64
}

// NewCommodity builds a Commodity for a currency code. When fraction is 0
// the denominator is derived from the ISO currency registry; unknown codes
// default to 2 decimal places.
func NewCommodity(mnemonic string, fraction int64) Commodity {
	if fraction == 0 {
		digits := 2
		if cur := money.GetCurrency(mnemonic); cur != nil {
			digits = cur.Fraction
		}
		fraction = int64(math.Pow10(digits))
	}
	return Commodity{Mnemonic: mnemonic, Fraction: fraction}
}

// Account is a node in the strictly hierarchical account tree. Every
// non-root account has exactly one parent; the full dot-separated path is
// derived from tree position, never stored.
type Account struct {
	ID          string
	Name        string
	Type        AccountType
	Description string
	Code        string
	Commodity   *Commodity

	parent   *Account
	children []*Account
	splits   []*Split
}

// NewAccount creates a detached account node.
func NewAccount(guid, name string, typ AccountType, commodity *Commodity) *Account {
	return &Account{ID: guid, Name: name, Type: typ, Commodity: commodity}
}

// AddChild appends child to a's ordered children and sets its parent.
func (a *Account) AddChild(child *Account) {
	child.parent = a
	a.children = append(a.children, child)
}

// Parent returns the parent account, nil for the root.
func (a *Account) Parent() *Account { return a.parent }

// Children returns the ordered child accounts.
func (a *Account) Children() []*Account { return a.children }

// FullName returns the dot-separated path from the first non-root
// ancestor down to this account, e.g. "Assets.Bank.Checking".
func (a *Account) FullName() string {
	var parts []string
	for acc := a; acc != nil && acc.Type != TypeRoot; acc = acc.parent {
		parts = append(parts, acc.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Descendants returns all accounts below a in pre-order. The enumeration
// order is the documented tie-break for name resolution.
func (a *Account) Descendants() []*Account {
	var out []*Account
	var walk func(*Account)
	walk = func(acc *Account) {
		for _, c := range acc.children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(a)
	return out
}

// Splits returns the splits posted against this account, in posting order.
func (a *Account) Splits() []*Split { return a.splits }

// PostSplit links a committed split to the account. Called only from the
// book's transaction commit path.
func (a *Account) PostSplit(s *Split) { a.splits = append(a.splits, s) }
