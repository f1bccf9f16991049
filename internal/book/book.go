// Package book is the store adapter for a persistent ledger file. It owns
// the account tree, the committed transactions, and the exclusive lock the
// file format requires for writers.
package book

import (
	"errors"
	"fmt"
	"time"

	"github.com/bookwright-dev/bookwright/internal/id"
	"github.com/bookwright-dev/bookwright/internal/model"
)

// Mode is the access mode of an open book.
type Mode string

const (
	ModeReadOnly  Mode = "read-only"
	ModeReadWrite Mode = "read-write"
)

// ErrLocked means another writer holds the store's exclusive lock.
var ErrLocked = errors.New("store is locked by another process")

// Book is an open ledger store: one account tree, ordered transactions.
type Book struct {
	path string
	mode Mode
	root *model.Account
	byID map[string]*model.Account
	txs  []*model.Transaction

	// ownsLock is true when this book created the lock file and must
	// remove it on Close.
	ownsLock bool
}

// NewBook creates an empty in-memory book rooted at a fresh ROOT account.
func NewBook(path string, mode Mode) *Book {
	root := model.NewAccount(id.New(), "Root Account", model.TypeRoot, nil)
	return &Book{
		path: path,
		mode: mode,
		root: root,
		byID: map[string]*model.Account{root.ID: root},
	}
}

func (b *Book) Path() string         { return b.path }
func (b *Book) Mode() Mode           { return b.mode }
func (b *Book) Root() *model.Account { return b.root }

// Transactions returns all committed transactions in commit order.
func (b *Book) Transactions() []*model.Transaction { return b.txs }

// AddAccount attaches acc under parent (nil means the root) and indexes it.
func (b *Book) AddAccount(parent, acc *model.Account) {
	if parent == nil {
		parent = b.root
	}
	parent.AddChild(acc)
	b.byID[acc.ID] = acc
}

// AccountByID returns an account by GUID.
func (b *Book) AccountByID(guid string) (*model.Account, bool) {
	a, ok := b.byID[guid]
	return a, ok
}

// TxBuilder is an open edit scope on a new transaction. Nothing touches
// the book until Commit succeeds.
type TxBuilder struct {
	book *Book
	tx   *model.Transaction
}

// NewTransaction opens an edit scope for a transaction in the given
// currency.
func (b *Book) NewTransaction(currency model.Commodity, description string, posted, entered time.Time) *TxBuilder {
	return &TxBuilder{
		book: b,
		tx: &model.Transaction{
			ID:          id.New(),
			Currency:    currency,
			PostedDate:  posted,
			EnteredDate: entered,
			Description: description,
		},
	}
}

// AddSplit stages one leg against an account.
func (tb *TxBuilder) AddSplit(acc *model.Account, value, amount model.Numeric, memo string) {
	tb.tx.Splits = append(tb.tx.Splits, &model.Split{
		ID:      id.New(),
		Account: acc,
		Tx:      tb.tx,
		Value:   value,
		Amount:  amount,
		Memo:    memo,
		State:   model.StateNew,
	})
}

// Commit re-validates the double-entry balance law and, only then, makes
// the transaction durable in the open book: it is appended to the
// transaction list and its splits are linked into their accounts.
func (tb *TxBuilder) Commit() (*model.Transaction, error) {
	if len(tb.tx.Splits) < 2 {
		return nil, fmt.Errorf("transaction needs at least 2 splits, got %d", len(tb.tx.Splits))
	}
	if imb := tb.tx.Imbalance(); !imb.IsZero() {
		return nil, fmt.Errorf("transaction does not balance: off by %s %s", imb, tb.tx.Currency.Mnemonic)
	}

	tb.book.txs = append(tb.book.txs, tb.tx)
	for _, s := range tb.tx.Splits {
		s.Account.PostSplit(s)
	}
	return tb.tx, nil
}
