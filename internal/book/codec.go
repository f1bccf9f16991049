package book

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/bookwright-dev/bookwright/internal/model"
)

// The store file is JSONL: one self-identifying object per line, accounts
// first (pre-order, parents before children), then transactions in commit
// order.

const (
	kindAccount     = "account"
	kindTransaction = "transaction"

	dateLayout = "2006-01-02"
)

type accountLine struct {
	Kind        string `json:"kind"`
	GUID        string `json:"guid"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Parent      string `json:"parent,omitempty"` // empty = child of root
	Description string `json:"description,omitempty"`
	Code        string `json:"code,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Fraction    int64  `json:"fraction,omitempty"`
}

type splitLine struct {
	GUID        string `json:"guid"`
	Account     string `json:"account"`
	ValueNum    int64  `json:"value_num"`
	ValueDenom  int64  `json:"value_denom"`
	AmountNum   int64  `json:"amount_num"`
	AmountDenom int64  `json:"amount_denom"`
	Memo        string `json:"memo,omitempty"`
	State       string `json:"state,omitempty"`
}

type transactionLine struct {
	Kind        string      `json:"kind"`
	GUID        string      `json:"guid"`
	Currency    string      `json:"currency"`
	Fraction    int64       `json:"fraction"`
	Posted      string      `json:"posted"`
	Entered     string      `json:"entered"`
	Description string      `json:"description,omitempty"`
	Splits      []splitLine `json:"splits"`
}

func decodeInto(b *Book, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		switch identifier.Kind {
		case kindAccount:
			var al accountLine
			if err := json.Unmarshal(line, &al); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if err := b.decodeAccount(al); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		case kindTransaction:
			var tl transactionLine
			if err := json.Unmarshal(line, &tl); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if err := b.decodeTransaction(tl); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			return fmt.Errorf("line %d: unknown kind %q", lineNo, identifier.Kind)
		}
	}
	return scanner.Err()
}

func (b *Book) decodeAccount(al accountLine) error {
	var commodity *model.Commodity
	if al.Currency != "" {
		c := model.NewCommodity(al.Currency, al.Fraction)
		commodity = &c
	}

	acc := model.NewAccount(al.GUID, al.Name, model.AccountType(al.Type), commodity)
	acc.Description = al.Description
	acc.Code = al.Code

	var parent *model.Account
	if al.Parent != "" {
		p, ok := b.byID[al.Parent]
		if !ok {
			return fmt.Errorf("account %s: unknown parent %s", al.GUID, al.Parent)
		}
		parent = p
	}
	b.AddAccount(parent, acc)
	return nil
}

func (b *Book) decodeTransaction(tl transactionLine) error {
	posted, err := time.Parse(dateLayout, tl.Posted)
	if err != nil {
		return fmt.Errorf("transaction %s: bad posted date: %w", tl.GUID, err)
	}
	entered, err := time.Parse(time.RFC3339, tl.Entered)
	if err != nil {
		return fmt.Errorf("transaction %s: bad entered date: %w", tl.GUID, err)
	}

	tx := &model.Transaction{
		ID:          tl.GUID,
		Currency:    model.NewCommodity(tl.Currency, tl.Fraction),
		PostedDate:  posted,
		EnteredDate: entered,
		Description: tl.Description,
	}
	for _, sl := range tl.Splits {
		acc, ok := b.byID[sl.Account]
		if !ok {
			return fmt.Errorf("transaction %s: unknown account %s", tl.GUID, sl.Account)
		}
		s := &model.Split{
			ID:      sl.GUID,
			Account: acc,
			Tx:      tx,
			Value:   model.NewNumeric(sl.ValueNum, sl.ValueDenom),
			Amount:  model.NewNumeric(sl.AmountNum, sl.AmountDenom),
			Memo:    sl.Memo,
			State:   model.ReconcileState(sl.State),
		}
		if s.State == "" {
			s.State = model.StateNew
		}
		tx.Splits = append(tx.Splits, s)
		acc.PostSplit(s)
	}
	b.txs = append(b.txs, tx)
	return nil
}

func encode(b *Book, w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	for _, acc := range b.root.Descendants() {
		al := accountLine{
			Kind:        kindAccount,
			GUID:        acc.ID,
			Name:        acc.Name,
			Type:        string(acc.Type),
			Description: acc.Description,
			Code:        acc.Code,
		}
		if acc.Parent() != nil && acc.Parent() != b.root {
			al.Parent = acc.Parent().ID
		}
		if acc.Commodity != nil {
			al.Currency = acc.Commodity.Mnemonic
			al.Fraction = acc.Commodity.Fraction
		}
		if err := enc.Encode(al); err != nil {
			return err
		}
	}

	for _, tx := range b.txs {
		tl := transactionLine{
			Kind:        kindTransaction,
			GUID:        tx.ID,
			Currency:    tx.Currency.Mnemonic,
			Fraction:    tx.Currency.Fraction,
			Posted:      tx.PostedDate.Format(dateLayout),
			Entered:     tx.EnteredDate.Format(time.RFC3339),
			Description: tx.Description,
		}
		for _, s := range tx.Splits {
			tl.Splits = append(tl.Splits, splitLine{
				GUID:        s.ID,
				Account:     s.Account.ID,
				ValueNum:    s.Value.Num,
				ValueDenom:  s.Value.Denom,
				AmountNum:   s.Amount.Num,
				AmountDenom: s.Amount.Denom,
				Memo:        s.Memo,
				State:       string(s.State),
			})
		}
		if err := enc.Encode(tl); err != nil {
			return err
		}
	}
	return bw.Flush()
}
