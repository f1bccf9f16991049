package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookwright-dev/bookwright/internal/model"
)

// TransferParams describe a directed transfer: money flows out of From
// and into To.
type TransferParams struct {
	From        string
	To          string
	Amount      decimal.Decimal
	Description string
	Date        string // YYYY-MM-DD, empty = today
	Memo        string
}

// TransferSummary reports a committed transfer.
type TransferSummary struct {
	Amount   decimal.Decimal
	Currency string
	FromPath string
	ToPath   string
	Date     time.Time
}

// Transfer validates and commits a balanced two-split transaction.
// Validation runs before anything is constructed, so a rejected transfer
// leaves no partial transaction or split behind. The commit makes the
// transaction durable in the open book only; callers persist to disk
// separately via Commit/Save.
func (s *Service) Transfer(p TransferParams) (*TransferSummary, error) {
	b, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}

	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	from := Resolve(b.Root(), p.From)
	if from == nil {
		return nil, &NotFoundError{Name: p.From}
	}
	to := Resolve(b.Root(), p.To)
	if to == nil {
		return nil, &NotFoundError{Name: p.To}
	}

	if from.Commodity == nil {
		return nil, ErrMissingCommodity
	}
	if to.Commodity != nil && to.Commodity.Mnemonic != from.Commodity.Mnemonic {
		return nil, &CurrencyMismatchError{From: from.Commodity.Mnemonic, To: to.Commodity.Mnemonic}
	}

	posted := time.Now()
	if p.Date != "" {
		posted, err = time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, &InvalidDateError{Input: p.Date}
		}
	}

	// Scale to the commodity's fractional denominator; the two legs are
	// exact negations, so the zero-sum law holds by construction.
	scaled := model.FromDecimal(p.Amount, from.Commodity.Fraction)

	tb := b.NewTransaction(*from.Commodity, p.Description, posted, time.Now())
	tb.AddSplit(from, scaled.Neg(), scaled.Neg(), p.Memo)
	tb.AddSplit(to, scaled, scaled, p.Memo)
	if _, err := tb.Commit(); err != nil {
		return nil, err
	}

	return &TransferSummary{
		Amount:   p.Amount,
		Currency: from.Commodity.Mnemonic,
		FromPath: from.FullName(),
		ToPath:   to.FullName(),
		Date:     posted,
	}, nil
}
