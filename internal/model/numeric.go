package model

import (
	"github.com/shopspring/decimal"
)

// Numeric is an exact fixed-point amount: an integer numerator over the
// commodity's fractional denominator (100 for a 2-decimal currency).
// Currency math never passes through a binary float; conversion to a
// decimal string happens only at the output boundary.
type Numeric struct {
	Num   int64
	Denom int64
}

// NewNumeric returns num/denom. A zero denom is normalized to 1.
func NewNumeric(num, denom int64) Numeric {
	if denom == 0 {
		denom = 1
	}
	return Numeric{Num: num, Denom: denom}
}

// FromDecimal scales d by denom and rounds to the nearest unit,
// e.g. 12.34 with denom 100 becomes 1234/100.
func FromDecimal(d decimal.Decimal, denom int64) Numeric {
	if denom == 0 {
		denom = 1
	}
	scaled := d.Mul(decimal.NewFromInt(denom)).Round(0)
	return Numeric{Num: scaled.IntPart(), Denom: denom}
}

// Add returns n + m. Mismatched denominators are combined exactly over
// their least common multiple, keeping the denominator from growing when
// amounts with related fractions are summed repeatedly.
func (n Numeric) Add(m Numeric) Numeric {
	if n.Denom == m.Denom {
		return Numeric{Num: n.Num + m.Num, Denom: n.Denom}
	}
	denom := n.Denom / gcd(n.Denom, m.Denom) * m.Denom
	return Numeric{Num: n.Num*(denom/n.Denom) + m.Num*(denom/m.Denom), Denom: denom}
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Neg returns -n.
func (n Numeric) Neg() Numeric {
	return Numeric{Num: -n.Num, Denom: n.Denom}
}

func (n Numeric) IsZero() bool     { return n.Num == 0 }
func (n Numeric) IsPositive() bool { return n.Num > 0 }

// Decimal returns the exact decimal value num/denom.
func (n Numeric) Decimal() decimal.Decimal {
	return decimal.New(n.Num, 0).Div(decimal.New(n.Denom, 0))
}

// String renders the amount with two decimal places, the display
// convention for ledger balances.
func (n Numeric) String() string {
	return n.Decimal().StringFixed(2)
}
