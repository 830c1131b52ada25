// Package types provides shared monetary and VAT types.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point drift; persisted as
// NUMERIC(12,2) and rendered as 2-decimal strings.
type Money = decimal.Decimal

// ParseMoney creates a Money value from a 2-decimal string.
func ParseMoney(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundCents rounds to 2 decimal places, the precision of every persisted
// price and total.
func RoundCents(m Money) Money {
	return m.Round(2)
}

// LineTotal multiplies a unit price by a quantity and rounds to cents.
// This is the only place a cart/sale line amount is ever computed.
func LineTotal(unitPrice Money, quantity int) Money {
	return RoundCents(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// SumCents adds amounts in integer cents and converts back, so aggregation
// never accumulates sub-cent residue.
func SumCents(amounts ...Money) Money {
	var cents int64
	for _, a := range amounts {
		cents += a.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	}
	return decimal.New(cents, -2)
}

// MoneyString renders a Money as a fixed 2-decimal string ("10.00").
func MoneyString(m Money) string {
	return m.StringFixed(2)
}

// VATRate is the sales-tax percentage tag attached to items and sale lines.
type VATRate string

const (
	VAT0   VATRate = "0"
	VAT2_1 VATRate = "2.1"
	VAT5_5 VATRate = "5.5"
	VAT20  VATRate = "20"
)

// ValidVATRate reports whether r is one of the allowed percentages.
func ValidVATRate(r VATRate) bool {
	switch r {
	case VAT0, VAT2_1, VAT5_5, VAT20:
		return true
	}
	return false
}
