package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name  string
		price string
		qty   int
		want  string
	}{
		{"single unit", "7.50", 1, "7.50"},
		{"multiple units", "6.90", 3, "20.70"},
		{"repeating decimal price", "0.10", 3, "0.30"},
		{"zero quantity", "9.99", 0, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(MustMoney(tt.price), tt.qty)
			assert.Equal(t, tt.want, MoneyString(got))
		})
	}
}

func TestSumCents(t *testing.T) {
	// 0.1 + 0.2 is the classic float trap; cents arithmetic must give
	// exactly 0.30.
	got := SumCents(MustMoney("0.10"), MustMoney("0.20"))
	assert.Equal(t, "0.30", MoneyString(got))

	// A long chain of small amounts must not drift.
	amounts := make([]Money, 100)
	for i := range amounts {
		amounts[i] = MustMoney("0.01")
	}
	assert.Equal(t, "1.00", MoneyString(SumCents(amounts...)))

	assert.Equal(t, "0.00", MoneyString(SumCents()))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, "10.46", MoneyString(RoundCents(MustMoney("10.455"))))
	assert.Equal(t, "-2.50", MoneyString(RoundCents(MustMoney("-2.5"))))
}

func TestValidVATRate(t *testing.T) {
	for _, r := range []VATRate{VAT0, VAT2_1, VAT5_5, VAT20} {
		assert.True(t, ValidVATRate(r), string(r))
	}
	assert.False(t, ValidVATRate("19.6"))
	assert.False(t, ValidVATRate(""))
}
