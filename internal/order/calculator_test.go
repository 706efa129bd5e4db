package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotalsSingleLine(t *testing.T) {
	lines := []ResolvedLine{
		{CartLine: CartLine{ProductId: 1, SizeId: 1, Quantity: 1}, ProductName: "Latte", UnitPrice: 20000},
	}

	totals, err := CalculateTotals(lines, DefaultTaxPercent)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), totals.Subtotal)
	assert.Equal(t, int64(1000), totals.Tax)
	assert.Equal(t, int64(21000), totals.GrandTotal)
}

func TestCalculateTotalsInvariant(t *testing.T) {
	// tax is 5% rounded half-up: 4990 -> 249.5 -> 250, 4980 -> 249, 9 -> 0
	cases := []struct {
		name    string
		prices  []int64
		wantSub int64
		wantTax int64
	}{
		{"two lines", []int64{20000, 15000}, 35000, 1750},
		{"rounds half up", []int64{4990}, 4990, 250},
		{"rounds down", []int64{4980}, 4980, 249},
		{"small amount", []int64{9}, 9, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lines := make([]ResolvedLine, 0, len(tc.prices))
			for i, p := range tc.prices {
				lines = append(lines, ResolvedLine{
					CartLine:  CartLine{ProductId: int64(i + 1), SizeId: 1, Quantity: 1},
					UnitPrice: p,
				})
			}
			totals, err := CalculateTotals(lines, DefaultTaxPercent)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSub, totals.Subtotal)
			assert.Equal(t, tc.wantTax, totals.Tax)
			assert.Equal(t, totals.Subtotal+totals.Tax, totals.GrandTotal)
		})
	}
}

func TestCalculateTotalsQuantity(t *testing.T) {
	lines := []ResolvedLine{
		{CartLine: CartLine{ProductId: 1, SizeId: 1, Quantity: 3}, UnitPrice: 10000},
		{CartLine: CartLine{ProductId: 2, SizeId: 1, Quantity: 0}, UnitPrice: 5000}, // counts as 1
	}

	totals, err := CalculateTotals(lines, DefaultTaxPercent)
	require.NoError(t, err)
	assert.Equal(t, int64(35000), totals.Subtotal)
	assert.Equal(t, int64(1750), totals.Tax)
	assert.Equal(t, int64(36750), totals.GrandTotal)
}

func TestCalculateTotalsEmpty(t *testing.T) {
	_, err := CalculateTotals(nil, DefaultTaxPercent)
	assert.ErrorIs(t, err, ErrCalculation)
}

func TestCalculateTotalsNegativePrice(t *testing.T) {
	lines := []ResolvedLine{{CartLine: CartLine{ProductId: 1}, UnitPrice: -100}}
	_, err := CalculateTotals(lines, DefaultTaxPercent)
	assert.ErrorIs(t, err, ErrCalculation)
}
