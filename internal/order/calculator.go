package order

// Totals holds the computed order amounts in the smallest currency unit.
type Totals struct {
	Subtotal   int64 `json:"subtotal"`
	Tax        int64 `json:"tax"`
	GrandTotal int64 `json:"grand_total"`
}

// DefaultTaxPercent is the fixed checkout tax rate.
const DefaultTaxPercent int64 = 5

// CalculateTotals sums the resolved lines into subtotal, tax and grand
// total. Quantity participates explicitly: a line with qty <= 0 counts as
// one unit. Tax is rounded half-up to the nearest integer unit.
func CalculateTotals(lines []ResolvedLine, taxPercent int64) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, ErrCalculation
	}
	if taxPercent < 0 {
		taxPercent = DefaultTaxPercent
	}

	var subtotal int64
	for _, line := range lines {
		qty := int64(line.Quantity)
		if qty <= 0 {
			qty = 1
		}
		if line.UnitPrice < 0 {
			return Totals{}, ErrCalculation
		}
		subtotal += line.UnitPrice * qty
	}

	tax := roundHalfUp(subtotal*taxPercent, 100)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal + tax,
	}, nil
}

// roundHalfUp divides n by div rounding half away from zero. Amounts are
// never negative here, so half-up suffices.
func roundHalfUp(n, div int64) int64 {
	return (n + div/2) / div
}
