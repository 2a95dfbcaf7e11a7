package calculator

import "github.com/shopspring/decimal"

// SplitTolerance is how far, in reporting-currency units, a custom split may
// drift from the transaction amount and still be accepted.
const SplitTolerance = 0.1

// RoundMoney rounds a reporting-currency amount half away from zero to
// whole cents for display.
func RoundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(finite(v)).Round(2).Float64()
	return f
}

// sumSplit adds split values exactly, so the tolerance check is not
// affected by summation order.
func sumSplit(split map[string]float64) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range split {
		sum = sum.Add(decimal.NewFromFloat(finite(v)))
	}
	return sum
}
