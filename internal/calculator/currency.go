package calculator

import (
	"sort"

	"github.com/mmynk/duoledger/internal/models"
)

// ToReportingCurrency converts amount from code into the reporting currency.
// A code with no rate passes through unchanged (rate 1). It never fails.
func ToReportingCurrency(amount float64, code string, rates map[string]float64) float64 {
	if code == models.ReportingCurrency || code == "" {
		return amount
	}
	rate, ok := rates[code]
	if !ok {
		return amount
	}
	return amount * rate
}

// MissingRates lists the foreign currencies used by txs that have no rate
// entry. Their amounts are being counted unconverted.
func MissingRates(txs []models.Transaction, rates map[string]float64) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, tx := range txs {
		code := tx.Currency
		if code == "" || code == models.ReportingCurrency || seen[code] {
			continue
		}
		seen[code] = true
		if _, ok := rates[code]; !ok {
			missing = append(missing, code)
		}
	}
	sort.Strings(missing)
	return missing
}
