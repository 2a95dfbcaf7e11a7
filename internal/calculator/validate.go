package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/duoledger/internal/models"
)

// Validate is the write-boundary check every transaction passes before it
// is stored. The aggregation functions never call it: stored history is
// evaluated fail-soft.
func Validate(tx models.Transaction, project models.Project, roles map[string]models.Role) error {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		return invalid("amount", fmt.Errorf("not a number"))
	}
	if tx.Amount < 0 {
		return invalid("amount", ErrNegativeAmount)
	}
	if !tx.SplitType.Known() {
		return invalid("split_type", fmt.Errorf("%w: %q", ErrUnknownSplitType, tx.SplitType))
	}
	if _, ok := roles[tx.PayerID]; !ok {
		return invalid("payer_id", fmt.Errorf("%w: %q", ErrNotParticipant, tx.PayerID))
	}

	switch tx.SplitType {
	case models.SplitHostAll, models.SplitGuestAll, models.SplitSelf, models.SplitPartner:
		if len(roles) != 2 {
			return invalid("split_type", fmt.Errorf("%w: %s", ErrTwoPartyOnly, tx.SplitType))
		}
		if !hostGuestPair(roles) {
			return invalid("split_type", fmt.Errorf("%w: %s", ErrHostGuestPair, tx.SplitType))
		}
	case models.SplitCustom, models.SplitMultiPayer:
		if len(tx.CustomSplit) == 0 {
			return invalid("custom_split", fmt.Errorf("required for %s", tx.SplitType))
		}
		for id, v := range tx.CustomSplit {
			if _, ok := roles[id]; !ok {
				return invalid("custom_split", fmt.Errorf("%w: %q", ErrNotParticipant, id))
			}
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return invalid("custom_split", fmt.Errorf("share for %q must be a non-negative number", id))
			}
		}
		if err := checkSplitSum(tx, project.Rates); err != nil {
			return invalid("custom_split", err)
		}
	case models.SplitSettlement:
		if !tx.IsSettlement {
			return invalid("is_settlement", fmt.Errorf("settlement split requires the settlement flag"))
		}
	}
	return nil
}

func checkSplitSum(tx models.Transaction, rates map[string]float64) error {
	diff := sumSplit(tx.CustomSplit).Sub(decimal.NewFromFloat(tx.Amount))
	d, _ := diff.Float64()
	if math.Abs(ToReportingCurrency(d, tx.Currency, rates)) > SplitTolerance {
		return fmt.Errorf("%w: split total %s, amount %v", ErrSplitMismatch, sumSplit(tx.CustomSplit).String(), tx.Amount)
	}
	return nil
}
