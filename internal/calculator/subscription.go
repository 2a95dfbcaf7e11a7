package calculator

import (
	"fmt"
	"time"

	"github.com/mmynk/duoledger/internal/models"
)

// MaxChargesPerRun bounds how many charges one Materialize call emits, so a
// long-stale subscription catches up over several runs.
const MaxChargesPerRun = 12

// Materialized is the outcome of one materialization run.
type Materialized struct {
	Transactions    []models.Transaction
	NextPaymentDate time.Time
}

// Materialize emits one transaction per charge due on or before asOf's day
// and returns the advanced next payment date.
func Materialize(sub models.Subscription, asOf time.Time) Materialized {
	out := Materialized{NextPaymentDate: sub.NextPaymentDate}
	if sub.NextPaymentDate.IsZero() {
		return out
	}
	limit := EndOfDay(asOf)

	for i := 0; i < MaxChargesPerRun && !out.NextPaymentDate.After(limit); i++ {
		due := out.NextPaymentDate
		out.Transactions = append(out.Transactions, models.Transaction{
			ID:          ChargeID(sub.ID, due),
			ProjectID:   sub.ProjectID,
			Title:       sub.Title,
			Amount:      sub.Amount,
			Currency:    sub.Currency,
			PayerID:     sub.PayerID,
			SplitType:   sub.SplitType,
			CustomSplit: copySplit(sub.CustomSplit),
			CategoryID:  sub.CategoryID,
			Date:        due,
			CreatedBy:   sub.CreatedBy,
		})
		out.NextPaymentDate = NextCharge(sub, due)
	}
	return out
}

// NextCharge advances from one charge date by the subscription's cycle.
// Monthly charges land on BillingDay (or the charge's own day when unset),
// clamped to the last day of shorter months.
func NextCharge(sub models.Subscription, from time.Time) time.Time {
	if sub.Cycle == models.CycleWeekly {
		return from.AddDate(0, 0, 7)
	}

	day := sub.BillingDay
	if day <= 0 {
		day = from.Day()
	}
	y, m, _ := from.Date()
	first := time.Date(y, m+1, 1, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	if last := daysIn(first); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// ChargeID is the deterministic ID of a subscription charge, so rerunning a
// materialization cannot duplicate a charge.
func ChargeID(subscriptionID string, due time.Time) string {
	return fmt.Sprintf("sub-%s-%s", subscriptionID, due.Format("20060102"))
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

func copySplit(split map[string]float64) map[string]float64 {
	if split == nil {
		return nil
	}
	out := make(map[string]float64, len(split))
	for k, v := range split {
		out[k] = v
	}
	return out
}
