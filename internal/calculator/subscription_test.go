package calculator

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/mmynk/duoledger/internal/models"
)

func monthly(next string, billingDay int) models.Subscription {
	return models.Subscription{
		ID:              "netflix",
		ProjectID:       "daily",
		Title:           "Netflix",
		Amount:          390,
		Currency:        "TWD",
		PayerID:         host,
		SplitType:       models.SplitEven,
		CategoryID:      "fun",
		Cycle:           models.CycleMonthly,
		BillingDay:      billingDay,
		NextPaymentDate: day(next),
	}
}

func TestMaterialize_CatchesUp(t *testing.T) {
	got := Materialize(monthly("2024-01-15", 15), day("2024-03-20"))

	assert.Equal(t, 3, len(got.Transactions))
	assert.Equal(t, day("2024-04-15"), got.NextPaymentDate)
	assert.Equal(t, "sub-netflix-20240115", got.Transactions[0].ID)
	assert.Equal(t, day("2024-03-15"), got.Transactions[2].Date)
	assert.Equal(t, "daily", got.Transactions[1].ProjectID)
}

func TestMaterialize_NotDue(t *testing.T) {
	got := Materialize(monthly("2024-04-15", 15), day("2024-04-14"))
	assert.Equal(t, 0, len(got.Transactions))
	assert.Equal(t, day("2024-04-15"), got.NextPaymentDate)
}

func TestMaterialize_DueOnTheDay(t *testing.T) {
	got := Materialize(monthly("2024-04-15", 15), day("2024-04-15").Add(time.Hour))
	assert.Equal(t, 1, len(got.Transactions))
}

func TestMaterialize_BoundedPerRun(t *testing.T) {
	got := Materialize(monthly("2020-01-01", 1), day("2024-06-01"))
	assert.Equal(t, MaxChargesPerRun, len(got.Transactions))
	assert.Equal(t, day("2021-01-01"), got.NextPaymentDate)
}

func TestMaterialize_Weekly(t *testing.T) {
	sub := monthly("2024-02-26", 0)
	sub.Cycle = models.CycleWeekly
	got := Materialize(sub, day("2024-03-11"))
	assert.Equal(t, 3, len(got.Transactions))
	assert.Equal(t, day("2024-03-18"), got.NextPaymentDate)
}

func TestNextCharge_ClampsToMonthEnd(t *testing.T) {
	sub := monthly("2024-01-31", 31)

	tests := []struct {
		from string
		want string
	}{
		{"2024-01-31", "2024-02-29"},
		{"2024-02-29", "2024-03-31"},
		{"2024-03-31", "2024-04-30"},
		{"2023-01-31", "2023-02-28"},
		{"2024-12-31", "2025-01-31"},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, day(tt.want), NextCharge(sub, day(tt.from)))
		})
	}
}

func TestNextCharge_WithoutBillingDay(t *testing.T) {
	sub := monthly("2024-01-31", 0)
	assert.Equal(t, day("2024-02-29"), NextCharge(sub, day("2024-01-31")))
	assert.Equal(t, day("2024-03-29"), NextCharge(sub, day("2024-02-29")))
}
