package models

import "time"

// Cycle is how often a subscription charges.
type Cycle string

const (
	CycleMonthly Cycle = "monthly"
	CycleWeekly  Cycle = "weekly"
)

// Subscription is a recurring charge that turns into transactions once due.
type Subscription struct {
	// ID is the unique identifier (UUID format).
	ID string

	ProjectID   string
	Title       string
	Amount      float64
	Currency    string
	PayerID     string
	SplitType   SplitType
	CustomSplit map[string]float64
	CategoryID  string

	// Cycle is monthly or weekly.
	Cycle Cycle

	// BillingDay is the day of month monthly charges anchor to. A charge on
	// the 31st falls on the last day of shorter months and returns to the
	// 31st afterwards.
	BillingDay int

	// NextPaymentDate is the date of the next charge to materialize.
	NextPaymentDate time.Time

	CreatedBy string
	CreatedAt int64
}
