package models

import (
	"sort"
	"time"
)

// SplitType determines how a transaction's amount is divided into liabilities.
type SplitType string

const (
	SplitEven       SplitType = "even"
	SplitCustom     SplitType = "custom"
	SplitHostAll    SplitType = "host_all"
	SplitGuestAll   SplitType = "guest_all"
	SplitSelf       SplitType = "self"
	SplitPartner    SplitType = "partner"
	SplitMultiPayer SplitType = "multi_payer"
	SplitSettlement SplitType = "settlement"
)

// Known reports whether s is one of the split types the ledger understands.
func (s SplitType) Known() bool {
	switch s {
	case SplitEven, SplitCustom, SplitHostAll, SplitGuestAll,
		SplitSelf, SplitPartner, SplitMultiPayer, SplitSettlement:
		return true
	}
	return false
}

// ReportingCurrency is the currency every balance is expressed in.
const ReportingCurrency = "TWD"

// Transaction is a single ledger entry.
type Transaction struct {
	// ID is the unique identifier (UUID, or sub-<id>-<yyyymmdd> for
	// materialized subscription charges).
	ID string

	// ProjectID scopes the transaction to one project.
	ProjectID string

	// Title is a free-form description ("Groceries", "Rent").
	Title string

	// Amount is the non-negative total in Currency.
	Amount float64

	// Currency is an ISO-like code. ReportingCurrency needs no conversion.
	Currency string

	// PayerID is the participant who physically paid.
	// For multi_payer transactions the CustomSplit holds the actual outlays.
	PayerID string

	// SplitType selects the liability rule.
	SplitType SplitType

	// CustomSplit maps participant ID to an amount in Currency.
	// Required for custom and multi_payer.
	CustomSplit map[string]float64

	// CategoryID references a Category. Used only for reporting.
	CategoryID string

	// Date is the calendar day the transaction belongs to.
	Date time.Time

	// IsSettlement marks an actual repayment between participants.
	IsSettlement bool

	// CreatedBy is the user who recorded the transaction.
	CreatedBy string

	CreatedAt int64
	UpdatedAt int64
}

// Settles reports whether the transaction is a repayment rather than an expense.
func (t Transaction) Settles() bool {
	return t.IsSettlement || t.SplitType == SplitSettlement
}

// SortNewestFirst orders transactions by date descending. Within the same
// day the lexicographically greater ID comes first.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		di, dj := dayKey(txs[i].Date), dayKey(txs[j].Date)
		if di != dj {
			return di > dj
		}
		return txs[i].ID > txs[j].ID
	})
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
