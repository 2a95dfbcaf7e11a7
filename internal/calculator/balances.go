package calculator

import (
	"sort"
	"time"

	"github.com/mmynk/duoledger/internal/models"
)

// Snapshot is the immutable input of every ledger computation: one project,
// its participants, and the transactions read in a single consistent pass.
type Snapshot struct {
	Project      models.Project
	Roles        map[string]models.Role
	Transactions []models.Transaction
}

// Balance is one participant's running totals in the reporting currency.
type Balance struct {
	Paid       float64 // total cash put down
	Liability  float64 // total fair share
	SettledNet float64 // repayments made minus repayments received
	NetBalance float64 // Positive = owed money, Negative = owes money
}

// Aggregate folds the snapshot into viewerID's balance. Transactions from
// other projects are ignored. A non-zero cutoff keeps only transactions
// dated on or before the cutoff's calendar day.
func Aggregate(snap Snapshot, viewerID string, cutoff time.Time) Balance {
	var b Balance
	limit := EndOfDay(cutoff)

	for _, tx := range snap.Transactions {
		if tx.ProjectID != snap.Project.ID {
			continue
		}
		if !cutoff.IsZero() && tx.Date.After(limit) {
			continue
		}

		if tx.Settles() {
			amount := finite(ToReportingCurrency(tx.Amount, tx.Currency, snap.Project.Rates))
			if tx.PayerID == viewerID {
				b.SettledNet += amount
			} else {
				b.SettledNet -= amount
			}
			continue
		}

		share := Resolve(tx, viewerID, snap.Roles, snap.Project)
		b.Paid += share.Paid
		b.Liability += share.Liability
	}

	b.NetBalance = (b.Paid - b.Liability) + b.SettledNet
	return b
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// MemberBalance is a participant's balance within a group view.
type MemberBalance struct {
	MemberID string
	Balance
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// GroupBalances computes every participant's balance and the simplified set
// of payments that would clear them.
//
// Settlements in a group view move money between the payer and the single
// counterpart of a two-person ledger; with more members a settlement only
// credits its payer, so group views are most meaningful for expense-only
// ledgers.
func GroupBalances(snap Snapshot, cutoff time.Time) ([]MemberBalance, []DebtEdge) {
	ids := make([]string, 0, len(snap.Roles))
	for id := range snap.Roles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	balances := make([]MemberBalance, 0, len(ids))
	for _, id := range ids {
		balances = append(balances, MemberBalance{MemberID: id, Balance: Aggregate(snap, id, cutoff)})
	}
	return balances, SimplifyDebts(balances)
}

// SimplifyDebts matches debtors with creditors greedily, largest first,
// producing at most n-1 payments.
func SimplifyDebts(balances []MemberBalance) []DebtEdge {
	type party struct {
		id     string
		amount float64
	}
	var creditors, debtors []party
	for _, b := range balances {
		if b.NetBalance > 0.01 {
			creditors = append(creditors, party{b.MemberID, b.NetBalance})
		} else if b.NetBalance < -0.01 {
			debtors = append(debtors, party{b.MemberID, -b.NetBalance})
		}
	}
	byAmount := func(p []party) func(i, j int) bool {
		return func(i, j int) bool {
			if p[i].amount != p[j].amount {
				return p[i].amount > p[j].amount
			}
			return p[i].id < p[j].id
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		if amount > 0.01 { // Avoid floating point noise
			edges = append(edges, DebtEdge{From: debtors[i].id, To: creditors[j].id, Amount: amount})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount < 0.01 {
			i++
		}
		if creditors[j].amount < 0.01 {
			j++
		}
	}
	return edges
}
