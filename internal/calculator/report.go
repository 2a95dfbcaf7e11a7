package calculator

import (
	"fmt"
	"sort"
	"time"

	"github.com/mmynk/duoledger/internal/models"
)

// Mode selects which per-participant figure a report attributes.
type Mode string

const (
	// ModePaid attributes cash outlay: who put the money down.
	ModePaid Mode = "paid"
	// ModeShare attributes fair-share liability: what each person really spent.
	ModeShare Mode = "share"
	// ModePersonal attributes only spending a participant bears entirely.
	ModePersonal Mode = "personal"
)

// TrendMonths is the length of the trailing trend series.
const TrendMonths = 6

const monthLayout = "2006-01"

// Period restricts a report to a calendar month ("2024-05") or to an
// inclusive day range. The zero Period matches everything.
type Period struct {
	Month string
	From  time.Time
	To    time.Time
}

// Contains reports whether a transaction dated t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if p.Month != "" {
		return t.Format(monthLayout) == p.Month
	}
	if !p.From.IsZero() && t.Before(startOfDay(p.From)) {
		return false
	}
	if !p.To.IsZero() && t.After(EndOfDay(p.To)) {
		return false
	}
	return true
}

// Report aggregates one period of a project for charts.
type Report struct {
	Mode Mode

	// PerParticipant holds each participant's figure under Mode.
	PerParticipant map[string]float64

	// PerCategory holds the full converted amount of each category,
	// regardless of who paid or how it was split.
	PerCategory map[string]float64

	// TotalExpense is the converted total of every non-settlement transaction.
	TotalExpense float64
}

// CategoryShare is one slice of the category chart.
type CategoryShare struct {
	CategoryID string
	Amount     float64
	Percent    float64
}

// CategoryPercent is the category's share of TotalExpense, 0 when there is
// no spending.
func (r Report) CategoryPercent(categoryID string) float64 {
	return percent(r.PerCategory[categoryID], r.TotalExpense)
}

// ContributionRatio is the participant's share of TotalExpense, 0 when
// there is no spending.
func (r Report) ContributionRatio(participantID string) float64 {
	return percent(r.PerParticipant[participantID], r.TotalExpense)
}

// Categories lists the category slices, largest first.
func (r Report) Categories() []CategoryShare {
	out := make([]CategoryShare, 0, len(r.PerCategory))
	for id, amount := range r.PerCategory {
		out = append(out, CategoryShare{CategoryID: id, Amount: amount, Percent: r.CategoryPercent(id)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

// ContributionReport aggregates the snapshot's transactions inside period.
// Settlements never count as spending. Unknown modes fall back to ModePaid.
func ContributionReport(snap Snapshot, period Period, mode Mode) Report {
	attribute := attribution(mode)
	if mode != ModeShare && mode != ModePersonal {
		mode = ModePaid
	}

	r := Report{
		Mode:           mode,
		PerParticipant: make(map[string]float64, len(snap.Roles)),
		PerCategory:    make(map[string]float64),
	}
	for id := range snap.Roles {
		r.PerParticipant[id] = 0
	}

	for _, tx := range snap.Transactions {
		if tx.ProjectID != snap.Project.ID || tx.Settles() || !period.Contains(tx.Date) {
			continue
		}
		amount := finite(ToReportingCurrency(tx.Amount, tx.Currency, snap.Project.Rates))
		r.TotalExpense += amount
		r.PerCategory[tx.CategoryID] += amount
		for id := range snap.Roles {
			r.PerParticipant[id] += attribute(tx, id, snap, amount)
		}
	}
	return r
}

// TrendPoint is one month of the trend series.
type TrendPoint struct {
	Month string
	Report
}

// Trend repeats ContributionReport for the TrendMonths calendar months ending
// with month ("YYYY-MM"), oldest first.
func Trend(snap Snapshot, month string, mode Mode) ([]TrendPoint, error) {
	end, err := time.Parse(monthLayout, month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q: %w", month, err)
	}

	points := make([]TrendPoint, 0, TrendMonths)
	for i := TrendMonths - 1; i >= 0; i-- {
		m := end.AddDate(0, -i, 0).Format(monthLayout)
		points = append(points, TrendPoint{Month: m, Report: ContributionReport(snap, Period{Month: m}, mode)})
	}
	return points, nil
}

type attributeFunc func(tx models.Transaction, participantID string, snap Snapshot, amount float64) float64

func attribution(mode Mode) attributeFunc {
	switch mode {
	case ModeShare:
		return func(tx models.Transaction, id string, snap Snapshot, _ float64) float64 {
			return Resolve(tx, id, snap.Roles, snap.Project).Liability
		}
	case ModePersonal:
		return func(tx models.Transaction, id string, snap Snapshot, amount float64) float64 {
			liability := Resolve(tx, id, snap.Roles, snap.Project).Liability
			if amount > 0 && liability >= amount-1e-9 {
				return liability
			}
			return 0
		}
	default:
		return func(tx models.Transaction, id string, snap Snapshot, _ float64) float64 {
			return PaidBy(tx, id, snap.Project.Rates)
		}
	}
}

func percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
