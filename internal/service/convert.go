package service

import (
	"fmt"
	"math"
	"time"

	"github.com/mmynk/duoledger/internal/calculator"
	"github.com/mmynk/duoledger/internal/models"
	"github.com/mmynk/duoledger/pkg/api"
)

// parseDate reads a wire date as midnight UTC of that calendar day.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(api.DateLayout, value)
	if err != nil {
		return time.Time{}, &calculator.ValidationError{Field: field, Reason: fmt.Errorf("want YYYY-MM-DD, got %q", value)}
	}
	return t, nil
}

// parseOptionalDate returns the zero time for an empty value.
func parseOptionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseDate(field, value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(api.DateLayout)
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func userToProto(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func projectToProto(p *models.Project, members []models.Member) *api.Project {
	out := &api.Project{
		ID:        p.ID,
		Name:      p.Name,
		Type:      string(p.Type),
		Rates:     p.Rates,
		CreatedAt: p.CreatedAt,
	}
	for _, m := range members {
		out.Members = append(out.Members, &api.Member{
			UserID:      m.UserID,
			Role:        string(m.Role),
			DisplayName: m.DisplayName,
		})
	}
	return out
}

func transactionToProto(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:           t.ID,
		ProjectID:    t.ProjectID,
		Title:        t.Title,
		Amount:       t.Amount,
		Currency:     t.Currency,
		PayerID:      t.PayerID,
		SplitType:    string(t.SplitType),
		CustomSplit:  t.CustomSplit,
		CategoryID:   t.CategoryID,
		Date:         formatDate(t.Date),
		IsSettlement: t.IsSettlement,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// transactionFromProto converts the editable fields. An empty date means
// today and an empty currency the reporting currency.
func transactionFromProto(t *api.Transaction, now time.Time) (models.Transaction, error) {
	date := today(now)
	if t.Date != "" {
		d, err := parseDate("date", t.Date)
		if err != nil {
			return models.Transaction{}, err
		}
		date = d
	}
	currency := t.Currency
	if currency == "" {
		currency = models.ReportingCurrency
	}
	return models.Transaction{
		ProjectID:    t.ProjectID,
		Title:        t.Title,
		Amount:       t.Amount,
		Currency:     currency,
		PayerID:      t.PayerID,
		SplitType:    models.SplitType(t.SplitType),
		CustomSplit:  t.CustomSplit,
		CategoryID:   t.CategoryID,
		Date:         date,
		IsSettlement: t.IsSettlement,
	}, nil
}

func subscriptionToProto(s *models.Subscription) *api.Subscription {
	return &api.Subscription{
		ID:              s.ID,
		ProjectID:       s.ProjectID,
		Title:           s.Title,
		Amount:          s.Amount,
		Currency:        s.Currency,
		PayerID:         s.PayerID,
		SplitType:       string(s.SplitType),
		CustomSplit:     s.CustomSplit,
		CategoryID:      s.CategoryID,
		Cycle:           string(s.Cycle),
		NextPaymentDate: formatDate(s.NextPaymentDate),
		CreatedBy:       s.CreatedBy,
	}
}

func balanceToProto(b calculator.Balance) *api.Balance {
	return &api.Balance{
		Paid:       calculator.RoundMoney(b.Paid),
		Liability:  calculator.RoundMoney(b.Liability),
		SettledNet: calculator.RoundMoney(b.SettledNet),
		NetBalance: calculator.RoundMoney(b.NetBalance),
	}
}

func settlementToProto(s calculator.Settlement) *api.Settlement {
	return &api.Settlement{
		Amount:     calculator.RoundMoney(s.Amount),
		CreditorID: s.CreditorID,
		DebtorID:   s.DebtorID,
	}
}

func reportToProto(r calculator.Report, participants []string) *api.Report {
	out := &api.Report{
		Mode:         string(r.Mode),
		TotalExpense: calculator.RoundMoney(r.TotalExpense),
	}
	for _, id := range participants {
		out.Participants = append(out.Participants, &api.ParticipantShare{
			ParticipantID: id,
			Amount:        calculator.RoundMoney(r.PerParticipant[id]),
			Ratio:         calculator.RoundMoney(r.ContributionRatio(id)),
		})
	}
	for _, c := range r.Categories() {
		out.Categories = append(out.Categories, &api.CategoryShare{
			CategoryID: c.CategoryID,
			Amount:     calculator.RoundMoney(c.Amount),
			Percent:    calculator.RoundMoney(c.Percent),
		})
	}
	return out
}

// validateRates rejects non-positive and non-finite rates. The reporting
// currency is implicit and dropped.
func validateRates(rates map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(rates))
	for code, rate := range rates {
		if code == models.ReportingCurrency {
			continue
		}
		if code == "" || !(rate > 0) || math.IsInf(rate, 0) {
			return nil, &calculator.ValidationError{Field: "rates", Reason: fmt.Errorf("rate for %q must be a positive number", code)}
		}
		out[code] = rate
	}
	return out, nil
}
