package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/mmynk/duoledger/internal/models"
)

const (
	host  = "host-uid"
	guest = "guest-uid"
)

var twoRoles = map[string]models.Role{host: models.RoleHost, guest: models.RoleGuest}

func publicProject(rates map[string]float64) models.Project {
	return models.Project{ID: "daily", Type: models.ProjectPublic, Rates: rates}
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func expense(id string, amount float64, payer string, split models.SplitType, date string) models.Transaction {
	return models.Transaction{
		ID:         id,
		ProjectID:  "daily",
		Amount:     amount,
		Currency:   models.ReportingCurrency,
		PayerID:    payer,
		SplitType:  split,
		CategoryID: "food",
		Date:       day(date),
	}
}

func repayment(id string, amount float64, payer, date string) models.Transaction {
	tx := models.NewSettlement("daily", payer, amount, day(date), payer)
	tx.ID = id
	return tx
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
