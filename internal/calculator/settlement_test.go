package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/duoledger/internal/models"
)

func TestCurrentSettlement(t *testing.T) {
	snap := Snapshot{
		Project: publicProject(map[string]float64{"USD": 31.5}),
		Roles:   twoRoles,
		Transactions: []models.Transaction{
			expense("a", 1000, host, models.SplitEven, "2024-05-01"),
			repayment("b", 300, guest, "2024-05-02"),
		},
	}

	fromHost, err := CurrentSettlement(snap, host)
	if err != nil {
		t.Fatalf("CurrentSettlement(host) error = %v", err)
	}
	fromGuest, err := CurrentSettlement(snap, guest)
	if err != nil {
		t.Fatalf("CurrentSettlement(guest) error = %v", err)
	}

	approx(t, "host amount", fromHost.Amount, 200)
	approx(t, "guest amount", fromGuest.Amount, 200)
	if fromHost.CreditorID != host || fromHost.DebtorID != guest {
		t.Errorf("host view = %+v, want host creditor", fromHost)
	}
	if fromGuest.CreditorID != host || fromGuest.DebtorID != guest {
		t.Errorf("guest view = %+v, want host creditor", fromGuest)
	}
}

func TestCurrentSettlement_Symmetry(t *testing.T) {
	snap := Snapshot{
		Project: publicProject(map[string]float64{"USD": 31.5, "JPY": 0.21}),
		Roles:   twoRoles,
		Transactions: []models.Transaction{
			expense("a", 1000, host, models.SplitEven, "2024-05-01"),
			{ID: "b", ProjectID: "daily", Amount: 40, Currency: "USD", PayerID: guest, SplitType: models.SplitCustom,
				CustomSplit: map[string]float64{host: 25, guest: 15}, Date: day("2024-05-03")},
			{ID: "c", ProjectID: "daily", Amount: 3000, Currency: "JPY", PayerID: guest, SplitType: models.SplitHostAll, Date: day("2024-05-04")},
			{ID: "d", ProjectID: "daily", Amount: 900, Currency: "TWD", PayerID: host, SplitType: models.SplitMultiPayer,
				CustomSplit: map[string]float64{host: 100, guest: 800}, Date: day("2024-05-05")},
			repayment("e", 120, host, "2024-05-06"),
		},
	}

	a, err := CurrentSettlement(snap, host)
	if err != nil {
		t.Fatal(err)
	}
	b, err := CurrentSettlement(snap, guest)
	if err != nil {
		t.Fatal(err)
	}

	approx(t, "amount", a.Amount, b.Amount)
	if a.CreditorID != b.CreditorID || a.DebtorID != b.DebtorID || a.CreditorID == a.DebtorID {
		t.Errorf("views disagree: host=%+v guest=%+v", a, b)
	}
}

func TestCurrentSettlement_RequiresTwoParticipants(t *testing.T) {
	snap := Snapshot{Project: publicProject(nil), Roles: map[string]models.Role{host: models.RoleHost}}
	if _, err := CurrentSettlement(snap, host); !errors.Is(err, ErrTwoPartyOnly) {
		t.Errorf("expected ErrTwoPartyOnly, got %v", err)
	}
	if _, err := CurrentSettlement(Snapshot{Roles: twoRoles}, "stranger"); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}
}

func TestCurrentSettlement_ZeroIsSymmetric(t *testing.T) {
	snap := Snapshot{
		Project: publicProject(nil),
		Roles:   twoRoles,
		Transactions: []models.Transaction{
			expense("a", 1000, host, models.SplitEven, "2024-05-01"),
			repayment("b", 500, guest, "2024-05-02"),
		},
	}

	fromHost, err := CurrentSettlement(snap, host)
	if err != nil {
		t.Fatalf("CurrentSettlement(host) error = %v", err)
	}
	fromGuest, err := CurrentSettlement(snap, guest)
	if err != nil {
		t.Fatalf("CurrentSettlement(guest) error = %v", err)
	}

	if fromHost != fromGuest {
		t.Errorf("views disagree at zero: host %+v, guest %+v", fromHost, fromGuest)
	}
	if fromHost.Amount != 0 || fromHost.DebtorID != guest || fromHost.CreditorID != host {
		t.Errorf("expected zero ordered by ID, got %+v", fromHost)
	}
}

func TestHistoricalSettlementAsOf(t *testing.T) {
	// Guest owes 800 by May 10, then pays 1200 of shared costs on May 20.
	snap := Snapshot{
		Project: publicProject(nil),
		Roles:   twoRoles,
		Transactions: []models.Transaction{
			expense("a", 1600, host, models.SplitEven, "2024-05-01"),
			expense("b", 1200, guest, models.SplitEven, "2024-05-20"),
		},
	}

	tests := []struct {
		name        string
		viewer      string
		cutoff      string
		wantAmount  float64
		wantRaw     float64
		wantCurrent float64
		wantWarning bool
	}{
		{"debtor with later payments is clamped", guest, "2024-05-10", 200, 800, 200, true},
		{"creditor view is never clamped", host, "2024-05-10", 800, 800, 200, false},
		{"cutoff after everything", guest, "2024-05-31", 200, 200, 200, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HistoricalSettlementAsOf(snap, tt.viewer, day(tt.cutoff))
			if err != nil {
				t.Fatalf("HistoricalSettlementAsOf() error = %v", err)
			}
			approx(t, "Amount", got.Amount, tt.wantAmount)
			approx(t, "RawPeriodAmount", got.RawPeriodAmount, tt.wantRaw)
			approx(t, "CurrentTotalAmount", got.CurrentTotalAmount, tt.wantCurrent)
			if got.ShowWarning != tt.wantWarning {
				t.Errorf("ShowWarning = %v, want %v", got.ShowWarning, tt.wantWarning)
			}
			if got.CreditorID != host || got.DebtorID != guest {
				t.Errorf("direction = %s <- %s, want host <- guest", got.CreditorID, got.DebtorID)
			}
			if got.ShowWarning && got.Amount > got.RawPeriodAmount {
				t.Errorf("clamped amount %v exceeds raw %v", got.Amount, got.RawPeriodAmount)
			}
		})
	}
}

func TestHistoricalSettlementAsOf_DirectionFromPeriod(t *testing.T) {
	// Guest owed 500 as of May 1; by now the guest is owed 100.
	snap := Snapshot{
		Project: publicProject(nil),
		Roles:   twoRoles,
		Transactions: []models.Transaction{
			expense("a", 1000, host, models.SplitEven, "2024-05-01"),
			expense("b", 1200, guest, models.SplitEven, "2024-06-01"),
		},
	}
	got, err := HistoricalSettlementAsOf(snap, guest, day("2024-05-01"))
	if err != nil {
		t.Fatal(err)
	}
	if got.DebtorID != guest || got.CreditorID != host {
		t.Errorf("direction must come from the cutoff balance, got %+v", got.Settlement)
	}
	if !got.ShowWarning {
		t.Error("expected warning")
	}
	approx(t, "Amount", got.Amount, 100)
}

func TestHistoricalSettlementAsOf_Tolerance(t *testing.T) {
	snap := Snapshot{
		Project: publicProject(nil),
		Roles:   twoRoles,
		Transactions: []models.Transaction{
			expense("a", 1600, host, models.SplitEven, "2024-05-01"),
			expense("b", 1.6, guest, models.SplitEven, "2024-05-20"),
		},
	}
	got, err := HistoricalSettlementAsOf(snap, guest, day("2024-05-10"))
	if err != nil {
		t.Fatal(err)
	}
	if got.ShowWarning {
		t.Errorf("a 0.8 difference is within tolerance, got warning")
	}
	if math.Abs(got.Amount-800) > 1e-9 {
		t.Errorf("Amount = %v, want 800", got.Amount)
	}
}
