package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/duoledger/internal/models"
	"github.com/mmynk/duoledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createProject(t *testing.T, store *SQLiteStore, name string, rates map[string]float64) *models.Project {
	t.Helper()
	project := &models.Project{Name: name, Rates: rates}
	owner := models.Member{UserID: "alice", Role: models.RoleHost, DisplayName: "Alice"}
	if err := store.CreateProject(context.Background(), project, owner); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if err := store.AddMember(context.Background(), models.Member{ProjectID: project.ID, UserID: "bob", Role: models.RoleGuest}); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	return project
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("lookup by email and id", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil || byEmail == nil {
			t.Fatalf("GetUserByEmail = %v, %v", byEmail, err)
		}
		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil || byID == nil {
			t.Fatalf("GetUserByID = %v, %v", byID, err)
		}
		if byID.Email != byEmail.Email || byID.PasswordHash != "hash" {
			t.Errorf("Unexpected user: %+v", byID)
		}
	})

	t.Run("unknown user is nil", func(t *testing.T) {
		u, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if u != nil {
			t.Errorf("Expected nil user, got %+v", u)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		if err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "x")); err == nil {
			t.Error("Expected duplicate email to fail")
		}
	})
}

func TestProjects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	project := createProject(t, store, "travel", map[string]float64{"JPY": 0.22, "USD": 32})

	t.Run("GetProject returns rates", func(t *testing.T) {
		got, err := store.GetProject(ctx, project.ID)
		if err != nil {
			t.Fatalf("GetProject failed: %v", err)
		}
		if got.Name != "travel" || got.Type != models.ProjectPublic {
			t.Errorf("Unexpected project: %+v", got)
		}
		if got.Rates["JPY"] != 0.22 || got.Rates["USD"] != 32 {
			t.Errorf("Unexpected rates: %v", got.Rates)
		}
	})

	t.Run("SetRates replaces rates", func(t *testing.T) {
		if err := store.SetRates(ctx, project.ID, map[string]float64{"EUR": 35}); err != nil {
			t.Fatalf("SetRates failed: %v", err)
		}
		got, err := store.GetProject(ctx, project.ID)
		if err != nil {
			t.Fatalf("GetProject failed: %v", err)
		}
		if len(got.Rates) != 1 || got.Rates["EUR"] != 35 {
			t.Errorf("Expected only EUR, got %v", got.Rates)
		}
	})

	t.Run("members and listing", func(t *testing.T) {
		members, err := store.ListMembers(ctx, project.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		roles := models.Roles(members)
		if roles["alice"] != models.RoleHost || roles["bob"] != models.RoleGuest {
			t.Errorf("Unexpected roles: %v", roles)
		}

		projects, err := store.ListProjectsForUser(ctx, "bob")
		if err != nil {
			t.Fatalf("ListProjectsForUser failed: %v", err)
		}
		if len(projects) != 1 || projects[0].ID != project.ID {
			t.Errorf("Unexpected projects: %v", projects)
		}
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := store.GetProject(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		err = store.AddMember(ctx, models.Member{ProjectID: "missing", UserID: "carol", Role: models.RoleGuest})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	project := createProject(t, store, "daily", nil)

	t.Run("CreateTransaction generates ID and keeps split", func(t *testing.T) {
		tx := &models.Transaction{
			ProjectID:   project.ID,
			Title:       "Groceries",
			Amount:      300,
			Currency:    "TWD",
			PayerID:     "alice",
			SplitType:   models.SplitCustom,
			CustomSplit: map[string]float64{"alice": 100, "bob": 200},
			CategoryID:  "food",
			Date:        date(2024, time.May, 3),
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if tx.ID == "" || tx.CreatedAt == 0 {
			t.Fatalf("Expected ID and CreatedAt to be set: %+v", tx)
		}

		got, err := store.GetTransaction(ctx, tx.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if got.Title != "Groceries" || got.SplitType != models.SplitCustom || !got.Date.Equal(tx.Date) {
			t.Errorf("Unexpected transaction: %+v", got)
		}
		if got.CustomSplit["alice"] != 100 || got.CustomSplit["bob"] != 200 {
			t.Errorf("Unexpected split: %v", got.CustomSplit)
		}
	})

	t.Run("UpdateTransaction replaces split", func(t *testing.T) {
		tx := &models.Transaction{
			ProjectID: project.ID, Amount: 50, Currency: "TWD", PayerID: "bob",
			SplitType: models.SplitMultiPayer, CustomSplit: map[string]float64{"alice": 20, "bob": 30},
			Date: date(2024, time.May, 4),
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		tx.SplitType = models.SplitEven
		tx.CustomSplit = nil
		tx.Amount = 60
		if err := store.UpdateTransaction(ctx, tx); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}
		got, err := store.GetTransaction(ctx, tx.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if got.Amount != 60 || got.SplitType != models.SplitEven || len(got.CustomSplit) != 0 {
			t.Errorf("Unexpected transaction after update: %+v", got)
		}
	})

	t.Run("missing transaction", func(t *testing.T) {
		if _, err := store.GetTransaction(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetTransaction: expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteTransaction(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteTransaction: expected ErrNotFound, got %v", err)
		}
		err := store.UpdateTransaction(ctx, &models.Transaction{ID: "missing", ProjectID: project.ID})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateTransaction: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListTransactions is newest first", func(t *testing.T) {
		settle := models.NewSettlement(project.ID, "bob", 25, date(2024, time.May, 10), "bob")
		if err := store.CreateTransaction(ctx, &settle); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		txs, err := store.ListTransactions(ctx, project.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 3 {
			t.Fatalf("Expected 3 transactions, got %d", len(txs))
		}
		if !txs[0].IsSettlement || txs[0].ID != settle.ID {
			t.Errorf("Expected settlement first, got %+v", txs[0])
		}
		for i := 1; i < len(txs); i++ {
			if txs[i].Date.After(txs[i-1].Date) {
				t.Errorf("Transactions not sorted newest first at %d", i)
			}
		}
	})

	t.Run("DeleteTransaction removes row", func(t *testing.T) {
		tx := &models.Transaction{ProjectID: project.ID, Amount: 1, Currency: "TWD", PayerID: "alice", SplitType: models.SplitSelf, Date: date(2024, time.May, 1)}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if err := store.DeleteTransaction(ctx, tx.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		if _, err := store.GetTransaction(ctx, tx.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("LoadLedger reads everything", func(t *testing.T) {
		ledger, err := store.LoadLedger(ctx, project.ID)
		if err != nil {
			t.Fatalf("LoadLedger failed: %v", err)
		}
		if ledger.Project.ID != project.ID || len(ledger.Members) != 2 || len(ledger.Transactions) != 3 {
			t.Errorf("Unexpected ledger: project=%v members=%d txs=%d", ledger.Project, len(ledger.Members), len(ledger.Transactions))
		}
		var withSplit int
		for _, tx := range ledger.Transactions {
			if len(tx.CustomSplit) > 0 {
				withSplit++
			}
		}
		if withSplit != 1 {
			t.Errorf("Expected 1 transaction with split, got %d", withSplit)
		}

		if _, err := store.LoadLedger(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSubscriptions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	project := createProject(t, store, "home", nil)

	sub := &models.Subscription{
		ProjectID:       project.ID,
		Title:           "Streaming",
		Amount:          390,
		Currency:        "TWD",
		PayerID:         "alice",
		SplitType:       models.SplitCustom,
		CustomSplit:     map[string]float64{"alice": 190, "bob": 200},
		Cycle:           models.CycleMonthly,
		BillingDay:      31,
		NextPaymentDate: date(2024, time.January, 31),
	}
	if err := store.CreateSubscription(ctx, sub); err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}

	t.Run("ListSubscriptions decodes split", func(t *testing.T) {
		subs, err := store.ListSubscriptions(ctx, project.ID)
		if err != nil {
			t.Fatalf("ListSubscriptions failed: %v", err)
		}
		if len(subs) != 1 {
			t.Fatalf("Expected 1 subscription, got %d", len(subs))
		}
		got := subs[0]
		if got.BillingDay != 31 || got.Cycle != models.CycleMonthly || got.CustomSplit["bob"] != 200 {
			t.Errorf("Unexpected subscription: %+v", got)
		}
	})

	t.Run("ListDueSubscriptions honors asOf", func(t *testing.T) {
		due, err := store.ListDueSubscriptions(ctx, date(2024, time.January, 30))
		if err != nil {
			t.Fatalf("ListDueSubscriptions failed: %v", err)
		}
		if len(due) != 0 {
			t.Errorf("Expected nothing due, got %d", len(due))
		}
		due, err = store.ListDueSubscriptions(ctx, date(2024, time.February, 1))
		if err != nil {
			t.Fatalf("ListDueSubscriptions failed: %v", err)
		}
		if len(due) != 1 {
			t.Errorf("Expected 1 due, got %d", len(due))
		}
	})

	t.Run("RecordCharges is idempotent", func(t *testing.T) {
		charge := models.Transaction{
			ID: "sub-" + sub.ID + "-20240131", ProjectID: project.ID, Amount: 390, Currency: "TWD",
			PayerID: "alice", SplitType: models.SplitCustom, CustomSplit: sub.CustomSplit,
			Date: date(2024, time.January, 31),
		}
		next := date(2024, time.February, 29)

		n, err := store.RecordCharges(ctx, sub.ID, []models.Transaction{charge}, next)
		if err != nil {
			t.Fatalf("RecordCharges failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 charge stored, got %d", n)
		}

		n, err = store.RecordCharges(ctx, sub.ID, []models.Transaction{charge}, next)
		if err != nil {
			t.Fatalf("RecordCharges failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected replayed charge to be skipped, got %d", n)
		}

		txs, err := store.ListTransactions(ctx, project.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 1 || txs[0].CustomSplit["alice"] != 190 {
			t.Errorf("Unexpected transactions: %+v", txs)
		}

		subs, err := store.ListSubscriptions(ctx, project.ID)
		if err != nil {
			t.Fatalf("ListSubscriptions failed: %v", err)
		}
		if !subs[0].NextPaymentDate.Equal(next) {
			t.Errorf("Expected next payment %v, got %v", next, subs[0].NextPaymentDate)
		}
	})

	t.Run("RecordCharges on missing subscription", func(t *testing.T) {
		_, err := store.RecordCharges(ctx, "missing", nil, time.Now())
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertCategory(ctx, models.Category{ID: "food", Name: "Food", Color: "#f00"}); err != nil {
		t.Fatalf("UpsertCategory failed: %v", err)
	}
	if err := store.UpsertCategory(ctx, models.Category{ID: "food", Name: "Food & Drink", Color: "#0f0"}); err != nil {
		t.Fatalf("UpsertCategory failed: %v", err)
	}

	categories, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	found := map[string]models.Category{}
	for _, c := range categories {
		found[c.ID] = c
	}
	if found["food"].Name != "Food & Drink" || found["food"].Color != "#0f0" {
		t.Errorf("Unexpected food category: %+v", found["food"])
	}
	if _, ok := found[models.SettlementCategoryID]; !ok {
		t.Error("Expected seeded settlement category")
	}
}
