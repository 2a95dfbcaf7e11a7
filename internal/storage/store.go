// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/duoledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Ledger is a consistent read of everything the calculator needs for one
// project.
type Ledger struct {
	Project      *models.Project
	Members      []models.Member
	Transactions []models.Transaction
}

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil and no error when no user matches.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// ProjectStore persists projects, their rates and their members.
type ProjectStore interface {
	// CreateProject persists a new project together with its first member.
	// The project.ID field will be populated by the store.
	CreateProject(ctx context.Context, project *models.Project, owner models.Member) error
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	ListProjectsForUser(ctx context.Context, userID string) ([]*models.Project, error)
	SetRates(ctx context.Context, projectID string, rates map[string]float64) error
	AddMember(ctx context.Context, member models.Member) error
	ListMembers(ctx context.Context, projectID string) ([]models.Member, error)
}

// CategoryStore persists reporting categories.
type CategoryStore interface {
	UpsertCategory(ctx context.Context, category models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// TransactionStore persists ledger entries. Each write is atomic, which is
// how concurrent edits from both partners are serialized.
type TransactionStore interface {
	// CreateTransaction persists tx. tx.ID is generated when empty.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// UpdateTransaction replaces every field of an existing transaction.
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// ListTransactions returns the project's transactions newest first.
	ListTransactions(ctx context.Context, projectID string) ([]models.Transaction, error)

	// LoadLedger reads project, members and transactions in one read
	// transaction.
	LoadLedger(ctx context.Context, projectID string) (*Ledger, error)
}

// SubscriptionStore persists recurring charges.
type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	ListSubscriptions(ctx context.Context, projectID string) ([]models.Subscription, error)

	// ListDueSubscriptions returns subscriptions whose next payment is on
	// or before asOf.
	ListDueSubscriptions(ctx context.Context, asOf time.Time) ([]models.Subscription, error)

	// RecordCharges stores materialized charges and the advanced next
	// payment date atomically. Charges already stored are skipped, and the
	// number of newly stored charges is returned.
	RecordCharges(ctx context.Context, subscriptionID string, charges []models.Transaction, next time.Time) (int, error)
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	ProjectStore
	CategoryStore
	TransactionStore
	SubscriptionStore

	// Close releases any resources held by the store.
	Close() error
}
