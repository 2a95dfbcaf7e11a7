package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/duoledger/internal/models"
	"github.com/mmynk/duoledger/internal/storage"
)

const subscriptionColumns = `id, project_id, title, amount, currency, payer_id, split_type, custom_split,
	category_id, cycle, billing_day, next_payment_ms, created_by, created_at`

// CreateSubscription persists a new recurring charge.
func (s *SQLiteStore) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt == 0 {
		sub.CreatedAt = time.Now().Unix()
	}

	split := ""
	if len(sub.CustomSplit) > 0 {
		b, err := json.Marshal(sub.CustomSplit)
		if err != nil {
			return fmt.Errorf("failed to encode split: %w", err)
		}
		split = string(b)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (`+subscriptionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.ProjectID, sub.Title, sub.Amount, sub.Currency, sub.PayerID, string(sub.SplitType), split,
		sub.CategoryID, string(sub.Cycle), sub.BillingDay, toMillis(sub.NextPaymentDate), sub.CreatedBy, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

// ListSubscriptions returns the project's subscriptions by next payment date.
func (s *SQLiteStore) ListSubscriptions(ctx context.Context, projectID string) ([]models.Subscription, error) {
	return s.querySubscriptions(ctx,
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE project_id = ? ORDER BY next_payment_ms, id",
		projectID,
	)
}

// ListDueSubscriptions returns every subscription due on or before asOf.
func (s *SQLiteStore) ListDueSubscriptions(ctx context.Context, asOf time.Time) ([]models.Subscription, error) {
	return s.querySubscriptions(ctx,
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE next_payment_ms <= ? ORDER BY next_payment_ms, id",
		toMillis(asOf),
	)
}

// RecordCharges stores the charges and advances the subscription in one
// transaction.
func (s *SQLiteStore) RecordCharges(ctx context.Context, subscriptionID string, charges []models.Transaction, next time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE subscriptions SET next_payment_ms = ? WHERE id = ?",
		toMillis(next), subscriptionID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to advance subscription: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, fmt.Errorf("subscription %s: %w", subscriptionID, storage.ErrNotFound)
	}

	inserted := 0
	for i := range charges {
		ok, err := insertTransaction(ctx, tx, &charges[i], true)
		if err != nil {
			return 0, err
		}
		if ok {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStore) querySubscriptions(ctx context.Context, query string, args ...any) ([]models.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var splitType, split, cycle string
		var nextMs int64
		if err := rows.Scan(&sub.ID, &sub.ProjectID, &sub.Title, &sub.Amount, &sub.Currency, &sub.PayerID,
			&splitType, &split, &sub.CategoryID, &cycle, &sub.BillingDay, &nextMs, &sub.CreatedBy, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		sub.SplitType = models.SplitType(splitType)
		sub.Cycle = models.Cycle(cycle)
		sub.NextPaymentDate = fromMillis(nextMs)
		if split != "" {
			if err := json.Unmarshal([]byte(split), &sub.CustomSplit); err != nil {
				return nil, fmt.Errorf("failed to decode split for subscription %s: %w", sub.ID, err)
			}
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}
	return subs, nil
}
