package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/duoledger/internal/models"
	"github.com/mmynk/duoledger/internal/storage"
)

const transactionColumns = `id, project_id, title, amount, currency, payer_id, split_type,
	category_id, date_ms, is_settlement, created_by, created_at, updated_at`

// CreateTransaction persists a new transaction with its custom split.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := insertTransaction(ctx, tx, t, false); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertTransaction writes t and its split rows. With ignoreExisting, a
// duplicate ID is skipped and reported as not inserted.
func insertTransaction(ctx context.Context, q querier, t *models.Transaction, ignoreExisting bool) (bool, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if t.CreatedAt == 0 {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	verb := "INSERT"
	if ignoreExisting {
		verb = "INSERT OR IGNORE"
	}
	res, err := q.ExecContext(ctx,
		verb+` INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, t.Amount, t.Currency, t.PayerID, string(t.SplitType),
		t.CategoryID, toMillis(t.Date), boolToInt(t.IsSettlement), t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return false, nil
	}

	if err := writeSplit(ctx, q, t.ID, t.CustomSplit); err != nil {
		return false, err
	}
	return true, nil
}

// GetTransaction retrieves a transaction by ID, including its custom split.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	splits, err := loadSplits(ctx, s.db, "SELECT transaction_id, user_id, amount FROM transaction_splits WHERE transaction_id = ?", id)
	if err != nil {
		return nil, err
	}
	t.CustomSplit = splits[t.ID]
	return &t, nil
}

// UpdateTransaction replaces an existing transaction wholesale.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t.UpdatedAt = time.Now().Unix()
	res, err := tx.ExecContext(ctx,
		`UPDATE transactions SET title = ?, amount = ?, currency = ?, payer_id = ?, split_type = ?,
		 category_id = ?, date_ms = ?, is_settlement = ?, updated_at = ?
		 WHERE id = ?`,
		t.Title, t.Amount, t.Currency, t.PayerID, string(t.SplitType),
		t.CategoryID, toMillis(t.Date), boolToInt(t.IsSettlement), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("transaction %s: %w", t.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM transaction_splits WHERE transaction_id = ?", t.ID); err != nil {
		return fmt.Errorf("failed to clear split: %w", err)
	}
	if err := writeSplit(ctx, tx, t.ID, t.CustomSplit); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ListTransactions returns the project's transactions, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, projectID string) ([]models.Transaction, error) {
	txs, err := listTransactions(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	models.SortNewestFirst(txs)
	return txs, nil
}

// LoadLedger reads the project, its members and its transactions inside a
// single transaction so the calculator sees one consistent state.
func (s *SQLiteStore) LoadLedger(ctx context.Context, projectID string) (*storage.Ledger, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	project, err := getProject(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	members, err := listMembers(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	txs, err := listTransactions(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &storage.Ledger{Project: project, Members: members, Transactions: txs}, nil
}

func listTransactions(ctx context.Context, q querier, projectID string) ([]models.Transaction, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE project_id = ? ORDER BY date_ms, id",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var txs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	splits, err := loadSplits(ctx, q,
		`SELECT s.transaction_id, s.user_id, s.amount FROM transaction_splits s
		 JOIN transactions t ON t.id = s.transaction_id
		 WHERE t.project_id = ?`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	for i := range txs {
		txs[i].CustomSplit = splits[txs[i].ID]
	}
	return txs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (models.Transaction, error) {
	var t models.Transaction
	var splitType string
	var dateMs int64
	var settlement int
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Amount, &t.Currency, &t.PayerID, &splitType,
		&t.CategoryID, &dateMs, &settlement, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	t.SplitType = models.SplitType(splitType)
	t.Date = fromMillis(dateMs)
	t.IsSettlement = settlement != 0
	return t, nil
}

func writeSplit(ctx context.Context, q querier, transactionID string, split map[string]float64) error {
	for userID, amount := range split {
		_, err := q.ExecContext(ctx,
			"INSERT INTO transaction_splits (transaction_id, user_id, amount) VALUES (?, ?, ?)",
			transactionID, userID, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// loadSplits runs a query yielding (transaction_id, user_id, amount) rows and
// groups them by transaction.
func loadSplits(ctx context.Context, q querier, query string, args ...any) (map[string]map[string]float64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[string]map[string]float64)
	for rows.Next() {
		var txID, userID string
		var amount float64
		if err := rows.Scan(&txID, &userID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if splits[txID] == nil {
			splits[txID] = make(map[string]float64)
		}
		splits[txID][userID] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}
