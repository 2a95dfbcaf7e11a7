package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/duoledger/internal/models"
)

// UpsertCategory creates a category or updates its name and color.
func (s *SQLiteStore) UpsertCategory(ctx context.Context, c models.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, color) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET name = excluded.name, color = excluded.color`,
		c.ID, c.Name, c.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}
	return nil
}

// ListCategories returns every category ordered by name.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, color FROM categories ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}
