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

// CreateProject persists a new project and its owner membership.
func (s *SQLiteStore) CreateProject(ctx context.Context, project *models.Project, owner models.Member) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt == 0 {
		project.CreatedAt = time.Now().Unix()
	}
	if project.Type == "" {
		project.Type = models.ProjectPublic
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO projects (id, name, type, created_at) VALUES (?, ?, ?, ?)",
		project.ID, project.Name, string(project.Type), project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	if err := writeRates(ctx, tx, project.ID, project.Rates); err != nil {
		return err
	}

	owner.ProjectID = project.ID
	if err := insertMember(ctx, tx, owner); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetProject retrieves a project with its exchange rates.
func (s *SQLiteStore) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	return getProject(ctx, s.db, projectID)
}

func getProject(ctx context.Context, q querier, projectID string) (*models.Project, error) {
	project := &models.Project{}
	var projectType string
	err := q.QueryRowContext(ctx,
		"SELECT id, name, type, created_at FROM projects WHERE id = ?",
		projectID,
	).Scan(&project.ID, &project.Name, &projectType, &project.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", projectID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	project.Type = models.ProjectType(projectType)

	rows, err := q.QueryContext(ctx,
		"SELECT currency, rate FROM project_rates WHERE project_id = ?",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get rates: %w", err)
	}
	defer rows.Close()

	project.Rates = make(map[string]float64)
	for rows.Next() {
		var currency string
		var rate float64
		if err := rows.Scan(&currency, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		project.Rates[currency] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rates: %w", err)
	}

	return project, nil
}

// ListProjectsForUser returns every project the user is a member of.
func (s *SQLiteStore) ListProjectsForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id FROM projects p
		 JOIN members m ON m.project_id = p.id
		 WHERE m.user_id = ?
		 ORDER BY p.created_at, p.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	projects := make([]*models.Project, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProject(ctx, id)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// SetRates replaces the project's exchange rates.
func (s *SQLiteStore) SetRates(ctx context.Context, projectID string, rates map[string]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireProject(ctx, tx, projectID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM project_rates WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("failed to clear rates: %w", err)
	}
	if err := writeRates(ctx, tx, projectID, rates); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddMember adds a user to a project, or updates the role of an existing member.
func (s *SQLiteStore) AddMember(ctx context.Context, member models.Member) error {
	if err := requireProject(ctx, s.db, member.ProjectID); err != nil {
		return err
	}
	return insertMember(ctx, s.db, member)
}

// ListMembers returns the project's members ordered by user ID.
func (s *SQLiteStore) ListMembers(ctx context.Context, projectID string) ([]models.Member, error) {
	return listMembers(ctx, s.db, projectID)
}

func listMembers(ctx context.Context, q querier, projectID string) ([]models.Member, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT project_id, user_id, role, display_name FROM members WHERE project_id = ? ORDER BY user_id",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var role string
		if err := rows.Scan(&m.ProjectID, &m.UserID, &role, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Role = models.Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

func insertMember(ctx context.Context, q querier, m models.Member) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO members (project_id, user_id, role, display_name) VALUES (?, ?, ?, ?)
		 ON CONFLICT (project_id, user_id) DO UPDATE SET role = excluded.role, display_name = excluded.display_name`,
		m.ProjectID, m.UserID, string(m.Role), m.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func writeRates(ctx context.Context, q querier, projectID string, rates map[string]float64) error {
	for currency, rate := range rates {
		if currency == models.ReportingCurrency {
			continue
		}
		_, err := q.ExecContext(ctx,
			"INSERT INTO project_rates (project_id, currency, rate) VALUES (?, ?, ?)",
			projectID, currency, rate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert rate: %w", err)
		}
	}
	return nil
}

func requireProject(ctx context.Context, q querier, projectID string) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM projects WHERE id = ?", projectID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("project %s: %w", projectID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check project existence: %w", err)
	}
	return nil
}
