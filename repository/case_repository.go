package repository

import (
	"context"

	"lifebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseRepository handles database operations for cases
type CaseRepository struct {
	db *pgxpool.Pool
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create creates a new case
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	query := `
		INSERT INTO cases (owner_id, title, scenario, user_story, summary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		c.OwnerID,
		c.Title,
		c.Scenario,
		c.UserStory,
		c.Summary,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	return err
}

// GetByID retrieves a case by ID
func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	c := &models.Case{}
	query := `
		SELECT id, owner_id, title, scenario, user_story, summary, created_at, updated_at
		FROM cases
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.OwnerID,
		&c.Title,
		&c.Scenario,
		&c.UserStory,
		&c.Summary,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return c, nil
}

// List retrieves cases ordered by recency
func (r *CaseRepository) List(ctx context.Context, limit, offset int) ([]*models.Case, error) {
	query := `
		SELECT id, owner_id, title, scenario, user_story, summary, created_at, updated_at
		FROM cases
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCases(rows)
}

// Search retrieves cases whose title, scenario or story matches the query
func (r *CaseRepository) Search(ctx context.Context, term string, limit int) ([]*models.Case, error) {
	query := `
		SELECT id, owner_id, title, scenario, user_story, summary, created_at, updated_at
		FROM cases
		WHERE title ILIKE '%' || $1 || '%'
			OR scenario ILIKE '%' || $1 || '%'
			OR user_story ILIKE '%' || $1 || '%'
			OR summary ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2`

	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, query, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCases(rows)
}

// UpdateStory updates a case's narrative and scenario
func (r *CaseRepository) UpdateStory(ctx context.Context, id uuid.UUID, scenario, story string) error {
	query := `
		UPDATE cases SET
			scenario = $2,
			user_story = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, scenario, story)
	return err
}

// UpdateSummary updates a case's analysis summary
func (r *CaseRepository) UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error {
	query := `
		UPDATE cases SET
			summary = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, summary)
	return err
}

// Delete deletes a case
func (r *CaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM cases WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// Count returns the total number of cases
func (r *CaseRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cases`).Scan(&count)
	return count, err
}

func scanCases(rows pgx.Rows) ([]*models.Case, error) {
	var cases []*models.Case
	for rows.Next() {
		c := &models.Case{}
		err := rows.Scan(
			&c.ID,
			&c.OwnerID,
			&c.Title,
			&c.Scenario,
			&c.UserStory,
			&c.Summary,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}

	return cases, rows.Err()
}
