package repositories

import (
	"context"
	"fmt"

	"dernek-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DuesRepository struct {
	DB *pgxpool.Pool
}

func NewDuesRepository(db *pgxpool.Pool) *DuesRepository {
	return &DuesRepository{DB: db}
}

func (r *DuesRepository) Create(ctx context.Context, d *models.Dues) error {
	query := `
		INSERT INTO dues (title, amount, period_year, due_date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		d.Title, d.Amount, d.PeriodYear, d.DueDate, d.Description,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dues entry: %w", err)
	}
	return nil
}

func (r *DuesRepository) Get(ctx context.Context, id int) (*models.Dues, error) {
	query := `
		SELECT id, title, amount, period_year, due_date, COALESCE(description, ''),
		       created_at, updated_at
		FROM dues
		WHERE id = $1
	`
	d := &models.Dues{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Title, &d.Amount, &d.PeriodYear, &d.DueDate, &d.Description,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DuesRepository) List(ctx context.Context) ([]*models.Dues, error) {
	query := `
		SELECT id, title, amount, period_year, due_date, COALESCE(description, ''),
		       created_at, updated_at
		FROM dues
		ORDER BY period_year DESC, created_at DESC
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.Dues
	for rows.Next() {
		d := &models.Dues{}
		err := rows.Scan(
			&d.ID, &d.Title, &d.Amount, &d.PeriodYear, &d.DueDate, &d.Description,
			&d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, d)
	}
	return entries, rows.Err()
}

// Update edits the catalog entry. An amount edit does not touch the status of
// existing obligations; it only changes the denominator used by future
// remaining-balance reads.
func (r *DuesRepository) Update(ctx context.Context, d *models.Dues) error {
	query := `
		UPDATE dues
		SET title = $1, amount = $2, period_year = $3, due_date = $4,
		    description = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.DB.Exec(ctx, query,
		d.Title, d.Amount, d.PeriodYear, d.DueDate, d.Description, d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dues entry: %w", err)
	}
	return nil
}

// Delete removes the catalog entry without cascading to member_dues rows.
// Obligations keep their dues_id and become orphaned references; readers
// LEFT JOIN and treat the missing amount as 0.
func (r *DuesRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM dues WHERE id = $1", id)
	return err
}
