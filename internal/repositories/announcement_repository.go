package repositories

import (
	"context"
	"fmt"

	"dernek-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AnnouncementRepository struct {
	DB *pgxpool.Pool
}

func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{DB: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	query := `
		INSERT INTO announcements (title, body, published, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		a.Title, a.Body, a.Published, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

func (r *AnnouncementRepository) Get(ctx context.Context, id int) (*models.Announcement, error) {
	query := `
		SELECT id, title, body, published, COALESCE(created_by, 0), created_at, updated_at
		FROM announcements
		WHERE id = $1
	`
	a := &models.Announcement{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Body, &a.Published, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List returns announcements, optionally only published ones (member view)
func (r *AnnouncementRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Announcement, error) {
	query := `
		SELECT id, title, body, published, COALESCE(created_by, 0), created_at, updated_at
		FROM announcements
	`
	if publishedOnly {
		query += " WHERE published = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		a := &models.Announcement{}
		err := rows.Scan(
			&a.ID, &a.Title, &a.Body, &a.Published, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

func (r *AnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	query := `
		UPDATE announcements
		SET title = $1, body = $2, published = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.DB.Exec(ctx, query, a.Title, a.Body, a.Published, a.ID)
	return err
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM announcements WHERE id = $1", id)
	return err
}
