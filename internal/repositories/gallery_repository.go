package repositories

import (
	"context"
	"fmt"

	"dernek-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type GalleryRepository struct {
	DB *pgxpool.Pool
}

func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepository {
	return &GalleryRepository{DB: db}
}

func (r *GalleryRepository) Create(ctx context.Context, item *models.GalleryItem) error {
	query := `
		INSERT INTO gallery_items (title, object_key, url, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query,
		item.Title, item.ObjectKey, item.URL, item.ContentType, item.SizeBytes, item.UploadedBy,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create gallery item: %w", err)
	}
	return nil
}

func (r *GalleryRepository) Get(ctx context.Context, id int) (*models.GalleryItem, error) {
	query := `
		SELECT id, COALESCE(title, ''), object_key, url, COALESCE(content_type, ''),
		       COALESCE(size_bytes, 0), COALESCE(uploaded_by, 0), created_at
		FROM gallery_items
		WHERE id = $1
	`
	item := &models.GalleryItem{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Title, &item.ObjectKey, &item.URL, &item.ContentType,
		&item.SizeBytes, &item.UploadedBy, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *GalleryRepository) List(ctx context.Context) ([]*models.GalleryItem, error) {
	query := `
		SELECT id, COALESCE(title, ''), object_key, url, COALESCE(content_type, ''),
		       COALESCE(size_bytes, 0), COALESCE(uploaded_by, 0), created_at
		FROM gallery_items
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.GalleryItem
	for rows.Next() {
		item := &models.GalleryItem{}
		err := rows.Scan(
			&item.ID, &item.Title, &item.ObjectKey, &item.URL, &item.ContentType,
			&item.SizeBytes, &item.UploadedBy, &item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *GalleryRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM gallery_items WHERE id = $1", id)
	return err
}
