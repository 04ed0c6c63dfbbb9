package repositories

import (
	"context"

	"dernek-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TOTPRepository struct {
	DB *pgxpool.Pool
}

func NewTOTPRepository(db *pgxpool.Pool) *TOTPRepository {
	return &TOTPRepository{DB: db}
}

// Upsert stores a fresh (not yet enabled) secret for a member, replacing any
// prior enrollment.
func (r *TOTPRepository) Upsert(ctx context.Context, memberID int, secret string) error {
	query := `
		INSERT INTO totp_secrets (member_id, secret, enabled)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (member_id)
		DO UPDATE SET secret = EXCLUDED.secret, enabled = FALSE
	`
	_, err := r.DB.Exec(ctx, query, memberID, secret)
	return err
}

func (r *TOTPRepository) Get(ctx context.Context, memberID int) (*models.TOTPSecret, error) {
	query := `
		SELECT id, member_id, secret, enabled, created_at
		FROM totp_secrets
		WHERE member_id = $1
	`
	s := &models.TOTPSecret{}
	err := r.DB.QueryRow(ctx, query, memberID).Scan(
		&s.ID, &s.MemberID, &s.Secret, &s.Enabled, &s.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *TOTPRepository) Enable(ctx context.Context, memberID int) error {
	_, err := r.DB.Exec(ctx, "UPDATE totp_secrets SET enabled = TRUE WHERE member_id = $1", memberID)
	return err
}

func (r *TOTPRepository) Delete(ctx context.Context, memberID int) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM totp_secrets WHERE member_id = $1", memberID)
	return err
}
