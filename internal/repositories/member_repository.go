package repositories

import (
	"context"
	"fmt"
	"strings"

	"dernek-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository struct {
	DB *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{DB: db}
}

const memberColumns = `id, name, email, COALESCE(phone, ''), COALESCE(address, ''),
	password_hash, role, is_active, created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Address,
		&m.PasswordHash, &m.Role, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	query := `
		INSERT INTO members (name, email, phone, address, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	if m.Role == "" {
		m.Role = models.RoleMember
	}
	m.IsActive = true

	err := r.DB.QueryRow(ctx, query,
		m.Name, m.Email, m.Phone, m.Address, m.PasswordHash, m.Role, m.IsActive,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *MemberRepository) Get(ctx context.Context, id int) (*models.Member, error) {
	query := fmt.Sprintf("SELECT %s FROM members WHERE id = $1", memberColumns)
	return scanMember(r.DB.QueryRow(ctx, query, id))
}

func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	query := fmt.Sprintf("SELECT %s FROM members WHERE LOWER(email) = LOWER($1)", memberColumns)
	return scanMember(r.DB.QueryRow(ctx, query, email))
}

// List returns all members, optionally filtered by a name/email search term
func (r *MemberRepository) List(ctx context.Context, search string) ([]*models.Member, error) {
	query := fmt.Sprintf("SELECT %s FROM members", memberColumns)
	var args []interface{}
	if search != "" {
		query += " WHERE name ILIKE $1 OR email ILIKE $1"
		args = append(args, "%"+strings.TrimSpace(search)+"%")
	}
	query += " ORDER BY name ASC"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MemberRepository) Update(ctx context.Context, m *models.Member) error {
	query := `
		UPDATE members
		SET name = $1, email = $2, phone = $3, address = $4,
		    password_hash = $5, role = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.DB.Exec(ctx, query,
		m.Name, m.Email, m.Phone, m.Address, m.PasswordHash, m.Role, m.IsActive, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM members WHERE id = $1", id)
	return err
}
