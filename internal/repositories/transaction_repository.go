package repositories

import (
	"context"
	"fmt"
	"time"

	"dernek-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	DB *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (txn_type, category, amount, description, occurred_on,
		                          reference_type, reference_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query,
		t.TxnType, t.Category, t.Amount, t.Description, t.OccurredOn,
		t.ReferenceType, t.ReferenceID, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Get(ctx context.Context, id int) (*models.Transaction, error) {
	query := `
		SELECT id, txn_type, COALESCE(category, ''), amount, COALESCE(description, ''),
		       occurred_on, COALESCE(reference_type, ''), reference_id,
		       COALESCE(created_by, 0), created_at
		FROM transactions
		WHERE id = $1
	`
	t := &models.Transaction{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.TxnType, &t.Category, &t.Amount, &t.Description,
		&t.OccurredOn, &t.ReferenceType, &t.ReferenceID,
		&t.CreatedBy, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns transactions within [from, to), newest first
func (r *TransactionRepository) List(ctx context.Context, from, to *time.Time) ([]*models.Transaction, error) {
	query := `
		SELECT id, txn_type, COALESCE(category, ''), amount, COALESCE(description, ''),
		       occurred_on, COALESCE(reference_type, ''), reference_id,
		       COALESCE(created_by, 0), created_at
		FROM transactions
	`
	var args []interface{}
	argNum := 1
	where := ""
	if from != nil {
		where = fmt.Sprintf(" WHERE occurred_on >= $%d", argNum)
		args = append(args, *from)
		argNum++
	}
	if to != nil {
		if where == "" {
			where = fmt.Sprintf(" WHERE occurred_on < $%d", argNum)
		} else {
			where += fmt.Sprintf(" AND occurred_on < $%d", argNum)
		}
		args = append(args, *to)
	}
	query += where + " ORDER BY occurred_on DESC, id DESC"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		err := rows.Scan(
			&t.ID, &t.TxnType, &t.Category, &t.Amount, &t.Description,
			&t.OccurredOn, &t.ReferenceType, &t.ReferenceID,
			&t.CreatedBy, &t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// Summary aggregates income and expense within [from, to)
func (r *TransactionRepository) Summary(ctx context.Context, from, to time.Time) (*models.TreasurySummary, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN txn_type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN txn_type = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE occurred_on >= $1 AND occurred_on < $2
	`
	s := &models.TreasurySummary{}
	if err := r.DB.QueryRow(ctx, query, from, to).Scan(&s.TotalIncome, &s.TotalExpense); err != nil {
		return nil, err
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	return s, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	return err
}
