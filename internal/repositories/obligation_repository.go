package repositories

import (
	"context"
	"fmt"
	"time"

	"dernek-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ObligationRepository owns the member_dues table. Dues fields are always
// LEFT JOINed: a deleted catalog entry must not break any read path, so a
// missing dues row scans as title "" and amount 0.
type ObligationRepository struct {
	DB *pgxpool.Pool
}

func NewObligationRepository(db *pgxpool.Pool) *ObligationRepository {
	return &ObligationRepository{DB: db}
}

func (r *ObligationRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	var nextNum int
	err := r.DB.QueryRow(ctx, "SELECT nextval('receipt_number_sequence')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next receipt number: %w", err)
	}
	return fmt.Sprintf("MKB-%06d", nextNum), nil
}

const obligationSelect = `
	SELECT md.id, md.member_id, md.dues_id, md.paid_amount, md.status, md.paid_at,
	       COALESCE(md.payment_method, ''), COALESCE(md.notes, ''), COALESCE(md.receipt_no, ''),
	       md.created_at, md.updated_at,
	       COALESCE(m.name, ''), COALESCE(m.email, ''),
	       COALESCE(d.title, ''), COALESCE(d.amount, 0)
	FROM member_dues md
	LEFT JOIN members m ON md.member_id = m.id
	LEFT JOIN dues d ON md.dues_id = d.id
`

func scanObligation(row interface{ Scan(...any) error }) (*models.MemberObligation, error) {
	o := &models.MemberObligation{}
	err := row.Scan(
		&o.ID, &o.MemberID, &o.DuesID, &o.PaidAmount, &o.Status, &o.PaidAt,
		&o.PaymentMethod, &o.Notes, &o.ReceiptNo,
		&o.CreatedAt, &o.UpdatedAt,
		&o.MemberName, &o.MemberEmail,
		&o.DuesTitle, &o.DuesAmount,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *ObligationRepository) Create(ctx context.Context, o *models.MemberObligation) error {
	query := `
		INSERT INTO member_dues (member_id, dues_id, paid_amount, status, paid_at,
		                         payment_method, notes, receipt_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		o.MemberID, o.DuesID, o.PaidAmount, o.Status, o.PaidAt,
		o.PaymentMethod, o.Notes, o.ReceiptNo,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create obligation: %w", err)
	}
	return nil
}

func (r *ObligationRepository) Get(ctx context.Context, id int) (*models.MemberObligation, error) {
	return scanObligation(r.DB.QueryRow(ctx, obligationSelect+" WHERE md.id = $1", id))
}

// FindOldestOpen returns the oldest-by-created-at obligation for the
// (member, dues) pair whose status is not paid, or nil when none exists.
func (r *ObligationRepository) FindOldestOpen(ctx context.Context, memberID, duesID int) (*models.MemberObligation, error) {
	query := obligationSelect + `
		WHERE md.member_id = $1 AND md.dues_id = $2 AND md.status != 'paid'
		ORDER BY md.created_at ASC
		LIMIT 1
	`
	o, err := scanObligation(r.DB.QueryRow(ctx, query, memberID, duesID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// FindOldestOpenByMember is the bulk-payment lookup: the oldest pending
// obligation for the member across all dues entries (oldest-by-created-at
// tie-break, same as FindOldestOpen).
func (r *ObligationRepository) FindOldestOpenByMember(ctx context.Context, memberID int) (*models.MemberObligation, error) {
	query := obligationSelect + `
		WHERE md.member_id = $1 AND md.status != 'paid'
		ORDER BY md.created_at ASC
		LIMIT 1
	`
	o, err := scanObligation(r.DB.QueryRow(ctx, query, memberID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// UpdatePayment writes back the recomputed payment state of an obligation.
// Single UPDATE, no version guard: two concurrent posters can race and the
// second write wins (accepted lost-update behavior).
func (r *ObligationRepository) UpdatePayment(ctx context.Context, o *models.MemberObligation) error {
	query := `
		UPDATE member_dues
		SET paid_amount = $1, status = $2, paid_at = $3,
		    payment_method = $4, notes = $5, receipt_no = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.DB.Exec(ctx, query,
		o.PaidAmount, o.Status, o.PaidAt,
		o.PaymentMethod, o.Notes, o.ReceiptNo, o.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update obligation: %w", err)
	}
	return nil
}

func (r *ObligationRepository) ListByMember(ctx context.Context, memberID int) ([]*models.MemberObligation, error) {
	query := obligationSelect + " WHERE md.member_id = $1 ORDER BY md.created_at DESC"
	return r.queryList(ctx, query, memberID)
}

func (r *ObligationRepository) ListByDues(ctx context.Context, duesID int) ([]*models.MemberObligation, error) {
	query := obligationSelect + " WHERE md.dues_id = $1 ORDER BY md.created_at DESC"
	return r.queryList(ctx, query, duesID)
}

func (r *ObligationRepository) List(ctx context.Context) ([]*models.MemberObligation, error) {
	return r.queryList(ctx, obligationSelect+" ORDER BY md.created_at DESC")
}

func (r *ObligationRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]*models.MemberObligation, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obligations []*models.MemberObligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		obligations = append(obligations, o)
	}
	return obligations, rows.Err()
}

func (r *ObligationRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM member_dues WHERE id = $1", id)
	return err
}

// TotalDebt sums (dues.amount - paid_amount) over non-paid obligations,
// org-wide when memberID is 0. Orphaned dues references count as amount 0,
// which can push a row's remainder negative; GREATEST floors it like the
// dashboard display does.
func (r *ObligationRepository) TotalDebt(ctx context.Context, memberID int) (float64, error) {
	query := `
		SELECT COALESCE(SUM(GREATEST(COALESCE(d.amount, 0) - md.paid_amount, 0)), 0)
		FROM member_dues md
		LEFT JOIN dues d ON md.dues_id = d.id
		WHERE md.status != 'paid'
	`
	var args []interface{}
	if memberID != 0 {
		query += " AND md.member_id = $1"
		args = append(args, memberID)
	}

	var total float64
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// MarkOverdue flips still-pending obligations to overdue once the linked
// dues entry's due date has passed. Paid rows and rows whose dues entry has
// no due date (or was deleted) are never touched.
func (r *ObligationRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE member_dues md SET status = 'overdue', updated_at = NOW()
		FROM dues d
		WHERE md.dues_id = d.id
		  AND md.status = 'pending'
		  AND d.due_date IS NOT NULL
		  AND d.due_date < $1`,
		asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue obligations: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *ObligationRepository) OverdueCount(ctx context.Context, memberID int) (int, error) {
	query := "SELECT COUNT(*) FROM member_dues WHERE status = 'overdue'"
	var args []interface{}
	if memberID != 0 {
		query += " AND member_id = $1"
		args = append(args, memberID)
	}

	var count int
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ObligationRepository) MembersInDebt(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		"SELECT COUNT(DISTINCT member_id) FROM member_dues WHERE status != 'paid'",
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CollectedBetween sums paid_amount over obligations whose paid_at falls in
// [from, to). Callers pass local-day or local-month bounds.
func (r *ObligationRepository) CollectedBetween(ctx context.Context, memberID int, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(paid_amount), 0)
		FROM member_dues
		WHERE paid_at IS NOT NULL AND paid_at >= $1 AND paid_at < $2
	`
	args := []interface{}{from, to}
	if memberID != 0 {
		query += " AND member_id = $3"
		args = append(args, memberID)
	}

	var total float64
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// DebtorList returns per-member outstanding totals for members with at least
// one non-paid obligation.
func (r *ObligationRepository) DebtorList(ctx context.Context) ([]*models.MemberDebt, error) {
	query := `
		SELECT m.id, m.name, m.email, COALESCE(m.phone, ''),
		       COALESCE(SUM(GREATEST(COALESCE(d.amount, 0) - md.paid_amount, 0)), 0) AS total_debt,
		       COUNT(md.id) AS open_count
		FROM member_dues md
		JOIN members m ON md.member_id = m.id
		LEFT JOIN dues d ON md.dues_id = d.id
		WHERE md.status != 'paid'
		GROUP BY m.id, m.name, m.email, m.phone
		ORDER BY total_debt DESC
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debtors []*models.MemberDebt
	for rows.Next() {
		md := &models.MemberDebt{}
		err := rows.Scan(&md.MemberID, &md.MemberName, &md.MemberEmail, &md.Phone,
			&md.TotalDebt, &md.OpenCount)
		if err != nil {
			return nil, err
		}
		debtors = append(debtors, md)
	}
	return debtors, rows.Err()
}
