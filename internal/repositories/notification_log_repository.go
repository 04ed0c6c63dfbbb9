package repositories

import (
	"context"
	"fmt"

	"dernek-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationLogRepository struct {
	DB *pgxpool.Pool
}

func NewNotificationLogRepository(db *pgxpool.Pool) *NotificationLogRepository {
	return &NotificationLogRepository{DB: db}
}

func (r *NotificationLogRepository) Create(ctx context.Context, n *models.NotificationLog) error {
	query := `
		INSERT INTO notification_logs (member_id, channel, recipient, subject, message,
		                               status, error_message, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query,
		n.MemberID, n.Channel, n.Recipient, n.Subject, n.Message,
		n.Status, n.ErrorMessage, n.OrderID,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log notification: %w", err)
	}
	return nil
}

// List returns the most recent notification attempts, optionally per channel
func (r *NotificationLogRepository) List(ctx context.Context, channel string, limit int) ([]*models.NotificationLog, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, COALESCE(member_id, 0), channel, recipient, COALESCE(subject, ''),
		       message, status, COALESCE(error_message, ''), COALESCE(order_id, ''), created_at
		FROM notification_logs
	`
	var args []interface{}
	if channel != "" {
		query += " WHERE channel = $1 ORDER BY created_at DESC LIMIT $2"
		args = append(args, channel, limit)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.NotificationLog
	for rows.Next() {
		n := &models.NotificationLog{}
		err := rows.Scan(
			&n.ID, &n.MemberID, &n.Channel, &n.Recipient, &n.Subject,
			&n.Message, &n.Status, &n.ErrorMessage, &n.OrderID, &n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, n)
	}
	return logs, rows.Err()
}
