package repositories

import (
	"context"
	"fmt"

	"dernek-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	DB *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (title, description, location, starts_at, ends_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *EventRepository) Get(ctx context.Context, id int) (*models.Event, error) {
	query := `
		SELECT e.id, e.title, COALESCE(e.description, ''), COALESCE(e.location, ''),
		       e.starts_at, e.ends_at, COALESCE(e.created_by, 0), e.created_at, e.updated_at,
		       (SELECT COUNT(*) FROM event_rsvps WHERE event_id = e.id AND status = 'going')
		FROM events e
		WHERE e.id = $1
	`
	e := &models.Event{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.Location,
		&e.StartsAt, &e.EndsAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&e.GoingCount,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EventRepository) List(ctx context.Context) ([]*models.Event, error) {
	query := `
		SELECT e.id, e.title, COALESCE(e.description, ''), COALESCE(e.location, ''),
		       e.starts_at, e.ends_at, COALESCE(e.created_by, 0), e.created_at, e.updated_at,
		       (SELECT COUNT(*) FROM event_rsvps WHERE event_id = e.id AND status = 'going')
		FROM events e
		ORDER BY e.starts_at DESC
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e := &models.Event{}
		err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Location,
			&e.StartsAt, &e.EndsAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
			&e.GoingCount,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, starts_at = $4, ends_at = $5,
		    updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.DB.Exec(ctx, query,
		e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.ID,
	)
	return err
}

func (r *EventRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM events WHERE id = $1", id)
	return err
}

// UpsertRSVP inserts or replaces a member's RSVP for an event
func (r *EventRepository) UpsertRSVP(ctx context.Context, rsvp *models.EventRSVP) error {
	query := `
		INSERT INTO event_rsvps (event_id, member_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, member_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		rsvp.EventID, rsvp.MemberID, rsvp.Status,
	).Scan(&rsvp.ID, &rsvp.CreatedAt, &rsvp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save rsvp: %w", err)
	}
	return nil
}

// ListRSVPs returns all RSVPs for an event with member details joined
func (r *EventRepository) ListRSVPs(ctx context.Context, eventID int) ([]*models.EventRSVP, error) {
	query := `
		SELECT r.id, r.event_id, r.member_id, r.status, r.created_at, r.updated_at,
		       COALESCE(m.name, ''), COALESCE(m.email, '')
		FROM event_rsvps r
		LEFT JOIN members m ON r.member_id = m.id
		WHERE r.event_id = $1
		ORDER BY r.created_at ASC
	`
	rows, err := r.DB.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []*models.EventRSVP
	for rows.Next() {
		rsvp := &models.EventRSVP{}
		err := rows.Scan(
			&rsvp.ID, &rsvp.EventID, &rsvp.MemberID, &rsvp.Status,
			&rsvp.CreatedAt, &rsvp.UpdatedAt,
			&rsvp.MemberName, &rsvp.MemberEmail,
		)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	return rsvps, rows.Err()
}
