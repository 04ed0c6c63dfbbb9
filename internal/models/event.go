package models

import "time"

// RSVP status values
const (
	RSVPGoing    = "going"
	RSVPNotGoing = "not_going"
	RSVPMaybe    = "maybe"
)

type Event struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedBy   int        `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	GoingCount  int        `json:"going_count"`
}

type EventRSVP struct {
	ID          int       `json:"id"`
	EventID     int       `json:"event_id"`
	MemberID    int       `json:"member_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	MemberName  string    `json:"member_name,omitempty"`
	MemberEmail string    `json:"member_email,omitempty"`
}

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at"` // RFC3339 or "2006-01-02 15:04"
	EndsAt      string `json:"ends_at,omitempty"`
}

type RSVPRequest struct {
	Status string `json:"status"`
}
