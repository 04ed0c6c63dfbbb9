package services

import (
	"context"
	"errors"

	"dernek-backend/internal/models"
	"dernek-backend/internal/repositories"
	"dernek-backend/internal/timeutil"
)

type EventService struct {
	Repo *repositories.EventRepository
	Hub  Publisher
}

func NewEventService(repo *repositories.EventRepository, hub Publisher) *EventService {
	return &EventService{Repo: repo, Hub: hub}
}

func (s *EventService) CreateEvent(ctx context.Context, req *models.CreateEventRequest, createdBy int) (*models.Event, error) {
	if req.Title == "" || req.StartsAt == "" {
		return nil, errors.New("title and starts_at are required")
	}

	startsAt, err := timeutil.ParseInTRT(timeutil.DateTimeLayout, req.StartsAt)
	if err != nil {
		return nil, errors.New("starts_at must be YYYY-MM-DD HH:MM:SS")
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    startsAt,
		CreatedBy:   createdBy,
	}
	if req.EndsAt != "" {
		endsAt, err := timeutil.ParseInTRT(timeutil.DateTimeLayout, req.EndsAt)
		if err != nil {
			return nil, errors.New("ends_at must be YYYY-MM-DD HH:MM:SS")
		}
		event.EndsAt = &endsAt
	}

	if err := s.Repo.Create(ctx, event); err != nil {
		return nil, err
	}
	if s.Hub != nil {
		s.Hub.Publish("event_created", event)
	}
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	return s.Repo.Get(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return s.Repo.List(ctx)
}

func (s *EventService) UpdateEvent(ctx context.Context, id int, req *models.CreateEventRequest) (*models.Event, error) {
	event, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("event not found")
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	event.Description = req.Description
	event.Location = req.Location
	if req.StartsAt != "" {
		startsAt, err := timeutil.ParseInTRT(timeutil.DateTimeLayout, req.StartsAt)
		if err != nil {
			return nil, errors.New("starts_at must be YYYY-MM-DD HH:MM:SS")
		}
		event.StartsAt = startsAt
	}
	if req.EndsAt != "" {
		endsAt, err := timeutil.ParseInTRT(timeutil.DateTimeLayout, req.EndsAt)
		if err != nil {
			return nil, errors.New("ends_at must be YYYY-MM-DD HH:MM:SS")
		}
		event.EndsAt = &endsAt
	}

	if err := s.Repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}

// RSVP records or replaces the member's answer for an event
func (s *EventService) RSVP(ctx context.Context, eventID, memberID int, status string) (*models.EventRSVP, error) {
	switch status {
	case models.RSVPGoing, models.RSVPNotGoing, models.RSVPMaybe:
	default:
		return nil, errors.New("status must be going, not_going or maybe")
	}

	if _, err := s.Repo.Get(ctx, eventID); err != nil {
		return nil, errors.New("event not found")
	}

	rsvp := &models.EventRSVP{
		EventID:  eventID,
		MemberID: memberID,
		Status:   status,
	}
	if err := s.Repo.UpsertRSVP(ctx, rsvp); err != nil {
		return nil, err
	}
	return rsvp, nil
}

func (s *EventService) ListRSVPs(ctx context.Context, eventID int) ([]*models.EventRSVP, error) {
	return s.Repo.ListRSVPs(ctx, eventID)
}
