package services

import (
	"context"
	"errors"

	"dernek-backend/internal/models"
	"dernek-backend/internal/repositories"
)

type AnnouncementService struct {
	Repo *repositories.AnnouncementRepository
	Hub  Publisher
}

func NewAnnouncementService(repo *repositories.AnnouncementRepository, hub Publisher) *AnnouncementService {
	return &AnnouncementService{Repo: repo, Hub: hub}
}

func (s *AnnouncementService) Create(ctx context.Context, req *models.CreateAnnouncementRequest, createdBy int) (*models.Announcement, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}

	a := &models.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
		CreatedBy: createdBy,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	if a.Published && s.Hub != nil {
		s.Hub.Publish("announcement_published", a)
	}
	return a, nil
}

func (s *AnnouncementService) Get(ctx context.Context, id int) (*models.Announcement, error) {
	return s.Repo.Get(ctx, id)
}

// List returns published announcements for regular members; admins see drafts
// too
func (s *AnnouncementService) List(ctx context.Context, includeDrafts bool) ([]*models.Announcement, error) {
	return s.Repo.List(ctx, !includeDrafts)
}

func (s *AnnouncementService) Update(ctx context.Context, id int, req *models.CreateAnnouncementRequest) (*models.Announcement, error) {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("announcement not found")
	}

	wasPublished := a.Published
	if req.Title != "" {
		a.Title = req.Title
	}
	a.Body = req.Body
	a.Published = req.Published

	if err := s.Repo.Update(ctx, a); err != nil {
		return nil, err
	}
	if !wasPublished && a.Published && s.Hub != nil {
		s.Hub.Publish("announcement_published", a)
	}
	return a, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
