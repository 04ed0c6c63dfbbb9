package services

import (
	"context"
	"errors"

	"dernek-backend/internal/models"
	"dernek-backend/internal/repositories"
	"dernek-backend/internal/timeutil"
)

type DuesService struct {
	Repo        *repositories.DuesRepository
	Obligations *repositories.ObligationRepository
}

func NewDuesService(repo *repositories.DuesRepository, obligations *repositories.ObligationRepository) *DuesService {
	return &DuesService{Repo: repo, Obligations: obligations}
}

func (s *DuesService) CreateDues(ctx context.Context, req *models.CreateDuesRequest) (*models.Dues, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	dues := &models.Dues{
		Title:       req.Title,
		Amount:      req.Amount,
		PeriodYear:  req.PeriodYear,
		Description: req.Description,
	}
	if dues.PeriodYear == 0 {
		dues.PeriodYear = timeutil.Now().Year()
	}
	if req.DueDate != "" {
		due, err := timeutil.ParseInTRT(timeutil.DateLayout, req.DueDate)
		if err != nil {
			return nil, errors.New("due_date must be YYYY-MM-DD")
		}
		dues.DueDate = &due
	}

	if err := s.Repo.Create(ctx, dues); err != nil {
		return nil, err
	}
	return dues, nil
}

func (s *DuesService) GetDues(ctx context.Context, id int) (*models.Dues, error) {
	return s.Repo.Get(ctx, id)
}

func (s *DuesService) ListDues(ctx context.Context) ([]*models.Dues, error) {
	return s.Repo.List(ctx)
}

// UpdateDues edits the catalog entry. Changing the amount does not touch the
// status of existing obligations; their remaining balances simply recompute
// against the new denominator on the next read.
func (s *DuesService) UpdateDues(ctx context.Context, id int, req *models.UpdateDuesRequest) (*models.Dues, error) {
	dues, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, ErrDuesNotFound
	}

	if req.Title != "" {
		dues.Title = req.Title
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, errors.New("amount must be positive")
		}
		dues.Amount = *req.Amount
	}
	if req.PeriodYear != nil {
		dues.PeriodYear = *req.PeriodYear
	}
	if req.Description != nil {
		dues.Description = *req.Description
	}
	if req.DueDate != "" {
		due, err := timeutil.ParseInTRT(timeutil.DateLayout, req.DueDate)
		if err != nil {
			return nil, errors.New("due_date must be YYYY-MM-DD")
		}
		dues.DueDate = &due
	}

	if err := s.Repo.Update(ctx, dues); err != nil {
		return nil, err
	}
	return dues, nil
}

// DeleteDues removes the catalog entry. Obligations referencing it are left
// in place and read back with amount 0 through the LEFT JOIN.
func (s *DuesService) DeleteDues(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}

// ListObligations returns obligations filtered by member or dues entry,
// or everything when both are 0
func (s *DuesService) ListObligations(ctx context.Context, memberID, duesID int) ([]*models.MemberObligation, error) {
	switch {
	case memberID != 0:
		return s.Obligations.ListByMember(ctx, memberID)
	case duesID != 0:
		return s.Obligations.ListByDues(ctx, duesID)
	default:
		return s.Obligations.List(ctx)
	}
}
