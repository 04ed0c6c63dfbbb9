package services

import (
	"context"
	"errors"
	"time"

	"dernek-backend/internal/models"
	"dernek-backend/internal/repositories"
	"dernek-backend/internal/timeutil"
)

type TransactionService struct {
	Repo *repositories.TransactionRepository
}

func NewTransactionService(repo *repositories.TransactionRepository) *TransactionService {
	return &TransactionService{Repo: repo}
}

func (s *TransactionService) Create(ctx context.Context, req *models.CreateTransactionRequest, createdBy int) (*models.Transaction, error) {
	if req.TxnType != models.TxnIncome && req.TxnType != models.TxnExpense {
		return nil, errors.New("txn_type must be income or expense")
	}
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	occurredOn := timeutil.Now()
	if req.OccurredOn != "" {
		parsed, err := timeutil.ParseInTRT(timeutil.DateLayout, req.OccurredOn)
		if err != nil {
			return nil, errors.New("occurred_on must be YYYY-MM-DD")
		}
		occurredOn = parsed
	}

	txn := &models.Transaction{
		TxnType:     req.TxnType,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		OccurredOn:  occurredOn,
		CreatedBy:   createdBy,
	}
	if err := s.Repo.Create(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *TransactionService) Get(ctx context.Context, id int) (*models.Transaction, error) {
	return s.Repo.Get(ctx, id)
}

func (s *TransactionService) List(ctx context.Context, from, to *time.Time) ([]*models.Transaction, error) {
	return s.Repo.List(ctx, from, to)
}

// Summary aggregates income/expense for the window; zero times mean all-time
func (s *TransactionService) Summary(ctx context.Context, from, to time.Time) (*models.TreasurySummary, error) {
	if to.IsZero() {
		to = timeutil.Now().AddDate(100, 0, 0)
	}
	return s.Repo.Summary(ctx, from, to)
}

func (s *TransactionService) Delete(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
