package services

import (
	"context"
	"log"
	"time"

	"dernek-backend/internal/cache"
	"dernek-backend/internal/models"
	"dernek-backend/internal/timeutil"
)

// DebtStore is the aggregation slice of the obligation repository
type DebtStore interface {
	MarkOverdue(ctx context.Context, asOf time.Time) (int, error)
	TotalDebt(ctx context.Context, memberID int) (float64, error)
	OverdueCount(ctx context.Context, memberID int) (int, error)
	MembersInDebt(ctx context.Context) (int, error)
	CollectedBetween(ctx context.Context, memberID int, from, to time.Time) (float64, error)
	DebtorList(ctx context.Context) ([]*models.MemberDebt, error)
}

// DebtService computes the dashboard aggregates. Totals are snapshot reads
// over the obligation table, not running counters, so an orphaned or edited
// dues row changes the reported remaining balance immediately even though no
// obligation status changed.
type DebtService struct {
	Store    DebtStore
	useCache bool
	now      func() time.Time
}

func NewDebtService(store DebtStore, useCache bool) *DebtService {
	return &DebtService{Store: store, useCache: useCache, now: timeutil.Now}
}

// Summary returns the org-wide aggregates, or one member's when memberID > 0.
// Day and month windows are TRT calendar boundaries.
func (s *DebtService) Summary(ctx context.Context, memberID int) (*models.DebtSummary, error) {
	if s.useCache {
		if cached, ok := cache.GetDebtSummary(ctx, memberID); ok {
			return cached, nil
		}
	}

	// Reconcile before counting so past-due rows show up as overdue. A
	// payment continuation re-derives pending/paid, so a partially paid
	// overdue row reverts to pending until the next summary read.
	if marked, err := s.Store.MarkOverdue(ctx, s.now()); err != nil {
		log.Printf("[Debt] Failed to mark overdue obligations: %v", err)
	} else if marked > 0 {
		// Flipped rows can belong to any member; the per-member keys age
		// out on their own TTL
		cache.InvalidateDebtSummaries(ctx, 0)
	}

	totalDebt, err := s.Store.TotalDebt(ctx, memberID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.Store.OverdueCount(ctx, memberID)
	if err != nil {
		return nil, err
	}

	membersInDebt := 0
	if memberID == 0 {
		membersInDebt, err = s.Store.MembersInDebt(ctx)
		if err != nil {
			return nil, err
		}
	} else if totalDebt > 0 {
		membersInDebt = 1
	}

	now := s.now()
	dayStart := timeutil.StartOfDay(now)
	today, err := s.Store.CollectedBetween(ctx, memberID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	monthStart := timeutil.StartOfMonth(now)
	month, err := s.Store.CollectedBetween(ctx, memberID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	summary := &models.DebtSummary{
		TotalDebt:          totalDebt,
		OverdueCount:       overdue,
		MembersInDebt:      membersInDebt,
		CollectedToday:     today,
		CollectedThisMonth: month,
	}
	if s.useCache {
		cache.SetDebtSummary(ctx, memberID, summary)
	}
	return summary, nil
}

// Debtors returns the per-member outstanding list, uncached (it backs the
// export and bulk-notification paths, both of which want fresh data).
func (s *DebtService) Debtors(ctx context.Context) ([]*models.MemberDebt, error) {
	return s.Store.DebtorList(ctx)
}
