package services

import (
	"context"
	"testing"
	"time"

	"dernek-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDebtStore struct {
	totalDebt     map[int]float64
	overdue       map[int]int
	membersInDebt int
	collected     map[string]float64
	debtors       []*models.MemberDebt
	pastDue       int
	markedAsOf    time.Time
	calls         int
}

// MarkOverdue moves the staged past-due rows into the org-wide overdue count,
// the way the real UPDATE flips pending rows whose due date has passed.
func (f *fakeDebtStore) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	f.markedAsOf = asOf
	n := f.pastDue
	if n > 0 {
		f.pastDue = 0
		if f.overdue == nil {
			f.overdue = map[int]int{}
		}
		f.overdue[0] += n
	}
	return n, nil
}

func (f *fakeDebtStore) TotalDebt(ctx context.Context, memberID int) (float64, error) {
	f.calls++
	return f.totalDebt[memberID], nil
}

func (f *fakeDebtStore) OverdueCount(ctx context.Context, memberID int) (int, error) {
	return f.overdue[memberID], nil
}

func (f *fakeDebtStore) MembersInDebt(ctx context.Context) (int, error) {
	return f.membersInDebt, nil
}

func (f *fakeDebtStore) CollectedBetween(ctx context.Context, memberID int, from, to time.Time) (float64, error) {
	return f.collected[from.Format("2006-01-02")], nil
}

func (f *fakeDebtStore) DebtorList(ctx context.Context) ([]*models.MemberDebt, error) {
	return f.debtors, nil
}

func TestDebtSummaryOrgWide(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	store := &fakeDebtStore{
		totalDebt:     map[int]float64{0: 4200},
		overdue:       map[int]int{0: 3},
		membersInDebt: 7,
		collected: map[string]float64{
			"2026-03-15": 650,  // day window
			"2026-03-01": 2100, // month window
		},
	}
	svc := NewDebtService(store, false)
	svc.now = func() time.Time { return now }

	summary, err := svc.Summary(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 4200.0, summary.TotalDebt)
	assert.Equal(t, 3, summary.OverdueCount)
	assert.Equal(t, 7, summary.MembersInDebt)
	assert.Equal(t, 650.0, summary.CollectedToday)
	assert.Equal(t, 2100.0, summary.CollectedThisMonth)
}

func TestDebtSummaryPerMember(t *testing.T) {
	store := &fakeDebtStore{
		totalDebt: map[int]float64{5: 300},
		overdue:   map[int]int{5: 1},
		collected: map[string]float64{},
	}
	svc := NewDebtService(store, false)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC) }

	summary, err := svc.Summary(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 300.0, summary.TotalDebt)
	assert.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, 1, summary.MembersInDebt, "a member with debt counts as 1")
}

func TestDebtSummaryMemberWithNoDebt(t *testing.T) {
	store := &fakeDebtStore{
		totalDebt: map[int]float64{},
		overdue:   map[int]int{},
		collected: map[string]float64{},
	}
	svc := NewDebtService(store, false)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC) }

	summary, err := svc.Summary(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.TotalDebt)
	assert.Equal(t, 0, summary.MembersInDebt)
}

func TestDebtSummaryMarksPastDueRowsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	store := &fakeDebtStore{
		totalDebt: map[int]float64{0: 900},
		overdue:   map[int]int{},
		collected: map[string]float64{},
		pastDue:   2,
	}
	svc := NewDebtService(store, false)
	svc.now = func() time.Time { return now }

	summary, err := svc.Summary(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.OverdueCount, "past-due rows must be reconciled before counting")
	assert.Equal(t, now, store.markedAsOf)
}

func TestDebtorsPassThrough(t *testing.T) {
	store := &fakeDebtStore{
		debtors: []*models.MemberDebt{
			{MemberID: 1, MemberName: "Ali Demir", TotalDebt: 500, OpenCount: 2},
		},
	}
	svc := NewDebtService(store, false)

	debtors, err := svc.Debtors(context.Background())
	require.NoError(t, err)
	require.Len(t, debtors, 1)
	assert.Equal(t, "Ali Demir", debtors[0].MemberName)
}
