package services

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"dernek-backend/internal/email"
	"dernek-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObligationStore struct {
	rows      map[int]*models.MemberObligation
	nextID    int
	receiptNo int
	clock     time.Time
}

func newFakeObligationStore() *fakeObligationStore {
	return &fakeObligationStore{
		rows:  map[int]*models.MemberObligation{},
		clock: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fakeObligationStore) GenerateReceiptNumber(ctx context.Context) (string, error) {
	f.receiptNo++
	return fmt.Sprintf("MKB-%06d", f.receiptNo), nil
}

func (f *fakeObligationStore) Create(ctx context.Context, o *models.MemberObligation) error {
	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	o.ID = f.nextID
	o.CreatedAt = f.clock
	copied := *o
	f.rows[o.ID] = &copied
	return nil
}

func (f *fakeObligationStore) Get(ctx context.Context, id int) (*models.MemberObligation, error) {
	o, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	copied := *o
	return &copied, nil
}

func (f *fakeObligationStore) open(match func(*models.MemberObligation) bool) *models.MemberObligation {
	var candidates []*models.MemberObligation
	for _, o := range f.rows {
		if o.Status != models.ObligationPaid && match(o) {
			candidates = append(candidates, o)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	copied := *candidates[0]
	return &copied
}

func (f *fakeObligationStore) FindOldestOpen(ctx context.Context, memberID, duesID int) (*models.MemberObligation, error) {
	return f.open(func(o *models.MemberObligation) bool {
		return o.MemberID == memberID && o.DuesID == duesID
	}), nil
}

func (f *fakeObligationStore) FindOldestOpenByMember(ctx context.Context, memberID int) (*models.MemberObligation, error) {
	return f.open(func(o *models.MemberObligation) bool {
		return o.MemberID == memberID
	}), nil
}

func (f *fakeObligationStore) UpdatePayment(ctx context.Context, o *models.MemberObligation) error {
	stored, ok := f.rows[o.ID]
	if !ok {
		return fmt.Errorf("no rows")
	}
	stored.PaidAmount = o.PaidAmount
	stored.Status = o.Status
	stored.PaidAt = o.PaidAt
	stored.PaymentMethod = o.PaymentMethod
	stored.Notes = o.Notes
	stored.ReceiptNo = o.ReceiptNo
	return nil
}

func (f *fakeObligationStore) Delete(ctx context.Context, id int) error {
	delete(f.rows, id)
	return nil
}

type fakeDuesStore struct {
	rows   map[int]*models.Dues
	nextID int
}

func newFakeDuesStore(entries ...*models.Dues) *fakeDuesStore {
	f := &fakeDuesStore{rows: map[int]*models.Dues{}}
	for _, d := range entries {
		f.nextID++
		d.ID = f.nextID
		f.rows[d.ID] = d
	}
	return f
}

func (f *fakeDuesStore) Get(ctx context.Context, id int) (*models.Dues, error) {
	d, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	return d, nil
}

func (f *fakeDuesStore) Create(ctx context.Context, d *models.Dues) error {
	f.nextID++
	d.ID = f.nextID
	f.rows[d.ID] = d
	return nil
}

type fakeMemberStore struct {
	rows   map[int]*models.Member
	nextID int
}

func newFakeMemberStore(members ...*models.Member) *fakeMemberStore {
	f := &fakeMemberStore{rows: map[int]*models.Member{}}
	for _, m := range members {
		f.nextID++
		m.ID = f.nextID
		f.rows[m.ID] = m
	}
	return f
}

func (f *fakeMemberStore) Get(ctx context.Context, id int) (*models.Member, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	return m, nil
}

func (f *fakeMemberStore) GetByEmail(ctx context.Context, addr string) (*models.Member, error) {
	for _, m := range f.rows {
		if m.Email == addr {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no rows")
}

func (f *fakeMemberStore) Create(ctx context.Context, m *models.Member) error {
	f.nextID++
	m.ID = f.nextID
	f.rows[m.ID] = m
	return nil
}

type fakeTxnStore struct {
	created []*models.Transaction
}

func (f *fakeTxnStore) Create(ctx context.Context, t *models.Transaction) error {
	f.created = append(f.created, t)
	return nil
}

func newTestPaymentService(obligations *fakeObligationStore, dues *fakeDuesStore, members *fakeMemberStore) (*PaymentService, *fakeTxnStore) {
	txns := &fakeTxnStore{}
	svc := NewPaymentService(obligations, dues, members, txns, email.NewMockProvider(), nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc, txns
}

func TestPostPaymentFullAmountMarksPaid(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc, txns := newTestPaymentService(obligations, dues, members)

	o, err := svc.PostPayment(context.Background(), &models.PostPaymentRequest{
		MemberID: 1, DuesID: 1, Amount: 500, PaymentMethod: "nakit",
	})
	require.NoError(t, err)

	assert.Equal(t, 500.0, o.PaidAmount)
	assert.Equal(t, models.ObligationPaid, o.Status)
	require.NotNil(t, o.PaidAt)
	assert.Equal(t, "MKB-000001", o.ReceiptNo)

	require.Len(t, txns.created, 1)
	assert.Equal(t, models.TxnIncome, txns.created[0].TxnType)
	assert.Equal(t, 500.0, txns.created[0].Amount)
}

func TestPostPaymentPartialThenCompleteThenFresh(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc, _ := newTestPaymentService(obligations, dues, members)
	ctx := context.Background()

	first, err := svc.PostPayment(ctx, &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 300})
	require.NoError(t, err)
	assert.Equal(t, 300.0, first.PaidAmount)
	assert.Equal(t, models.ObligationPending, first.Status)
	assert.Nil(t, first.PaidAt)
	assert.Equal(t, 200.0, first.Remaining())

	second, err := svc.PostPayment(ctx, &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 200})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "second payment continues the open obligation")
	assert.Equal(t, 500.0, second.PaidAmount)
	assert.Equal(t, models.ObligationPaid, second.Status)
	require.NotNil(t, second.PaidAt)

	// The pair is settled, so a further payment opens a fresh row
	third, err := svc.PostPayment(ctx, &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 50})
	require.NoError(t, err)
	assert.NotEqual(t, second.ID, third.ID)
	assert.Equal(t, 50.0, third.PaidAmount)
	assert.Equal(t, models.ObligationPending, third.Status)
}

func TestPostPaymentRunningSumAcrossCalls(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "çatı onarımı", Amount: 1000})
	members := newFakeMemberStore(&models.Member{Name: "Ayşe Kaya", Email: "ayse@example.com"})
	svc, _ := newTestPaymentService(obligations, dues, members)
	ctx := context.Background()

	amounts := []float64{100, 250, 400, 250}
	var last *models.MemberObligation
	for i, amount := range amounts {
		o, err := svc.PostPayment(ctx, &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: amount})
		require.NoError(t, err)
		last = o

		if i < len(amounts)-1 {
			assert.Equal(t, models.ObligationPending, o.Status, "call %d", i)
		}
	}
	assert.Equal(t, 1000.0, last.PaidAmount)
	assert.Equal(t, models.ObligationPaid, last.Status)
}

func TestPostPaymentOverpaymentIsRecorded(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc, _ := newTestPaymentService(obligations, dues, members)

	o, err := svc.PostPayment(context.Background(), &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 700})
	require.NoError(t, err)
	assert.Equal(t, 700.0, o.PaidAmount)
	assert.Equal(t, models.ObligationPaid, o.Status)
	assert.Equal(t, 0.0, o.Remaining())
}

func TestPostPaymentMergesNotesAndReceipt(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc, _ := newTestPaymentService(obligations, dues, members)
	ctx := context.Background()

	_, err := svc.PostPayment(ctx, &models.PostPaymentRequest{
		MemberID: 1, DuesID: 1, Amount: 100,
		ReceiptNo: "EL-001", Notes: "elden alındı",
	})
	require.NoError(t, err)

	// Empty notes/receipt on the continuation keep the stored values
	o, err := svc.PostPayment(ctx, &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, "EL-001", o.ReceiptNo)
	assert.Equal(t, "elden alındı", o.Notes)

	// Non-empty values replace them
	o, err = svc.PostPayment(ctx, &models.PostPaymentRequest{
		MemberID: 1, DuesID: 1, Amount: 100,
		ReceiptNo: "EL-002", Notes: "banka havalesi",
	})
	require.NoError(t, err)
	assert.Equal(t, "EL-002", o.ReceiptNo)
	assert.Equal(t, "banka havalesi", o.Notes)
}

func TestPostPaymentRejectsNonPositiveAmount(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc, _ := newTestPaymentService(obligations, dues, members)

	for _, amount := range []float64{0, -50} {
		_, err := svc.PostPayment(context.Background(), &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: amount})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestPostPaymentUnknownDues(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore()
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc, _ := newTestPaymentService(obligations, dues, members)

	_, err := svc.PostPayment(context.Background(), &models.PostPaymentRequest{MemberID: 1, DuesID: 99, Amount: 100})
	assert.ErrorIs(t, err, ErrDuesNotFound)
}

func TestPostPaymentContinuesOrphanedObligation(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc, _ := newTestPaymentService(obligations, dues, members)
	ctx := context.Background()

	o, err := svc.PostPayment(ctx, &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 200})
	require.NoError(t, err)
	require.Equal(t, models.ObligationPending, o.Status)

	// Root deletes the catalog entry: the obligation is orphaned, the
	// reference amount drops to 0, and the next payment settles the row
	dues.rows = map[int]*models.Dues{}

	o, err = svc.PostPayment(ctx, &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 50})
	require.NoError(t, err)
	assert.Equal(t, models.ObligationPaid, o.Status)
	assert.Equal(t, 250.0, o.PaidAmount)
	assert.Equal(t, 0.0, o.DuesAmount)
	require.NotNil(t, o.PaidAt)
}

func TestPostPaymentSurvivesEmailFailure(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})

	provider := email.NewMockProvider()
	provider.Err = fmt.Errorf("smtp down")
	txns := &fakeTxnStore{}
	svc := NewPaymentService(obligations, dues, members, txns, provider, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

	o, err := svc.PostPayment(context.Background(), &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 500})
	require.NoError(t, err, "receipt delivery failure must not surface")
	assert.Equal(t, models.ObligationPaid, o.Status)
}

func TestEditPaymentReplacesAmountOutright(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc, _ := newTestPaymentService(obligations, dues, members)
	ctx := context.Background()

	posted, err := svc.PostPayment(ctx, &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 500})
	require.NoError(t, err)
	require.Equal(t, models.ObligationPaid, posted.Status)

	// Edit down below the dues amount: absolute replacement, not additive
	edited, err := svc.EditPayment(ctx, posted.ID, &models.EditPaymentRequest{Amount: 200})
	require.NoError(t, err)
	assert.Equal(t, 200.0, edited.PaidAmount)
	assert.Equal(t, models.ObligationPending, edited.Status)
	assert.Nil(t, edited.PaidAt)

	// Edit back up across the threshold
	edited, err = svc.EditPayment(ctx, posted.ID, &models.EditPaymentRequest{Amount: 600})
	require.NoError(t, err)
	assert.Equal(t, 600.0, edited.PaidAmount)
	assert.Equal(t, models.ObligationPaid, edited.Status)
	require.NotNil(t, edited.PaidAt)
}

func TestDuesAmountEditDoesNotReviseStatus(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc, _ := newTestPaymentService(obligations, dues, members)
	ctx := context.Background()

	o, err := svc.PostPayment(ctx, &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 300})
	require.NoError(t, err)
	require.Equal(t, models.ObligationPending, o.Status)

	// The catalog entry is edited down to the already-paid total. The stored
	// status stays pending; only the displayed remaining balance drops to 0.
	dues.rows[1].Amount = 300

	stored, err := obligations.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ObligationPending, stored.Status)

	stored.DuesAmount = dues.rows[1].Amount
	assert.Equal(t, 0.0, stored.Remaining())
}

func TestDeletePayment(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc, _ := newTestPaymentService(obligations, dues, members)
	ctx := context.Background()

	o, err := svc.PostPayment(ctx, &models.PostPaymentRequest{MemberID: 1, DuesID: 1, Amount: 100})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePayment(ctx, o.ID))
	assert.ErrorIs(t, svc.DeletePayment(ctx, o.ID), ErrObligationNotFound)
}
