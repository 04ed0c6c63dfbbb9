package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"dernek-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemberLister struct {
	members []*models.Member
}

func (f *fakeMemberLister) List(ctx context.Context, search string) ([]*models.Member, error) {
	return f.members, nil
}

type fakeObligationLister struct {
	byID   map[int]*models.MemberObligation
	byDues map[int][]*models.MemberObligation
}

func (f *fakeObligationLister) Get(ctx context.Context, id int) (*models.MemberObligation, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, assert.AnError
	}
	return o, nil
}

func (f *fakeObligationLister) ListByDues(ctx context.Context, duesID int) ([]*models.MemberObligation, error) {
	return f.byDues[duesID], nil
}

type fakeRSVPLister struct {
	rsvps []*models.EventRSVP
}

func (f *fakeRSVPLister) ListRSVPs(ctx context.Context, eventID int) ([]*models.EventRSVP, error) {
	return f.rsvps, nil
}

func parseExportCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, []byte("\uFEFF")), "export must carry a UTF-8 BOM")
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\uFEFF")))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestMembersCSV(t *testing.T) {
	svc := NewExportService(&fakeMemberLister{members: []*models.Member{
		{Name: "Ayşe Kaya", Email: "ayse@example.com", Phone: "0532", Address: "Köy merkezi",
			Role: models.RoleMember, IsActive: true, CreatedAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)},
	}}, nil, nil, nil)

	data, err := svc.MembersCSV(context.Background(), "")
	require.NoError(t, err)

	rows := parseExportCSV(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "İsim", rows[0][0])
	assert.Equal(t, "Ayşe Kaya", rows[1][0])
	assert.Equal(t, "evet", rows[1][5])
}

func TestDebtorsCSV(t *testing.T) {
	store := &fakeDebtStore{debtors: []*models.MemberDebt{
		{MemberName: "Ali Demir", MemberEmail: "ali@example.com", Phone: "0533", TotalDebt: 450.5, OpenCount: 3},
	}}
	svc := NewExportService(nil, nil, store, nil)

	data, err := svc.DebtorsCSV(context.Background())
	require.NoError(t, err)

	rows := parseExportCSV(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "450.50", rows[1][3])
	assert.Equal(t, "3", rows[1][4])
}

func TestDuesReportCSV(t *testing.T) {
	paidAt := time.Date(2026, 2, 10, 11, 0, 0, 0, time.UTC)
	lister := &fakeObligationLister{byDues: map[int][]*models.MemberObligation{
		7: {
			{MemberName: "Ali Demir", MemberEmail: "ali@example.com",
				DuesAmount: 500, PaidAmount: 500, Status: models.ObligationPaid,
				ReceiptNo: "MKB-000004", PaidAt: &paidAt},
			{MemberName: "Ayşe Kaya", MemberEmail: "ayse@example.com",
				DuesAmount: 500, PaidAmount: 200, Status: models.ObligationPending},
		},
	}}
	svc := NewExportService(nil, lister, nil, nil)

	data, err := svc.DuesReportCSV(context.Background(), 7)
	require.NoError(t, err)

	rows := parseExportCSV(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, "0.00", rows[1][4], "settled row has no remainder")
	assert.Equal(t, "300.00", rows[2][4])
	assert.Empty(t, rows[2][7], "unpaid row has no payment date")
}

func TestReceiptPDF(t *testing.T) {
	lister := &fakeObligationLister{byID: map[int]*models.MemberObligation{
		4: {ID: 4, MemberName: "Ali Demir", MemberEmail: "ali@example.com",
			DuesTitle: "2026 aidatı", DuesAmount: 500, PaidAmount: 300,
			Status: models.ObligationPending, ReceiptNo: "MKB-000004"},
	}}
	svc := NewExportService(nil, lister, nil, nil)

	data, err := svc.ReceiptPDF(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output must be a PDF document")

	_, err = svc.ReceiptPDF(context.Background(), 99)
	assert.ErrorIs(t, err, ErrObligationNotFound)
}

func TestTurkishPDFTranslator(t *testing.T) {
	tr := turkishPDFTranslator()
	require.NotNil(t, tr)

	// Turkish letters must land on their cp1254 positions, not be dropped
	assert.Equal(t, "\xde\xfe\xdd\xfd\xd0\xf0", tr("ŞşİıĞğ"))
	assert.Equal(t, "Makbuz No", tr("Makbuz No"))
}

func TestEventParticipantsCSV(t *testing.T) {
	lister := &fakeRSVPLister{rsvps: []*models.EventRSVP{
		{MemberName: "Ali Demir", MemberEmail: "ali@example.com", Status: models.RSVPGoing,
			UpdatedAt: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)},
	}}
	svc := NewExportService(nil, nil, nil, lister)

	data, err := svc.EventParticipantsCSV(context.Background(), 1)
	require.NoError(t, err)

	rows := parseExportCSV(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "going", rows[1][2])
}
