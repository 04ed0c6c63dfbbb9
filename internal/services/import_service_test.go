package services

import (
	"context"
	"strings"
	"testing"

	"dernek-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImportService(obligations *fakeObligationStore, dues *fakeDuesStore, members *fakeMemberStore) *ImportService {
	payments, _ := newTestPaymentService(obligations, dues, members)
	return NewImportService(members, dues, obligations, payments)
}

func TestMatchHeadersTurkishSynonyms(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		field  string
		index  int
	}{
		{"turkish amount", []string{"Üye E-posta", "Tutar (TL)"}, "amount", 1},
		{"english amount", []string{"Email", "Amount"}, "amount", 1},
		{"eposta variant", []string{"Eposta Adresi", "Tutar"}, "email", 0},
		{"title via baslik", []string{"Baslik", "Tutar", "Eposta"}, "title", 0},
		{"name via isim", []string{"İsim Soyisim", "Eposta"}, "name", 0},
		{"phone via telefon", []string{"Eposta", "Telefon No"}, "phone", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := matchHeaders(tt.header)
			idx, ok := cols[tt.field]
			require.True(t, ok, "field %s not matched", tt.field)
			assert.Equal(t, tt.index, idx)
		})
	}
}

func TestParseAmountFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"500", 500},
		{"1234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"250,00", 250},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	_, err := parseAmount("beş yüz")
	assert.Error(t, err)
}

func TestImportRejectsMissingColumns(t *testing.T) {
	svc := newTestImportService(newFakeObligationStore(), newFakeDuesStore(), newFakeMemberStore())

	// Debt upload without an amount column fails before any row runs
	csv := "Eposta,Baslik\nali@example.com,2026 aidatı\n"
	_, err := svc.Run(context.Background(), ImportDebts, strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestImportDebtsCreatesDuesAndObligation(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore()
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc := newTestImportService(obligations, dues, members)

	csv := "\uFEFFEposta,Başlık,Tutar\nali@example.com,Çatı onarımı,750\n"
	result, err := svc.Run(context.Background(), ImportDebts, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 0, result.FailCount)

	created, err := dues.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Çatı onarımı", created.Title)
	assert.Equal(t, 750.0, created.Amount)

	open, err := obligations.FindOldestOpenByMember(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, 0.0, open.PaidAmount)
	assert.Equal(t, models.ObligationPending, open.Status)
}

func TestImportPaymentsHitsOldestOpenObligation(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(
		&models.Dues{Title: "2025 aidatı", Amount: 400},
		&models.Dues{Title: "2026 aidatı", Amount: 500},
	)
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc := newTestImportService(obligations, dues, members)
	ctx := context.Background()

	// Older obligation first; the bulk payment must land on it
	older := &models.MemberObligation{MemberID: 1, DuesID: 1, Status: models.ObligationPending}
	require.NoError(t, obligations.Create(ctx, older))
	newer := &models.MemberObligation{MemberID: 1, DuesID: 2, Status: models.ObligationPending}
	require.NoError(t, obligations.Create(ctx, newer))

	csv := "Eposta,Tutar\nali@example.com,400\n"
	result, err := svc.Run(ctx, ImportPayments, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	settled, err := obligations.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, 400.0, settled.PaidAmount)
	assert.Equal(t, models.ObligationPaid, settled.Status)

	untouched, err := obligations.Get(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, untouched.PaidAmount)
}

func TestImportRowFailuresAreIsolated(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore(&models.Dues{Title: "2026 aidatı", Amount: 500})
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc := newTestImportService(obligations, dues, members)
	ctx := context.Background()

	open := &models.MemberObligation{MemberID: 1, DuesID: 1, Status: models.ObligationPending}
	require.NoError(t, obligations.Create(ctx, open))

	// Row 2 targets an unknown member, row 3 has a bad amount, row 4 is fine
	csv := strings.Join([]string{
		"Eposta,Tutar",
		"yok@example.com,100",
		"ali@example.com,abc",
		"ali@example.com,200",
		"",
	}, "\n")

	result, err := svc.Run(ctx, ImportPayments, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.FailCount)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "satır 2")
	assert.Contains(t, result.Errors[1], "satır 3")
}

func TestImportMembersCreatesAccounts(t *testing.T) {
	obligations := newFakeObligationStore()
	dues := newFakeDuesStore()
	members := newFakeMemberStore()
	svc := newTestImportService(obligations, dues, members)
	ctx := context.Background()

	csv := "İsim,Eposta,Şifre,Telefon,Adres\nAyşe Kaya,AYSE@Example.com,gizli123,05321234567,Köy merkezi\n"
	result, err := svc.Run(ctx, ImportMembers, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	m, err := members.GetByEmail(ctx, "ayse@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Kaya", m.Name)
	assert.Equal(t, "05321234567", m.Phone)
	assert.Equal(t, models.RoleMember, m.Role)
	assert.True(t, m.IsActive)
	assert.NotEmpty(t, m.PasswordHash)
}

func TestImportMembersRejectsDuplicates(t *testing.T) {
	members := newFakeMemberStore(&models.Member{Name: "Ali Demir", Email: "ali@example.com"})
	svc := newTestImportService(newFakeObligationStore(), newFakeDuesStore(), members)

	csv := "İsim,Eposta,Şifre\nAli Demir,ali@example.com,gizli123\n"
	result, err := svc.Run(context.Background(), ImportMembers, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 1, result.FailCount)
}

func TestImportMembersRequiresPasswordColumn(t *testing.T) {
	svc := newTestImportService(newFakeObligationStore(), newFakeDuesStore(), newFakeMemberStore())

	csv := "İsim,Eposta\nAyşe Kaya,ayse@example.com\n"
	_, err := svc.Run(context.Background(), ImportMembers, strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestImportUnknownKind(t *testing.T) {
	svc := newTestImportService(newFakeObligationStore(), newFakeDuesStore(), newFakeMemberStore())
	_, err := svc.Run(context.Background(), "rooms", strings.NewReader("a,b\n"))
	assert.Error(t, err)
}
