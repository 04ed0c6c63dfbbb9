package services

import (
	"context"
	"testing"

	"dernek-backend/internal/email"
	"dernek-backend/internal/models"
	"dernek-backend/internal/sms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogStore struct {
	entries []*models.NotificationLog
}

func (f *fakeLogStore) Create(ctx context.Context, n *models.NotificationLog) error {
	f.entries = append(f.entries, n)
	return nil
}

func TestSendBulkEmailToAllMembers(t *testing.T) {
	members := &fakeMemberLister{members: []*models.Member{
		{ID: 1, Name: "Ali Demir", Email: "ali@example.com"},
		{ID: 2, Name: "Ayşe Kaya", Email: "ayse@example.com"},
		{ID: 3, Name: "Veli Çelik"}, // no email address
	}}
	provider := email.NewMockProvider()
	logs := &fakeLogStore{}
	svc := NewNotificationService(members, nil, provider, sms.NewMockSMSService(), logs)

	result, err := svc.SendBulkEmail(context.Background(), &models.BulkEmailRequest{
		Subject: "Genel Kurul",
		Body:    "<p>Toplantı 5 Nisan'da</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailCount)
	assert.Equal(t, 2, provider.SentCount())
	assert.Len(t, logs.entries, 2, "only actual attempts are logged")
}

func TestSendBulkEmailToSelectedMembers(t *testing.T) {
	members := &fakeMemberLister{members: []*models.Member{
		{ID: 1, Name: "Ali Demir", Email: "ali@example.com"},
		{ID: 2, Name: "Ayşe Kaya", Email: "ayse@example.com"},
	}}
	provider := email.NewMockProvider()
	svc := NewNotificationService(members, nil, provider, sms.NewMockSMSService(), &fakeLogStore{})

	result, err := svc.SendBulkEmail(context.Background(), &models.BulkEmailRequest{
		Subject:   "Hatırlatma",
		Body:      "<p>Aidat</p>",
		MemberIDs: []int{2},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	require.Equal(t, 1, provider.SentCount())
	assert.Equal(t, "ayse@example.com", provider.Sent[0].To)
}

func TestSendBulkEmailToDebtorsOnly(t *testing.T) {
	debts := &fakeDebtStore{debtors: []*models.MemberDebt{
		{MemberID: 1, MemberName: "Ali Demir", MemberEmail: "ali@example.com", TotalDebt: 500},
	}}
	provider := email.NewMockProvider()
	svc := NewNotificationService(&fakeMemberLister{}, debts, provider, sms.NewMockSMSService(), &fakeLogStore{})

	result, err := svc.SendBulkEmail(context.Background(), &models.BulkEmailRequest{
		Subject:     "Borç hatırlatma",
		Body:        "<p>Ödenmemiş aidatınız var</p>",
		DebtorsOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, "ali@example.com", provider.Sent[0].To)
}

func TestSendBulkEmailValidation(t *testing.T) {
	svc := NewNotificationService(&fakeMemberLister{}, nil, email.NewMockProvider(), sms.NewMockSMSService(), &fakeLogStore{})

	_, err := svc.SendBulkEmail(context.Background(), &models.BulkEmailRequest{Body: "x"})
	assert.Error(t, err)
	_, err = svc.SendBulkEmail(context.Background(), &models.BulkEmailRequest{Subject: "x"})
	assert.Error(t, err)
}

func TestSendBulkSMS(t *testing.T) {
	members := &fakeMemberLister{members: []*models.Member{
		{ID: 1, Name: "Ali Demir", Phone: "05321112233"},
		{ID: 2, Name: "Ayşe Kaya"}, // no phone
	}}
	svc := NewNotificationService(members, nil, email.NewMockProvider(), sms.NewMockSMSService(), &fakeLogStore{})

	result, err := svc.SendBulkSMS(context.Background(), &models.BulkSMSRequest{
		Message: "Toplantı yarın saat 14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailCount)
}
