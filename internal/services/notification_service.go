package services

import (
	"context"
	"errors"
	"fmt"

	"dernek-backend/internal/email"
	"dernek-backend/internal/metrics"
	"dernek-backend/internal/models"
	"dernek-backend/internal/sms"
)

// NotificationLogStore persists the outcome of each outbound attempt
type NotificationLogStore interface {
	Create(ctx context.Context, n *models.NotificationLog) error
}

// recipient is one resolved dispatch target
type recipient struct {
	memberID int
	name     string
	email    string
	phone    string
}

// NotificationService runs operator-initiated bulk dispatches. Each
// recipient is attempted independently; the batch reports a tally, never a
// fatal error. Delivery is at-least-once from the operator's point of view
// (re-running a batch re-sends).
type NotificationService struct {
	Members MemberLister
	Debts   DebtStore
	Email   email.Provider
	SMS     sms.Provider
	Logs    NotificationLogStore
}

func NewNotificationService(members MemberLister, debts DebtStore, provider email.Provider,
	smsProvider sms.Provider, logs NotificationLogStore) *NotificationService {
	return &NotificationService{
		Members: members,
		Debts:   debts,
		Email:   provider,
		SMS:     smsProvider,
		Logs:    logs,
	}
}

// resolveRecipients expands the targeting options into concrete members.
// DebtorsOnly wins over explicit IDs; empty targeting means every member.
func (s *NotificationService) resolveRecipients(ctx context.Context, memberIDs []int, debtorsOnly bool) ([]recipient, error) {
	if debtorsOnly {
		debtors, err := s.Debts.DebtorList(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]recipient, 0, len(debtors))
		for _, d := range debtors {
			out = append(out, recipient{
				memberID: d.MemberID,
				name:     d.MemberName,
				email:    d.MemberEmail,
				phone:    d.Phone,
			})
		}
		return out, nil
	}

	members, err := s.Members.List(ctx, "")
	if err != nil {
		return nil, err
	}
	wanted := map[int]bool{}
	for _, id := range memberIDs {
		wanted[id] = true
	}

	var out []recipient
	for _, m := range members {
		if len(wanted) > 0 && !wanted[m.ID] {
			continue
		}
		out = append(out, recipient{memberID: m.ID, name: m.Name, email: m.Email, phone: m.Phone})
	}
	return out, nil
}

// SendBulkEmail dispatches one email per recipient, sequentially, logging
// every attempt
func (s *NotificationService) SendBulkEmail(ctx context.Context, req *models.BulkEmailRequest) (*models.DispatchResult, error) {
	if req.Subject == "" || req.Body == "" {
		return nil, errors.New("subject and body are required")
	}
	if s.Email == nil {
		return nil, errors.New("email provider is not configured")
	}

	recipients, err := s.resolveRecipients(ctx, req.MemberIDs, req.DebtorsOnly)
	if err != nil {
		return nil, err
	}

	result := &models.DispatchResult{Errors: []string{}}
	for _, r := range recipients {
		if r.email == "" {
			result.FailCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: e-posta adresi yok", r.name))
			continue
		}

		sendErr := s.Email.Send(ctx, email.Message{
			To:            r.email,
			RecipientName: r.name,
			Subject:       req.Subject,
			HTML:          req.Body,
		})
		s.logAttempt(ctx, r, models.ChannelEmail, req.Subject, req.Body, sendErr)
		if sendErr != nil {
			result.FailCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.email, sendErr))
			metrics.NotificationsSent.WithLabelValues(models.ChannelEmail, "error").Inc()
			continue
		}
		result.SuccessCount++
		metrics.NotificationsSent.WithLabelValues(models.ChannelEmail, "ok").Inc()
	}
	return result, nil
}

// SendBulkSMS dispatches one gateway call for the whole recipient set. The
// provider logs per-recipient outcomes itself.
func (s *NotificationService) SendBulkSMS(ctx context.Context, req *models.BulkSMSRequest) (*models.DispatchResult, error) {
	if req.Message == "" {
		return nil, errors.New("message is required")
	}
	if s.SMS == nil {
		return nil, errors.New("sms provider is not configured")
	}

	recipients, err := s.resolveRecipients(ctx, req.MemberIDs, req.DebtorsOnly)
	if err != nil {
		return nil, err
	}

	var phones []string
	result := &models.DispatchResult{Errors: []string{}}
	for _, r := range recipients {
		if r.phone == "" {
			result.FailCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: telefon numarası yok", r.name))
			continue
		}
		phones = append(phones, r.phone)
	}
	if len(phones) == 0 {
		return result, nil
	}

	res := s.SMS.Send(phones, req.Message, req.SendDateTime)
	if !res.Success {
		result.FailCount += len(phones)
		result.Errors = append(result.Errors, res.Error)
		metrics.NotificationsSent.WithLabelValues(models.ChannelSMS, "error").Add(float64(len(phones)))
		return result, nil
	}
	result.SuccessCount += len(phones)
	metrics.NotificationsSent.WithLabelValues(models.ChannelSMS, "ok").Add(float64(len(phones)))
	return result, nil
}

func (s *NotificationService) logAttempt(ctx context.Context, r recipient, channel, subject, message string, sendErr error) {
	if s.Logs == nil {
		return
	}
	entry := &models.NotificationLog{
		MemberID:  r.memberID,
		Channel:   channel,
		Recipient: r.email,
		Subject:   subject,
		Message:   message,
		Status:    models.NotificationSent,
	}
	if sendErr != nil {
		entry.Status = models.NotificationFailed
		entry.ErrorMessage = sendErr.Error()
	}
	// Log failures are swallowed; the dispatch outcome already stands
	_ = s.Logs.Create(ctx, entry)
}
