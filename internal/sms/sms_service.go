package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"dernek-backend/internal/models"
)

// Provider is an interface for sending SMS messages
type Provider interface {
	Send(recipients []string, message, sendDateTime string) models.SMSResult
	SetLogRepository(repo LogRepo)
}

// LogRepo interface for logging dispatch attempts
type LogRepo interface {
	Create(ctx context.Context, log *models.NotificationLog) error
}

// sendRequest is the SMS gateway wire format
type sendRequest struct {
	APIKey       string   `json:"api_key"`
	Sender       string   `json:"sender"`
	Recipients   []string `json:"recipients"`
	Message      string   `json:"message"`
	SendDateTime string   `json:"send_date_time,omitempty"`
}

type sendResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

const gatewayURL = "https://api.vatansms.net/api/v1/otp"

// VatanSMSService implements Provider for the VatanSMS gateway (Turkey)
type VatanSMSService struct {
	APIKey  string
	Sender  string
	LogRepo LogRepo
	Client  *http.Client
}

func NewVatanSMSService(apiKey, sender string) *VatanSMSService {
	return &VatanSMSService{
		APIKey: apiKey,
		Sender: sender,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *VatanSMSService) SetLogRepository(repo LogRepo) {
	s.LogRepo = repo
}

// Send submits one message to up to N recipients in a single gateway call.
// The result is never an error value: callers treat SMS failures as
// non-fatal and read the result struct.
func (s *VatanSMSService) Send(recipients []string, message, sendDateTime string) models.SMSResult {
	payload := sendRequest{
		APIKey:       s.APIKey,
		Sender:       s.Sender,
		Recipients:   recipients,
		Message:      message,
		SendDateTime: sendDateTime,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return s.logged(recipients, message, models.SMSResult{Error: err.Error()})
	}

	resp, err := s.Client.Post(gatewayURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return s.logged(recipients, message, models.SMSResult{Error: fmt.Sprintf("gateway unreachable: %v", err)})
	}
	defer resp.Body.Close()

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return s.logged(recipients, message, models.SMSResult{Error: fmt.Sprintf("bad gateway response: %v", err)})
	}

	if !result.Success {
		errMsg := result.Error
		if errMsg == "" {
			errMsg = fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		}
		return s.logged(recipients, message, models.SMSResult{Error: errMsg})
	}

	return s.logged(recipients, message, models.SMSResult{Success: true, OrderID: result.OrderID})
}

func (s *VatanSMSService) logged(recipients []string, message string, result models.SMSResult) models.SMSResult {
	if s.LogRepo == nil {
		return result
	}

	status := models.NotificationSent
	if !result.Success {
		status = models.NotificationFailed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, phone := range recipients {
		entry := &models.NotificationLog{
			Channel:      models.ChannelSMS,
			Recipient:    phone,
			Message:      message,
			Status:       status,
			ErrorMessage: result.Error,
			OrderID:      result.OrderID,
		}
		if err := s.LogRepo.Create(ctx, entry); err != nil {
			log.Printf("[SMS] Failed to log dispatch for %s: %v", phone, err)
		}
	}
	return result
}

// MockSMSService prints to the log instead of hitting the gateway
type MockSMSService struct {
	LogRepo LogRepo
}

func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

func (s *MockSMSService) SetLogRepository(repo LogRepo) {
	s.LogRepo = repo
}

func (s *MockSMSService) Send(recipients []string, message, sendDateTime string) models.SMSResult {
	log.Printf("[MockSMS] To %d recipient(s): %s", len(recipients), message)

	if s.LogRepo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, phone := range recipients {
			entry := &models.NotificationLog{
				Channel:   models.ChannelSMS,
				Recipient: phone,
				Message:   message,
				Status:    models.NotificationSent,
			}
			if err := s.LogRepo.Create(ctx, entry); err != nil {
				log.Printf("[MockSMS] Failed to log dispatch for %s: %v", phone, err)
			}
		}
	}

	return models.SMSResult{Success: true, OrderID: "mock"}
}
