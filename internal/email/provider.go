package email

import (
	"context"
	"log"
	"sync"
)

// Message is one outbound email
type Message struct {
	To            string
	RecipientName string
	Subject       string
	HTML          string
}

// Provider is an interface for sending email
type Provider interface {
	Send(ctx context.Context, msg Message) error
}

// MockProvider logs instead of sending. Used in development when no API key
// is configured, and by tests to assert on sent messages.
type MockProvider struct {
	mu   sync.Mutex
	Sent []Message
	Err  error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	log.Printf("[MockMail] To: %s | Subject: %s", msg.To, msg.Subject)
	return nil
}

// SentCount returns how many messages were recorded
func (m *MockProvider) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
