package models

import "time"

// Notification channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Notification status values
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// NotificationLog records one outbound email or SMS attempt
type NotificationLog struct {
	ID           int       `json:"id"`
	MemberID     int       `json:"member_id,omitempty"`
	Channel      string    `json:"channel"`
	Recipient    string    `json:"recipient"`
	Subject      string    `json:"subject,omitempty"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	OrderID      string    `json:"order_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// BulkSMSRequest targets selected members or all debtors
type BulkSMSRequest struct {
	Message      string `json:"message"`
	MemberIDs    []int  `json:"member_ids,omitempty"`
	DebtorsOnly  bool   `json:"debtors_only,omitempty"`
	SendDateTime string `json:"send_date_time,omitempty"` // optional scheduling, provider format
}

// BulkEmailRequest targets selected members or all debtors
type BulkEmailRequest struct {
	Subject     string `json:"subject"`
	Body        string `json:"body"` // HTML
	MemberIDs   []int  `json:"member_ids,omitempty"`
	DebtorsOnly bool   `json:"debtors_only,omitempty"`
}

// SMSResult mirrors the provider response
type SMSResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DispatchResult tallies a bulk notification run
type DispatchResult struct {
	SuccessCount int      `json:"success_count"`
	FailCount    int      `json:"fail_count"`
	Errors       []string `json:"errors"`
}
