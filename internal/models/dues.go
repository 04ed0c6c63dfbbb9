package models

import "time"

// Obligation status values. A paid obligation never flips back to pending,
// even if the dues amount is later edited above the paid total.
const (
	ObligationPending = "pending"
	ObligationPaid    = "paid"
	ObligationOverdue = "overdue"
)

// Dues is a chargeable line item (e.g. annual membership fee) defined once
// and applicable to many members.
type Dues struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Amount      float64    `json:"amount"`
	PeriodYear  int        `json:"period_year"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MemberObligation records one member's amount owed/paid against one dues
// entry. DuesTitle/DuesAmount are joined from the dues table; a deleted dues
// row leaves them zero-valued so readers degrade instead of crashing.
type MemberObligation struct {
	ID            int        `json:"id"`
	MemberID      int        `json:"member_id"`
	DuesID        int        `json:"dues_id"`
	PaidAmount    float64    `json:"paid_amount"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaymentMethod string     `json:"payment_method"`
	Notes         string     `json:"notes"`
	ReceiptNo     string     `json:"receipt_no"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	MemberName    string     `json:"member_name,omitempty"`
	MemberEmail   string     `json:"member_email,omitempty"`
	DuesTitle     string     `json:"dues_title,omitempty"`
	DuesAmount    float64    `json:"dues_amount"`
}

// Remaining returns the outstanding balance against the joined dues amount.
// Negative remainders (overpayment) are reported as 0.
func (o *MemberObligation) Remaining() float64 {
	r := o.DuesAmount - o.PaidAmount
	if r < 0 {
		return 0
	}
	return r
}

// CreateDuesRequest represents the request body for creating a dues entry
type CreateDuesRequest struct {
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	PeriodYear  int     `json:"period_year"`
	DueDate     string  `json:"due_date,omitempty"` // YYYY-MM-DD
	Description string  `json:"description"`
}

// UpdateDuesRequest represents the request body for updating a dues entry
type UpdateDuesRequest struct {
	Title       string   `json:"title"`
	Amount      *float64 `json:"amount,omitempty"`
	PeriodYear  *int     `json:"period_year,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// PostPaymentRequest represents the request body for posting a payment
type PostPaymentRequest struct {
	MemberID      int     `json:"member_id"`
	DuesID        int     `json:"dues_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	ReceiptNo     string  `json:"receipt_no,omitempty"`
	Notes         string  `json:"notes,omitempty"`

	// PostedBy is filled from the authenticated session, not the body.
	PostedBy int `json:"-"`
}

// EditPaymentRequest replaces the stored paid amount outright (not additive)
type EditPaymentRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	ReceiptNo     string  `json:"receipt_no,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// DebtSummary is the organization-wide (or per-member) aggregator output
type DebtSummary struct {
	TotalDebt          float64 `json:"total_debt"`
	OverdueCount       int     `json:"overdue_count"`
	MembersInDebt      int     `json:"members_in_debt"`
	CollectedToday     float64 `json:"collected_today"`
	CollectedThisMonth float64 `json:"collected_this_month"`
}

// MemberDebt is one row of the debtor list
type MemberDebt struct {
	MemberID    int     `json:"member_id"`
	MemberName  string  `json:"member_name"`
	MemberEmail string  `json:"member_email"`
	Phone       string  `json:"phone"`
	TotalDebt   float64 `json:"total_debt"`
	OpenCount   int     `json:"open_count"`
}
