package models

import "time"

// Transaction types
const (
	TxnIncome  = "income"
	TxnExpense = "expense"
)

// Reference types linking a transaction back to its source record
const (
	RefDuesPayment = "dues_payment"
)

type Transaction struct {
	ID            int       `json:"id"`
	TxnType       string    `json:"txn_type"`
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	OccurredOn    time.Time `json:"occurred_on"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   *int      `json:"reference_id,omitempty"`
	CreatedBy     int       `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateTransactionRequest struct {
	TxnType     string  `json:"txn_type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	OccurredOn  string  `json:"occurred_on,omitempty"` // YYYY-MM-DD, defaults to today
}

// TreasurySummary aggregates income/expense for a period
type TreasurySummary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
}
