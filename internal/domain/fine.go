package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FineStatus string

const (
	FineStatusUnpaid FineStatus = "UNPAID"
	FineStatusPaid   FineStatus = "PAID"
	FineStatusWaived FineStatus = "WAIVED"
)

// Fine is assessed against a loan at return time. Amount is a snapshot of
// the policy in effect when the fine was created and never recomputed.
// The only legal transitions are UNPAID -> PAID and UNPAID -> WAIVED, both
// terminal.
type Fine struct {
	ID            int32           `json:"id"`
	LoanID        int32           `json:"loan_id"`
	UserID        int32           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        FineStatus      `json:"status"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Payable reports whether the fine can still transition.
func (f *Fine) Payable() bool {
	return f.Status == FineStatusUnpaid
}
