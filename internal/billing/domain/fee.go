package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FeeStatusPending = "pending"
	FeeStatusPaid    = "paid"

	// FeeStatusOverdue is a display value only. Storage never holds it:
	// a pending fee past its due date is reported as overdue at read time.
	FeeStatusOverdue = "overdue"
)

// MonthlyFee is one resident's billing obligation for one calendar month.
type MonthlyFee struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	ResidentName   string          `json:"resident_name,omitempty"`
	ReferenceMonth time.Time       `json:"reference_month"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        time.Time       `json:"due_date"`
	Status         string          `json:"status"`
	PaymentDate    *time.Time      `json:"payment_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DisplayStatus resolves the presentation status for a reference day.
func (f MonthlyFee) DisplayStatus(today time.Time) string {
	if f.Status == FeeStatusPaid {
		return FeeStatusPaid
	}
	if f.DueDate.Before(DayStart(today)) {
		return FeeStatusOverdue
	}
	return FeeStatusPending
}

// LedgerSummary aggregates a fee list. All fields are pure reductions over
// the rows the summary was built from; nothing is read from storage.
type LedgerSummary struct {
	TotalCount   int             `json:"total_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidCount    int             `json:"paid_count"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	PendingCount int             `json:"pending_count"`
	OverdueCount int             `json:"overdue_count"`
}

// Summarize reduces a fee list into ledger totals, deriving overdue
// against the given day.
func Summarize(fees []MonthlyFee, today time.Time) LedgerSummary {
	summary := LedgerSummary{
		TotalAmount: decimal.Zero,
		PaidAmount:  decimal.Zero,
	}
	for _, fee := range fees {
		summary.TotalCount++
		summary.TotalAmount = summary.TotalAmount.Add(fee.Amount)
		switch fee.DisplayStatus(today) {
		case FeeStatusPaid:
			summary.PaidCount++
			summary.PaidAmount = summary.PaidAmount.Add(fee.Amount)
		case FeeStatusOverdue:
			summary.OverdueCount++
		default:
			summary.PendingCount++
		}
	}
	return summary
}
