package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeConfiguration is one versioned entry of the monthly fee amount.
// Configurations form a contiguous, non-overlapping timeline ordered by
// StartDate; the entry with a nil EndDate is the current one.
type FeeConfiguration struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Current reports whether this configuration is still open-ended.
func (c FeeConfiguration) Current() bool {
	return c.EndDate == nil
}
