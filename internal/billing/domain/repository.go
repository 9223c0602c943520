package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ConfigRepository persists fee configurations.
type ConfigRepository interface {
	// Rotate closes the current configuration at cfg.StartDate and
	// inserts cfg as the new current one, atomically.
	Rotate(ctx context.Context, cfg FeeConfiguration) error
	Current(ctx context.Context) (*FeeConfiguration, error)
	History(ctx context.Context) ([]FeeConfiguration, error)
}

// FeeFilter narrows a ledger query. Zero values mean "no filter".
type FeeFilter struct {
	Month  time.Time // normalized month start; matches [month, nextMonth)
	Status string    // stored status: pending or paid
	UserID uuid.UUID
}

// FeeRepository persists monthly fees.
type FeeRepository interface {
	// InsertBatch inserts fees, silently skipping rows whose
	// (user_id, reference_month) already exists. Returns the number
	// actually inserted.
	InsertBatch(ctx context.Context, fees []MonthlyFee) (int, error)
	List(ctx context.Context, filter FeeFilter) ([]MonthlyFee, error)
	// MarkPaid stamps the given fees paid in one batch update and
	// returns the number of rows touched.
	MarkPaid(ctx context.Context, ids []uuid.UUID, paymentDate time.Time) (int, error)
}
