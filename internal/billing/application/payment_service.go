package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"condo-portal/internal/auth"
	billing "condo-portal/internal/billing/domain"
	"condo-portal/internal/observability/metrics"
)

// PaymentService marks fees as paid.
type PaymentService struct {
	fees billing.FeeRepository
}

// NewPaymentService constructs a service.
func NewPaymentService(fees billing.FeeRepository) (*PaymentService, error) {
	if fees == nil {
		return nil, errors.New("payment service: nil fee repo")
	}
	return &PaymentService{fees: fees}, nil
}

// MarkPaid stamps every fee in ids as paid with the given payment date,
// in one batch update. Re-marking an already paid fee just overwrites its
// payment date. Director or above.
func (s *PaymentService) MarkPaid(ctx context.Context, ids []uuid.UUID, paymentDate time.Time) (int, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveMarkPaid(result, time.Since(start))
	}()

	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleDirector); err != nil {
		result = metrics.ResultError
		return 0, err
	}
	if len(ids) == 0 {
		result = metrics.ResultError
		return 0, fmt.Errorf("%w: empty fee selection", billing.ErrValidation)
	}
	if paymentDate.IsZero() {
		result = metrics.ResultError
		return 0, fmt.Errorf("%w: payment date required", billing.ErrValidation)
	}

	updated, err := s.fees.MarkPaid(ctx, ids, billing.DayStart(paymentDate))
	if err != nil {
		result = metrics.ResultError
		return 0, err
	}
	return updated, nil
}
