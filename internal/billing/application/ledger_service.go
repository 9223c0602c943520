package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"condo-portal/internal/auth"
	billing "condo-portal/internal/billing/domain"
)

// LedgerService queries monthly fees. Residents only ever see their own
// rows; directors and admins see everything.
type LedgerService struct {
	fees  billing.FeeRepository
	clock billing.Clock
}

// NewLedgerService constructs a service.
func NewLedgerService(fees billing.FeeRepository, clock billing.Clock) (*LedgerService, error) {
	if fees == nil {
		return nil, errors.New("ledger service: nil fee repo")
	}
	if clock == nil {
		clock = billing.SystemClock{}
	}
	return &LedgerService{fees: fees, clock: clock}, nil
}

// List returns fees for the filter with display statuses resolved against
// today, plus the summary reduction over exactly those rows. The stored
// status enum never holds overdue; it is derived here on every read.
func (s *LedgerService) List(ctx context.Context, filter billing.FeeFilter) ([]billing.MonthlyFee, billing.LedgerSummary, error) {
	filter, err := s.scopeFilter(ctx, filter)
	if err != nil {
		return nil, billing.LedgerSummary{}, err
	}
	switch filter.Status {
	case "", billing.FeeStatusPending, billing.FeeStatusPaid, billing.FeeStatusOverdue:
	default:
		return nil, billing.LedgerSummary{}, fmt.Errorf("%w: status must be pending, paid or overdue", billing.ErrValidation)
	}

	// Overdue rows are stored as pending; fetch those and keep only the
	// ones past due today.
	wantOverdue := filter.Status == billing.FeeStatusOverdue
	if wantOverdue {
		filter.Status = billing.FeeStatusPending
	}

	fees, err := s.fees.List(ctx, filter)
	if err != nil {
		return nil, billing.LedgerSummary{}, err
	}
	today := s.clock.Now()
	if wantOverdue {
		overdue := fees[:0]
		for _, f := range fees {
			if f.DisplayStatus(today) == billing.FeeStatusOverdue {
				overdue = append(overdue, f)
			}
		}
		fees = overdue
	}
	summary := billing.Summarize(fees, today)
	for i := range fees {
		fees[i].Status = fees[i].DisplayStatus(today)
	}
	return fees, summary, nil
}

// scopeFilter pins the filter to the caller's own rows when the caller is
// a plain resident.
func (s *LedgerService) scopeFilter(ctx context.Context, filter billing.FeeFilter) (billing.FeeFilter, error) {
	role := auth.RoleFromContext(ctx)
	if auth.RoleAtLeast(role, auth.RoleDirector) {
		return filter, nil
	}
	subject := auth.SubjectFromContext(ctx)
	if subject == "" {
		return filter, auth.ErrForbidden
	}
	self, err := uuid.Parse(subject)
	if err != nil {
		return filter, auth.ErrForbidden
	}
	if filter.UserID != uuid.Nil && filter.UserID != self {
		return filter, auth.ErrForbidden
	}
	filter.UserID = self
	return filter, nil
}
