package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"condo-portal/internal/auth"
	billing "condo-portal/internal/billing/domain"
	"condo-portal/internal/observability/metrics"
)

// CarneMonths is the length of an annual carnê run.
const CarneMonths = 12

// RosterEntry is one billable resident.
type RosterEntry struct {
	ID   uuid.UUID
	Name string
}

// RosterSource supplies the active resident roster.
type RosterSource interface {
	ActiveResidents(ctx context.Context) ([]RosterEntry, error)
}

// MonthResult reports one month of a generation run.
type MonthResult struct {
	Month       string          `json:"month"`
	Label       string          `json:"label"`
	Inserted    int             `json:"inserted"`
	Skipped     int             `json:"skipped"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// BatchSummary reports a whole generation run. Inserted counts only rows
// actually written; residents that already had a fee for a month are
// counted under Skipped.
type BatchSummary struct {
	Inserted    int             `json:"inserted"`
	Skipped     int             `json:"skipped"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Months      []MonthResult   `json:"months"`
}

// BatchService creates monthly fees for the active roster.
type BatchService struct {
	fees          billing.FeeRepository
	config        billing.ConfigRepository
	roster        RosterSource
	clock         billing.Clock
	defaultDueDay int
}

// BatchOption customizes a BatchService.
type BatchOption func(*BatchService)

// WithDefaultDueDay sets the day of month used when a generation request
// carries no due date.
func WithDefaultDueDay(day int) BatchOption {
	return func(s *BatchService) {
		if day >= 1 && day <= 31 {
			s.defaultDueDay = day
		}
	}
}

// NewBatchService constructs a service.
func NewBatchService(fees billing.FeeRepository, config billing.ConfigRepository, roster RosterSource, clock billing.Clock, opts ...BatchOption) (*BatchService, error) {
	if fees == nil {
		return nil, errors.New("batch service: nil fee repo")
	}
	if config == nil {
		return nil, errors.New("batch service: nil config repo")
	}
	if roster == nil {
		return nil, errors.New("batch service: nil roster")
	}
	if clock == nil {
		clock = billing.SystemClock{}
	}
	s := &BatchService{fees: fees, config: config, roster: roster, clock: clock}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateBatch creates one pending fee per active resident for the
// reference month, skipping residents already billed for it. With annual
// set it repeats for twelve consecutive months, advancing the due date by
// one month each iteration; months are independent, so an error midway
// leaves earlier months committed. Admin only.
func (s *BatchService) GenerateBatch(ctx context.Context, referenceMonth, dueDate time.Time, customAmount *decimal.Decimal, annual bool) (*BatchSummary, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveBatchGenerate(result, time.Since(start))
	}()

	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleAdmin); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if referenceMonth.IsZero() {
		result = metrics.ResultError
		return nil, fmt.Errorf("%w: reference month required", billing.ErrValidation)
	}
	if dueDate.IsZero() && s.defaultDueDay > 0 {
		first := billing.MonthStart(referenceMonth)
		day := s.defaultDueDay
		if last := first.AddDate(0, 1, -1).Day(); day > last {
			day = last
		}
		dueDate = time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
	}
	if dueDate.IsZero() {
		result = metrics.ResultError
		return nil, fmt.Errorf("%w: due date required", billing.ErrValidation)
	}
	// Catches transposed month/due-date fields before writing a full run.
	if billing.DayStart(dueDate).Before(billing.MonthStart(referenceMonth)) {
		result = metrics.ResultError
		return nil, fmt.Errorf("%w: due date %s is before reference month %s", billing.ErrValidation,
			dueDate.Format("2006-01-02"), referenceMonth.Format("2006-01"))
	}
	if customAmount != nil && !customAmount.IsPositive() {
		result = metrics.ResultError
		return nil, fmt.Errorf("%w: amount must be positive", billing.ErrValidation)
	}

	amount, err := s.resolveAmount(ctx, customAmount)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	roster, err := s.roster.ActiveResidents(ctx)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	months := 1
	if annual {
		months = CarneMonths
	}
	referenceMonth = billing.MonthStart(referenceMonth)
	dueDate = billing.DayStart(dueDate)

	summary := &BatchSummary{TotalAmount: decimal.Zero}
	for i := 0; i < months; i++ {
		month := billing.MonthStart(referenceMonth.AddDate(0, i, 0))
		due := billing.AddMonthsClamped(dueDate, i)
		monthResult, err := s.generateMonth(ctx, roster, month, due, amount)
		if err != nil {
			result = metrics.ResultError
			return summary, err
		}
		summary.Inserted += monthResult.Inserted
		summary.Skipped += monthResult.Skipped
		summary.TotalAmount = summary.TotalAmount.Add(monthResult.TotalAmount)
		summary.Months = append(summary.Months, monthResult)
	}
	metrics.AddBatchCounts(summary.Inserted, summary.Skipped)
	return summary, nil
}

func (s *BatchService) resolveAmount(ctx context.Context, customAmount *decimal.Decimal) (decimal.Decimal, error) {
	if customAmount != nil {
		return *customAmount, nil
	}
	current, err := s.config.Current(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if current == nil {
		return decimal.Zero, billing.ErrNoCurrentRate
	}
	return current.Amount, nil
}

func (s *BatchService) generateMonth(ctx context.Context, roster []RosterEntry, month, dueDate time.Time, amount decimal.Decimal) (MonthResult, error) {
	now := s.clock.Now()
	fees := make([]billing.MonthlyFee, 0, len(roster))
	for _, entry := range roster {
		fees = append(fees, billing.MonthlyFee{
			ID:             uuid.New(),
			UserID:         entry.ID,
			ReferenceMonth: month,
			Amount:         amount,
			DueDate:        dueDate,
			Status:         billing.FeeStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	inserted, err := s.fees.InsertBatch(ctx, fees)
	if err != nil {
		return MonthResult{}, err
	}
	return MonthResult{
		Month:       month.Format("2006-01"),
		Label:       billing.MonthLabel(month),
		Inserted:    inserted,
		Skipped:     len(roster) - inserted,
		TotalAmount: amount.Mul(decimal.NewFromInt(int64(inserted))),
	}, nil
}
