package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"condo-portal/internal/auth"
	billing "condo-portal/internal/billing/domain"
	"condo-portal/internal/observability/metrics"
)

// ConfigService manages the versioned monthly fee amount.
type ConfigService struct {
	repo  billing.ConfigRepository
	clock billing.Clock
}

// NewConfigService constructs a service.
func NewConfigService(repo billing.ConfigRepository, clock billing.Clock) (*ConfigService, error) {
	if repo == nil {
		return nil, errors.New("config service: nil repo")
	}
	if clock == nil {
		clock = billing.SystemClock{}
	}
	return &ConfigService{repo: repo, clock: clock}, nil
}

// SetNewRate closes the current configuration at effectiveDate and opens
// a new one with the given amount. Admin only.
func (s *ConfigService) SetNewRate(ctx context.Context, amount decimal.Decimal, effectiveDate time.Time, description string) (*billing.FeeConfiguration, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveRateSet(result, time.Since(start))
	}()

	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleAdmin); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if !amount.IsPositive() {
		result = metrics.ResultError
		return nil, fmt.Errorf("%w: amount must be positive", billing.ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		result = metrics.ResultError
		return nil, fmt.Errorf("%w: description required", billing.ErrValidation)
	}
	if effectiveDate.IsZero() {
		result = metrics.ResultError
		return nil, fmt.Errorf("%w: effective date required", billing.ErrValidation)
	}
	effectiveDate = billing.DayStart(effectiveDate)

	current, err := s.repo.Current(ctx)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if current != nil && !effectiveDate.After(current.StartDate) {
		result = metrics.ResultError
		return nil, fmt.Errorf("%w: effective date must be after %s", billing.ErrValidation, current.StartDate.Format("2006-01-02"))
	}

	cfg := billing.FeeConfiguration{
		ID:          uuid.New(),
		Amount:      amount,
		Description: strings.TrimSpace(description),
		StartDate:   effectiveDate,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.Rotate(ctx, cfg); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return &cfg, nil
}

// CurrentRate returns the active configuration, nil when none exists.
func (s *ConfigService) CurrentRate(ctx context.Context) (*billing.FeeConfiguration, error) {
	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleDirector); err != nil {
		return nil, err
	}
	return s.repo.Current(ctx)
}

// History returns all configurations, newest first.
func (s *ConfigService) History(ctx context.Context) ([]billing.FeeConfiguration, error) {
	if err := auth.RequireRole(auth.RoleFromContext(ctx), auth.RoleDirector); err != nil {
		return nil, err
	}
	return s.repo.History(ctx)
}
