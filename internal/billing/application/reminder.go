package application

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	billing "condo-portal/internal/billing/domain"
	"condo-portal/internal/billing/notify"
	"condo-portal/internal/observability/metrics"
)

// ReminderScheduler posts a daily overdue summary to the configured
// notifier. The stored status enum is never touched: overdue is derived
// against the run date, matching the ledger view.
type ReminderScheduler struct {
	fees     billing.FeeRepository
	notifier notify.Notifier
	dailyAt  string
	clock    billing.Clock
	logger   *log.Logger
}

// NewReminderScheduler constructs a scheduler.
func NewReminderScheduler(fees billing.FeeRepository, notifier notify.Notifier, dailyAt string, clock billing.Clock, logger *log.Logger) *ReminderScheduler {
	if clock == nil {
		clock = billing.SystemClock{}
	}
	return &ReminderScheduler{
		fees:     fees,
		notifier: notifier,
		dailyAt:  dailyAt,
		clock:    clock,
		logger:   logger,
	}
}

// Start begins the scheduler loop.
func (s *ReminderScheduler) Start(ctx context.Context) {
	if s == nil || s.fees == nil || s.notifier == nil || s.dailyAt == "" {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !s.shouldRun(now.UTC()) {
				continue
			}
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes one reminder pass.
func (s *ReminderScheduler) RunOnce(ctx context.Context) {
	if s == nil || s.fees == nil || s.notifier == nil {
		return
	}
	fees, err := s.fees.List(ctx, billing.FeeFilter{Status: billing.FeeStatusPending})
	if err != nil {
		metrics.IncReminderRun(metrics.ResultError)
		if s.logger != nil {
			s.logger.Printf("reminder run error: %v", err)
		}
		return
	}
	today := s.clock.Now()
	summary := billing.Summarize(fees, today)
	if summary.OverdueCount == 0 {
		metrics.IncReminderRun(metrics.ResultSuccess)
		return
	}
	overdueTotal := decimal.Zero
	for _, fee := range fees {
		if fee.DisplayStatus(today) == billing.FeeStatusOverdue {
			overdueTotal = overdueTotal.Add(fee.Amount)
		}
	}
	msg := notify.ReminderMessage{
		RunDate:      today.Format("2006-01-02"),
		OverdueCount: summary.OverdueCount,
		OverdueTotal: overdueTotal.StringFixed(2),
		PendingCount: summary.PendingCount,
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		metrics.IncReminderRun(metrics.ResultError)
		if s.logger != nil {
			s.logger.Printf("reminder notify error: %v", err)
		}
		return
	}
	metrics.IncReminderRun(metrics.ResultSuccess)
}

func (s *ReminderScheduler) shouldRun(now time.Time) bool {
	t, err := time.Parse("15:04", s.dailyAt)
	if err != nil {
		return false
	}
	return now.Hour() == t.Hour() && now.Minute() == t.Minute()
}
