package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"condo-portal/internal/auth"
	billing "condo-portal/internal/billing/domain"
	"condo-portal/internal/billing/infrastructure/memory"
)

type staticRoster struct {
	entries []RosterEntry
	err     error
}

func (r staticRoster) ActiveResidents(ctx context.Context) ([]RosterEntry, error) {
	return r.entries, r.err
}

func makeRoster(n int) staticRoster {
	entries := make([]RosterEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, RosterEntry{
			ID:   uuid.New(),
			Name: fmt.Sprintf("Resident %d", i+1),
		})
	}
	return staticRoster{entries: entries}
}

func seededConfig(t *testing.T, amount float64) *memory.ConfigRepository {
	t.Helper()
	repo := memory.NewConfigRepository()
	if err := repo.Rotate(context.Background(), billing.FeeConfiguration{
		ID:        uuid.New(),
		Amount:    decimal.NewFromFloat(amount),
		StartDate: day(2026, 1, 1),
	}); err != nil {
		t.Fatalf("seed configuration: %v", err)
	}
	return repo
}

func TestGenerateBatchSingleMonth(t *testing.T) {
	fees := memory.NewFeeRepository()
	roster := makeRoster(5)
	svc, err := NewBatchService(fees, seededConfig(t, 350), roster, fixedClock{now: day(2026, 3, 1)})
	if err != nil {
		t.Fatalf("NewBatchService: %v", err)
	}

	summary, err := svc.GenerateBatch(adminCtx(), day(2026, 3, 1), day(2026, 3, 10), nil, false)
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if summary.Inserted != 5 || summary.Skipped != 0 {
		t.Fatalf("inserted %d skipped %d", summary.Inserted, summary.Skipped)
	}
	if !summary.TotalAmount.Equal(decimal.NewFromFloat(1750)) {
		t.Fatalf("total amount %s", summary.TotalAmount)
	}
	if len(summary.Months) != 1 || summary.Months[0].Month != "2026-03" {
		t.Fatalf("months %+v", summary.Months)
	}

	rows, err := fees.List(context.Background(), billing.FeeFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("stored %d fees", len(rows))
	}
	for _, row := range rows {
		if row.Status != billing.FeeStatusPending {
			t.Fatalf("new fee status %q", row.Status)
		}
		if !row.DueDate.Equal(day(2026, 3, 10)) {
			t.Fatalf("due date %v", row.DueDate)
		}
	}
}

func TestGenerateBatchIdempotent(t *testing.T) {
	fees := memory.NewFeeRepository()
	roster := makeRoster(5)
	svc, _ := NewBatchService(fees, seededConfig(t, 350), roster, fixedClock{now: day(2026, 3, 1)})
	ctx := adminCtx()

	if _, err := svc.GenerateBatch(ctx, day(2026, 3, 1), day(2026, 3, 10), nil, false); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.GenerateBatch(ctx, day(2026, 3, 1), day(2026, 3, 10), nil, false)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Inserted != 0 || second.Skipped != 5 {
		t.Fatalf("rerun inserted %d skipped %d", second.Inserted, second.Skipped)
	}
	rows, _ := fees.List(context.Background(), billing.FeeFilter{})
	if len(rows) != 5 {
		t.Fatalf("rerun duplicated rows: %d", len(rows))
	}
}

func TestGenerateBatchAnnual(t *testing.T) {
	fees := memory.NewFeeRepository()
	roster := makeRoster(2)
	svc, _ := NewBatchService(fees, seededConfig(t, 300), roster, fixedClock{now: day(2026, 1, 1)})

	summary, err := svc.GenerateBatch(adminCtx(), day(2026, 1, 1), day(2026, 1, 31), nil, true)
	if err != nil {
		t.Fatalf("GenerateBatch annual: %v", err)
	}
	if summary.Inserted != 24 {
		t.Fatalf("inserted %d", summary.Inserted)
	}
	if len(summary.Months) != CarneMonths {
		t.Fatalf("months %d", len(summary.Months))
	}
	if summary.Months[0].Month != "2026-01" || summary.Months[11].Month != "2026-12" {
		t.Fatalf("month range %s .. %s", summary.Months[0].Month, summary.Months[11].Month)
	}

	// Due date 31 must clamp inside short months.
	feb, _ := fees.List(context.Background(), billing.FeeFilter{Month: day(2026, 2, 1)})
	if len(feb) != 2 {
		t.Fatalf("february rows %d", len(feb))
	}
	if !feb[0].DueDate.Equal(day(2026, 2, 28)) {
		t.Fatalf("february due date %v", feb[0].DueDate)
	}
	apr, _ := fees.List(context.Background(), billing.FeeFilter{Month: day(2026, 4, 1)})
	if !apr[0].DueDate.Equal(day(2026, 4, 30)) {
		t.Fatalf("april due date %v", apr[0].DueDate)
	}
}

func TestGenerateBatchCustomAmount(t *testing.T) {
	fees := memory.NewFeeRepository()
	svc, _ := NewBatchService(fees, memory.NewConfigRepository(), makeRoster(3), fixedClock{now: day(2026, 3, 1)})

	custom := decimal.NewFromFloat(412.75)
	summary, err := svc.GenerateBatch(adminCtx(), day(2026, 3, 1), day(2026, 3, 10), &custom, false)
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if !summary.TotalAmount.Equal(decimal.NewFromFloat(1238.25)) {
		t.Fatalf("total amount %s", summary.TotalAmount)
	}
}

func TestGenerateBatchNoCurrentRate(t *testing.T) {
	fees := memory.NewFeeRepository()
	svc, _ := NewBatchService(fees, memory.NewConfigRepository(), makeRoster(3), fixedClock{now: day(2026, 3, 1)})

	_, err := svc.GenerateBatch(adminCtx(), day(2026, 3, 1), day(2026, 3, 10), nil, false)
	if !errors.Is(err, billing.ErrNoCurrentRate) {
		t.Fatalf("expected ErrNoCurrentRate, got %v", err)
	}
}

func TestGenerateBatchDefaultDueDay(t *testing.T) {
	fees := memory.NewFeeRepository()
	svc, _ := NewBatchService(fees, seededConfig(t, 300), makeRoster(1), fixedClock{now: day(2026, 2, 1)}, WithDefaultDueDay(31))

	if _, err := svc.GenerateBatch(adminCtx(), day(2026, 2, 1), time.Time{}, nil, false); err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	rows, _ := fees.List(context.Background(), billing.FeeFilter{})
	if len(rows) != 1 {
		t.Fatalf("rows %d", len(rows))
	}
	if !rows[0].DueDate.Equal(day(2026, 2, 28)) {
		t.Fatalf("derived due date %v", rows[0].DueDate)
	}
}

func TestGenerateBatchRequiresAdmin(t *testing.T) {
	fees := memory.NewFeeRepository()
	svc, _ := NewBatchService(fees, seededConfig(t, 300), makeRoster(1), fixedClock{now: day(2026, 3, 1)})

	_, err := svc.GenerateBatch(directorCtx(), day(2026, 3, 1), day(2026, 3, 10), nil, false)
	if !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("director GenerateBatch: %v", err)
	}
}

func TestGenerateBatchValidation(t *testing.T) {
	fees := memory.NewFeeRepository()
	svc, _ := NewBatchService(fees, seededConfig(t, 300), makeRoster(1), fixedClock{now: day(2026, 3, 1)})
	ctx := adminCtx()

	if _, err := svc.GenerateBatch(ctx, time.Time{}, day(2026, 3, 10), nil, false); !errors.Is(err, billing.ErrValidation) {
		t.Fatalf("missing month: %v", err)
	}
	if _, err := svc.GenerateBatch(ctx, day(2026, 3, 1), time.Time{}, nil, false); !errors.Is(err, billing.ErrValidation) {
		t.Fatalf("missing due date without default: %v", err)
	}
	bad := decimal.NewFromFloat(-5)
	if _, err := svc.GenerateBatch(ctx, day(2026, 3, 1), day(2026, 3, 10), &bad, false); !errors.Is(err, billing.ErrValidation) {
		t.Fatalf("negative custom amount: %v", err)
	}
}

func TestGenerateBatchRejectsDueDateBeforeMonth(t *testing.T) {
	fees := memory.NewFeeRepository()
	svc, _ := NewBatchService(fees, seededConfig(t, 300), makeRoster(3), fixedClock{now: day(2026, 3, 1)})
	ctx := adminCtx()

	// Transposed fields: due date a full month before the billed month.
	if _, err := svc.GenerateBatch(ctx, day(2026, 3, 1), day(2026, 2, 10), nil, true); !errors.Is(err, billing.ErrValidation) {
		t.Fatalf("early due date: %v", err)
	}
	rows, _ := fees.List(context.Background(), billing.FeeFilter{})
	if len(rows) != 0 {
		t.Fatalf("wrote %d rows", len(rows))
	}

	// A due date inside the reference month is fine.
	if _, err := svc.GenerateBatch(ctx, day(2026, 3, 1), day(2026, 3, 10), nil, false); err != nil {
		t.Fatalf("in-month due date: %v", err)
	}
}
