package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"condo-portal/internal/auth"
	billing "condo-portal/internal/billing/domain"
	"condo-portal/internal/billing/infrastructure/memory"
)

func seedFees(t *testing.T, repo *memory.FeeRepository, fees ...billing.MonthlyFee) {
	t.Helper()
	inserted, err := repo.InsertBatch(context.Background(), fees)
	if err != nil {
		t.Fatalf("seed fees: %v", err)
	}
	if inserted != len(fees) {
		t.Fatalf("seeded %d of %d fees", inserted, len(fees))
	}
}

func pendingFee(userID uuid.UUID, month, due time.Time) billing.MonthlyFee {
	return billing.MonthlyFee{
		ID:             uuid.New(),
		UserID:         userID,
		ReferenceMonth: billing.MonthStart(month),
		Amount:         decimal.NewFromFloat(350),
		DueDate:        due,
		Status:         billing.FeeStatusPending,
	}
}

func TestLedgerListDerivesOverdue(t *testing.T) {
	repo := memory.NewFeeRepository()
	userID := uuid.New()
	seedFees(t, repo,
		pendingFee(userID, day(2026, 3, 1), day(2026, 3, 10)),
		pendingFee(userID, day(2026, 5, 1), day(2026, 5, 10)),
	)
	svc, err := NewLedgerService(repo, fixedClock{now: day(2026, 4, 1)})
	if err != nil {
		t.Fatalf("NewLedgerService: %v", err)
	}

	fees, summary, err := svc.List(directorCtx(), billing.FeeFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(fees) != 2 {
		t.Fatalf("rows %d", len(fees))
	}
	// Due date descending: May first, then the overdue March row.
	if fees[0].Status != billing.FeeStatusPending {
		t.Fatalf("may status %q", fees[0].Status)
	}
	if fees[1].Status != billing.FeeStatusOverdue {
		t.Fatalf("march status %q", fees[1].Status)
	}
	if summary.OverdueCount != 1 || summary.PendingCount != 1 {
		t.Fatalf("summary %+v", summary)
	}
}

func TestLedgerResidentScopedToOwnRows(t *testing.T) {
	repo := memory.NewFeeRepository()
	self := uuid.New()
	other := uuid.New()
	seedFees(t, repo,
		pendingFee(self, day(2026, 3, 1), day(2026, 3, 10)),
		pendingFee(other, day(2026, 3, 1), day(2026, 3, 10)),
	)
	svc, _ := NewLedgerService(repo, fixedClock{now: day(2026, 3, 1)})
	ctx := residentCtx(self.String())

	fees, _, err := svc.List(ctx, billing.FeeFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(fees) != 1 || fees[0].UserID != self {
		t.Fatalf("resident saw %d rows", len(fees))
	}

	// Asking for someone else's rows is refused outright.
	if _, _, err := svc.List(ctx, billing.FeeFilter{UserID: other}); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("cross-user filter: %v", err)
	}
}

func TestLedgerOverdueFilter(t *testing.T) {
	repo := memory.NewFeeRepository()
	userID := uuid.New()
	seedFees(t, repo,
		pendingFee(userID, day(2026, 2, 1), day(2026, 2, 10)),
		pendingFee(userID, day(2026, 3, 1), day(2026, 3, 10)),
		pendingFee(userID, day(2026, 5, 1), day(2026, 5, 10)),
	)
	paid := pendingFee(userID, day(2026, 1, 1), day(2026, 1, 10))
	seedFees(t, repo, paid)
	paySvc, _ := NewPaymentService(repo)
	if _, err := paySvc.MarkPaid(directorCtx(), []uuid.UUID{paid.ID}, day(2026, 1, 8)); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	svc, _ := NewLedgerService(repo, fixedClock{now: day(2026, 4, 1)})

	fees, summary, err := svc.List(directorCtx(), billing.FeeFilter{Status: billing.FeeStatusOverdue})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// Only the February and March rows are past due; the May row is still
	// pending and the paid January row stays out.
	if len(fees) != 2 {
		t.Fatalf("rows %d", len(fees))
	}
	for _, f := range fees {
		if f.Status != billing.FeeStatusOverdue {
			t.Fatalf("status %q for %s", f.Status, f.ReferenceMonth.Format("2006-01"))
		}
	}
	if summary.OverdueCount != 2 || summary.PendingCount != 0 || summary.PaidCount != 0 {
		t.Fatalf("summary %+v", summary)
	}
}

func TestLedgerRejectsUnknownStatusFilter(t *testing.T) {
	svc, _ := NewLedgerService(memory.NewFeeRepository(), fixedClock{now: day(2026, 3, 1)})
	if _, _, err := svc.List(directorCtx(), billing.FeeFilter{Status: "late"}); !errors.Is(err, billing.ErrValidation) {
		t.Fatalf("unknown filter: %v", err)
	}
	if _, _, err := svc.List(directorCtx(), billing.FeeFilter{Status: "cancelled"}); !errors.Is(err, billing.ErrValidation) {
		t.Fatalf("unknown filter: %v", err)
	}
}

func TestMarkPaid(t *testing.T) {
	repo := memory.NewFeeRepository()
	userID := uuid.New()
	fee := pendingFee(userID, day(2026, 3, 1), day(2026, 3, 10))
	seedFees(t, repo, fee)

	svc, err := NewPaymentService(repo)
	if err != nil {
		t.Fatalf("NewPaymentService: %v", err)
	}
	updated, err := svc.MarkPaid(directorCtx(), []uuid.UUID{fee.ID}, day(2026, 3, 8))
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if updated != 1 {
		t.Fatalf("updated %d", updated)
	}

	rows, _ := repo.List(context.Background(), billing.FeeFilter{})
	if rows[0].Status != billing.FeeStatusPaid {
		t.Fatalf("status %q", rows[0].Status)
	}
	if rows[0].PaymentDate == nil || !rows[0].PaymentDate.Equal(day(2026, 3, 8)) {
		t.Fatalf("payment date %v", rows[0].PaymentDate)
	}
}

func TestMarkPaidValidation(t *testing.T) {
	svc, _ := NewPaymentService(memory.NewFeeRepository())

	if _, err := svc.MarkPaid(directorCtx(), nil, day(2026, 3, 8)); !errors.Is(err, billing.ErrValidation) {
		t.Fatalf("empty ids: %v", err)
	}
	if _, err := svc.MarkPaid(directorCtx(), []uuid.UUID{uuid.New()}, time.Time{}); !errors.Is(err, billing.ErrValidation) {
		t.Fatalf("zero date: %v", err)
	}
	if _, err := svc.MarkPaid(residentCtx(uuid.NewString()), []uuid.UUID{uuid.New()}, day(2026, 3, 8)); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("resident MarkPaid: %v", err)
	}
}

func TestMarkPaidSkipsUnknownIDs(t *testing.T) {
	repo := memory.NewFeeRepository()
	fee := pendingFee(uuid.New(), day(2026, 3, 1), day(2026, 3, 10))
	seedFees(t, repo, fee)
	svc, _ := NewPaymentService(repo)

	updated, err := svc.MarkPaid(directorCtx(), []uuid.UUID{fee.ID, uuid.New()}, day(2026, 3, 8))
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if updated != 1 {
		t.Fatalf("updated %d", updated)
	}
}
