package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDisplayStatus(t *testing.T) {
	today := time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)
	paid := MonthlyFee{Status: FeeStatusPaid, DueDate: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)}
	if got := paid.DisplayStatus(today); got != FeeStatusPaid {
		t.Fatalf("paid fee displayed as %q", got)
	}
	late := MonthlyFee{Status: FeeStatusPending, DueDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)}
	if got := late.DisplayStatus(today); got != FeeStatusOverdue {
		t.Fatalf("late fee displayed as %q", got)
	}
	dueToday := MonthlyFee{Status: FeeStatusPending, DueDate: time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)}
	if got := dueToday.DisplayStatus(today); got != FeeStatusPending {
		t.Fatalf("fee due today displayed as %q", got)
	}
	future := MonthlyFee{Status: FeeStatusPending, DueDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)}
	if got := future.DisplayStatus(today); got != FeeStatusPending {
		t.Fatalf("future fee displayed as %q", got)
	}
}

func TestSummarize(t *testing.T) {
	today := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromFloat(350.50)
	fees := []MonthlyFee{
		{Amount: amount, Status: FeeStatusPaid, DueDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Amount: amount, Status: FeeStatusPending, DueDate: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)},
		{Amount: amount, Status: FeeStatusPending, DueDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)},
	}
	summary := Summarize(fees, today)
	if summary.TotalCount != 3 {
		t.Fatalf("total count %d", summary.TotalCount)
	}
	if !summary.TotalAmount.Equal(decimal.NewFromFloat(1051.50)) {
		t.Fatalf("total amount %s", summary.TotalAmount)
	}
	if summary.PaidCount != 1 || !summary.PaidAmount.Equal(amount) {
		t.Fatalf("paid count %d amount %s", summary.PaidCount, summary.PaidAmount)
	}
	if summary.OverdueCount != 1 {
		t.Fatalf("overdue count %d", summary.OverdueCount)
	}
	if summary.PendingCount != 1 {
		t.Fatalf("pending count %d", summary.PendingCount)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, time.Now())
	if summary.TotalCount != 0 || !summary.TotalAmount.Equal(decimal.Zero) {
		t.Fatalf("unexpected summary %+v", summary)
	}
}
