package interfaces

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billing "condo-portal/internal/billing/domain"
)

func sampleFee(name string, month, due time.Time) billing.MonthlyFee {
	return billing.MonthlyFee{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		ResidentName:   name,
		ReferenceMonth: month,
		Amount:         decimal.NewFromFloat(350.50),
		DueDate:        due,
		Status:         billing.FeeStatusPending,
	}
}

func TestReceiptNumber(t *testing.T) {
	month := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := ReceiptNumber(month, 1); got != "202603-001" {
		t.Fatalf("got %q", got)
	}
	if got := ReceiptNumber(month, 42); got != "202603-042" {
		t.Fatalf("got %q", got)
	}
	december := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := ReceiptNumber(december, 120); got != "202612-120" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildCarnePDF(t *testing.T) {
	month := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	fees := []billing.MonthlyFee{
		sampleFee("Ana Souza", month, due),
		sampleFee("Bruno Lima", month, due),
		sampleFee("Carla Dias", month, due),
		sampleFee("Daniel Reis", month, due),
	}
	out, err := BuildCarnePDF("Carnê 2026-03", fees)
	if err != nil {
		t.Fatalf("BuildCarnePDF: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty PDF output")
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}

func TestBuildCarnePDFRejectsMalformedInput(t *testing.T) {
	month := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	if _, err := BuildCarnePDF("empty", nil); err == nil {
		t.Fatal("expected error for empty fee list")
	}

	noName := sampleFee("", month, due)
	if _, err := BuildCarnePDF("no name", []billing.MonthlyFee{noName}); err == nil {
		t.Fatal("expected error for missing resident name")
	}

	noDue := sampleFee("Ana Souza", month, time.Time{})
	out, err := BuildCarnePDF("no due", []billing.MonthlyFee{sampleFee("Ok", month, due), noDue})
	if err == nil {
		t.Fatal("expected error for missing due date")
	}
	if out != nil {
		t.Fatal("malformed input must not yield partial output")
	}
}

func TestBuildLedgerXLSX(t *testing.T) {
	month := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	fees := []billing.MonthlyFee{sampleFee("Ana Souza", month, due)}
	summary := billing.Summarize(fees, due)

	out, err := BuildLedgerXLSX(fees, summary)
	if err != nil {
		t.Fatalf("BuildLedgerXLSX: %v", err)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(out, []byte("PK")) {
		t.Fatal("output is not an XLSX archive")
	}
}

func TestWriteLedgerCSV(t *testing.T) {
	month := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	paid := sampleFee("Ana Souza", month, due)
	paid.Status = billing.FeeStatusPaid
	paymentDate := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	paid.PaymentDate = &paymentDate

	var buf strings.Builder
	if err := WriteLedgerCSV(&buf, []billing.MonthlyFee{paid, sampleFee("Bruno Lima", month, due)}); err != nil {
		t.Fatalf("WriteLedgerCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records %d", len(records))
	}
	if records[0][0] != "resident" {
		t.Fatalf("header %v", records[0])
	}
	if records[1][4] != billing.FeeStatusPaid || records[1][5] != "2026-03-08" {
		t.Fatalf("paid row %v", records[1])
	}
	if records[2][5] != "" {
		t.Fatalf("pending row payment date %q", records[2][5])
	}
}
