package interfaces

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	billing "condo-portal/internal/billing/domain"
)

// ReceiptNumber derives the synthetic receipt number for a fee: the
// reference month digits plus the fee's 1-based position in the rendered
// sequence. Numbers are unique within one render invocation only.
func ReceiptNumber(month time.Time, position int) string {
	return fmt.Sprintf("%s-%03d", month.Format("200601"), position)
}

// BuildCarnePDF renders a printable receipt booklet, one block per fee in
// input order. Malformed input (missing name, zero month or due date)
// fails the whole render; there is no partial output.
func BuildCarnePDF(title string, fees []billing.MonthlyFee) ([]byte, error) {
	if len(fees) == 0 {
		return nil, errors.New("carne export: no fees to render")
	}
	for i, fee := range fees {
		if fee.ResidentName == "" {
			return nil, fmt.Errorf("carne export: fee %d missing resident name", i+1)
		}
		if fee.ReferenceMonth.IsZero() || fee.DueDate.IsZero() {
			return nil, fmt.Errorf("carne export: fee %d missing dates", i+1)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, title)
	pdf.Ln(12)

	for i, fee := range fees {
		// Three receipts per page keeps blocks aligned with the
		// tear-off layout.
		if i > 0 && i%3 == 0 {
			pdf.AddPage()
		}
		number := ReceiptNumber(fee.ReferenceMonth, i+1)

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("Receipt %s", number), "TLR", 0, "L", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(95, 6, fmt.Sprintf("Resident: %s", fee.ResidentName), "L", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, fmt.Sprintf("Month: %s", billing.MonthLabel(fee.ReferenceMonth)), "R", 0, "L", false, 0, "")
		pdf.Ln(-1)
		pdf.CellFormat(95, 6, fmt.Sprintf("Amount: %s", fee.Amount.StringFixed(2)), "L", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, fmt.Sprintf("Due: %s", fee.DueDate.Format("2006-01-02")), "R", 0, "L", false, 0, "")
		pdf.Ln(-1)
		pdf.CellFormat(0, 6, "Signature: ______________________________", "BLR", 0, "L", false, 0, "")
		pdf.Ln(10)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildLedgerXLSX renders the ledger with a summary sheet.
func BuildLedgerXLSX(fees []billing.MonthlyFee, summary billing.LedgerSummary) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	feesSheet := "fees"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(feesSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Monthly Fee Ledger")
	_ = f.SetCellValue(summarySheet, "A3", "Total Fees")
	_ = f.SetCellValue(summarySheet, "B3", summary.TotalCount)
	_ = f.SetCellValue(summarySheet, "A4", "Total Amount")
	_ = f.SetCellValue(summarySheet, "B4", summary.TotalAmount.StringFixed(2))
	_ = f.SetCellValue(summarySheet, "A5", "Paid")
	_ = f.SetCellValue(summarySheet, "B5", summary.PaidCount)
	_ = f.SetCellValue(summarySheet, "A6", "Paid Amount")
	_ = f.SetCellValue(summarySheet, "B6", summary.PaidAmount.StringFixed(2))
	_ = f.SetCellValue(summarySheet, "A7", "Pending")
	_ = f.SetCellValue(summarySheet, "B7", summary.PendingCount)
	_ = f.SetCellValue(summarySheet, "A8", "Overdue")
	_ = f.SetCellValue(summarySheet, "B8", summary.OverdueCount)

	headers := []string{"Resident", "Month", "Amount", "Due Date", "Status", "Payment Date"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(feesSheet, cell, header)
	}
	for i, fee := range fees {
		row := i + 2
		_ = f.SetCellValue(feesSheet, fmt.Sprintf("A%d", row), fee.ResidentName)
		_ = f.SetCellValue(feesSheet, fmt.Sprintf("B%d", row), fee.ReferenceMonth.Format("2006-01"))
		_ = f.SetCellValue(feesSheet, fmt.Sprintf("C%d", row), fee.Amount.StringFixed(2))
		_ = f.SetCellValue(feesSheet, fmt.Sprintf("D%d", row), fee.DueDate.Format("2006-01-02"))
		_ = f.SetCellValue(feesSheet, fmt.Sprintf("E%d", row), fee.Status)
		if fee.PaymentDate != nil {
			_ = f.SetCellValue(feesSheet, fmt.Sprintf("F%d", row), fee.PaymentDate.Format("2006-01-02"))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteLedgerCSV streams the ledger as CSV.
func WriteLedgerCSV(w io.Writer, fees []billing.MonthlyFee) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"resident", "month", "amount", "due_date", "status", "payment_date"}); err != nil {
		return err
	}
	for _, fee := range fees {
		paymentDate := ""
		if fee.PaymentDate != nil {
			paymentDate = fee.PaymentDate.Format("2006-01-02")
		}
		record := []string{
			fee.ResidentName,
			fee.ReferenceMonth.Format("2006-01"),
			fee.Amount.StringFixed(2),
			fee.DueDate.Format("2006-01-02"),
			fee.Status,
			paymentDate,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
