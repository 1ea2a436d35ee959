package interfaces

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	leasing "rental-cloud/internal/leasing/domain"
)

// BuildLedgerPDF renders a minimal PDF for a lease ledger.
func BuildLedgerPDF(lease *leasing.Lease, rows []leasing.MonthlyLedgerRow, currency string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Rent Ledger")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Lease: %s", lease.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Property: %s", lease.PropertyID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Start: %s", lease.StartDate.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Monthly Total (%s): %s", currency, lease.MonthlyTotal()))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(25, 6, "Month", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Rent Due", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Paid", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Balance", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Receipt", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(25, 6, row.Month.Format("2006-01"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, row.MonthlyRent.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, row.TotalPaid.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, row.BalanceAfter.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, string(row.ReceiptType), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildLedgerXLSX renders a minimal XLSX for a lease ledger.
func BuildLedgerXLSX(lease *leasing.Lease, rows []leasing.MonthlyLedgerRow, currency string) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	rowsSheet := "months"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(rowsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Rent Ledger")
	_ = f.SetCellValue(summarySheet, "A3", "Lease")
	_ = f.SetCellValue(summarySheet, "B3", lease.ID)
	_ = f.SetCellValue(summarySheet, "A4", "Property")
	_ = f.SetCellValue(summarySheet, "B4", lease.PropertyID)
	_ = f.SetCellValue(summarySheet, "A5", "Start")
	_ = f.SetCellValue(summarySheet, "B5", lease.StartDate.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A6", "Monthly Total")
	_ = f.SetCellValue(summarySheet, "B6", lease.MonthlyTotal().String())
	_ = f.SetCellValue(summarySheet, "A7", "Currency")
	_ = f.SetCellValue(summarySheet, "B7", currency)

	_ = f.SetCellValue(rowsSheet, "A1", "Month")
	_ = f.SetCellValue(rowsSheet, "B1", "Rent Due")
	_ = f.SetCellValue(rowsSheet, "C1", "Paid")
	_ = f.SetCellValue(rowsSheet, "D1", "Balance Before")
	_ = f.SetCellValue(rowsSheet, "E1", "Balance After")
	_ = f.SetCellValue(rowsSheet, "F1", "Receipt")
	for i, row := range rows {
		line := i + 2
		_ = f.SetCellValue(rowsSheet, fmt.Sprintf("A%d", line), row.Month.Format("2006-01"))
		_ = f.SetCellValue(rowsSheet, fmt.Sprintf("B%d", line), row.MonthlyRent.Float64())
		_ = f.SetCellValue(rowsSheet, fmt.Sprintf("C%d", line), row.TotalPaid.Float64())
		_ = f.SetCellValue(rowsSheet, fmt.Sprintf("D%d", line), row.BalanceBefore.InexactFloat64())
		_ = f.SetCellValue(rowsSheet, fmt.Sprintf("E%d", line), row.BalanceAfter.InexactFloat64())
		_ = f.SetCellValue(rowsSheet, fmt.Sprintf("F%d", line), string(row.ReceiptType))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReceiptPDF renders a rent receipt for a single ledger month.
func BuildReceiptPDF(lease *leasing.Lease, row leasing.MonthlyLedgerRow, currency string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	title := "Rent Receipt"
	if row.ReceiptType == leasing.ReceiptPartial {
		title = "Partial Rent Receipt"
	}
	pdf.Cell(0, 8, title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Lease: %s", lease.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Property: %s", lease.PropertyID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Month: %s", row.Month.Format("2006-01")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Rent Due (%s): %s", currency, row.MonthlyRent))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Amount Received (%s): %s", currency, row.TotalPaid))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Balance After (%s): %s", currency, row.BalanceAfter.StringFixed(2)))
	pdf.Ln(8)

	if len(row.Payments) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 6, "Date", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Amount", "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, "Notes", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, payment := range row.Payments {
			pdf.CellFormat(40, 6, payment.PaymentDate.Format("2006-01-02"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, payment.Amount.String(), "1", 0, "R", false, 0, "")
			pdf.CellFormat(70, 6, payment.Notes, "1", 0, "L", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
