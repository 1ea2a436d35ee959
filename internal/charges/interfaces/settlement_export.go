package interfaces

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	charges "rental-cloud/internal/charges/domain"
)

// BuildSettlementPDF renders a minimal PDF for a charge settlement.
func BuildSettlementPDF(result charges.SettlementResult, currency string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Charge Settlement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Property: %s", result.PropertyID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", result.PeriodStart.Format("2006-01-02"), result.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Actual Charges (%s): %s", currency, result.TotalChargesActual.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Provisional Paid (%s): %s", currency, result.ProvisionalPaid))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Balance (%s): %s", currency, result.Balance.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("New Monthly Charges (%s): %s", currency, result.NewMonthlyCharges.StringFixed(2)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Total", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Share %", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Property Share", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Method", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, breakdown := range result.Categories {
		pdf.CellFormat(40, 6, string(breakdown.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, breakdown.TotalAmount.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, breakdown.Percentage.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, breakdown.PropertyShare.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, string(breakdown.Method), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	if len(result.Warnings) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Warnings")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		for _, warning := range result.Warnings {
			pdf.Cell(0, 6, "- "+warning)
			pdf.Ln(5)
		}
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSettlementXLSX renders a minimal XLSX for a charge settlement.
func BuildSettlementXLSX(result charges.SettlementResult, currency string) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	categoriesSheet := "categories"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(categoriesSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Charge Settlement")
	_ = f.SetCellValue(summarySheet, "A3", "Property")
	_ = f.SetCellValue(summarySheet, "B3", result.PropertyID)
	_ = f.SetCellValue(summarySheet, "A4", "Period Start")
	_ = f.SetCellValue(summarySheet, "B4", result.PeriodStart.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A5", "Period End")
	_ = f.SetCellValue(summarySheet, "B5", result.PeriodEnd.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A6", "Actual Charges")
	_ = f.SetCellValue(summarySheet, "B6", result.TotalChargesActual.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A7", "Provisional Paid")
	_ = f.SetCellValue(summarySheet, "B7", result.ProvisionalPaid.Float64())
	_ = f.SetCellValue(summarySheet, "A8", "Balance")
	_ = f.SetCellValue(summarySheet, "B8", result.Balance.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A9", "New Monthly Charges")
	_ = f.SetCellValue(summarySheet, "B9", result.NewMonthlyCharges.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A10", "Currency")
	_ = f.SetCellValue(summarySheet, "B10", currency)
	for i, warning := range result.Warnings {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", 12+i), "Warning")
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", 12+i), warning)
	}

	_ = f.SetCellValue(categoriesSheet, "A1", "Category")
	_ = f.SetCellValue(categoriesSheet, "B1", "Total")
	_ = f.SetCellValue(categoriesSheet, "C1", "Share %")
	_ = f.SetCellValue(categoriesSheet, "D1", "Property Share")
	_ = f.SetCellValue(categoriesSheet, "E1", "Method")
	for i, breakdown := range result.Categories {
		row := i + 2
		_ = f.SetCellValue(categoriesSheet, fmt.Sprintf("A%d", row), string(breakdown.Category))
		_ = f.SetCellValue(categoriesSheet, fmt.Sprintf("B%d", row), breakdown.TotalAmount.Float64())
		_ = f.SetCellValue(categoriesSheet, fmt.Sprintf("C%d", row), breakdown.Percentage.InexactFloat64())
		_ = f.SetCellValue(categoriesSheet, fmt.Sprintf("D%d", row), breakdown.PropertyShare.InexactFloat64())
		_ = f.SetCellValue(categoriesSheet, fmt.Sprintf("E%d", row), string(breakdown.Method))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
