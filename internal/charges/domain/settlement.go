package charges

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rental-cloud/internal/money"
)

// CalculationMethod describes how a category share was allocated.
type CalculationMethod string

const (
	MethodFixedPercentage  CalculationMethod = "FIXED_PERCENTAGE"
	MethodWaterConsumption CalculationMethod = "WATER_CONSUMPTION"
)

// WaterAllocationDetail explains a water-consumption allocation.
type WaterAllocationDetail struct {
	PropertyAnnualConsumption float64
	BuildingTotalConsumption  float64
	Method                    ConsumptionMethod
	PeriodStart               time.Time
	PeriodEnd                 time.Time
	DaysBetween               int
}

// CategoryBreakdown is the settlement of one expense category.
type CategoryBreakdown struct {
	Category      Category
	Documents     []FinancialDocument
	TotalAmount   money.Money
	Percentage    decimal.Decimal
	PropertyShare decimal.Decimal
	Method        CalculationMethod
	Water         *WaterAllocationDetail
}

// SettlementResult is the annual charge settlement for one property.
type SettlementResult struct {
	PropertyID         string
	PeriodStart        time.Time
	PeriodEnd          time.Time
	Categories         []CategoryBreakdown
	TotalChargesActual decimal.Decimal
	ProvisionalPaid    money.Money
	// Balance is provisional minus actual: positive means the landlord
	// owes the tenant, negative means the tenant still owes.
	Balance           decimal.Decimal
	NewMonthlyCharges decimal.Decimal
	Warnings          []string
}

// SettlementInput is the immutable snapshot a settlement runs over.
type SettlementInput struct {
	PropertyID      string
	Documents       []FinancialDocument
	Shares          []PropertyChargeShare
	Readings        []WaterMeterReading
	ProvisionalPaid money.Money
	ReferenceDate   time.Time
}

// Settle computes the annual charge settlement for a property over the
// trailing 12 months ending at the reference date. It always completes:
// missing configuration or unusable water data zeroes the affected share
// and adds a warning instead of failing.
func Settle(input SettlementInput) SettlementResult {
	periodStart := input.ReferenceDate.AddDate(0, -12, 0)

	result := SettlementResult{
		PropertyID:      input.PropertyID,
		PeriodStart:     periodStart,
		PeriodEnd:       input.ReferenceDate,
		ProvisionalPaid: input.ProvisionalPaid,
	}

	byCategory := make(map[Category][]FinancialDocument)
	for _, doc := range input.Documents {
		if !doc.IncludedInCharges || doc.Date.Before(periodStart) {
			continue
		}
		byCategory[doc.Category] = append(byCategory[doc.Category], doc)
	}

	shareByCategory := make(map[Category]decimal.Decimal)
	for _, share := range input.Shares {
		shareByCategory[share.Category] = share.Percentage
	}

	total := decimal.Zero
	for _, category := range Categories() {
		docs, ok := byCategory[category]
		if !ok {
			continue
		}

		totalAmount := money.Zero()
		for _, doc := range docs {
			totalAmount = totalAmount.Add(doc.Amount)
		}

		var breakdown CategoryBreakdown
		if category == CategoryWater {
			breakdown = settleWater(docs, totalAmount, input.Readings, &result.Warnings)
		} else {
			breakdown = settleFixed(category, docs, totalAmount, shareByCategory[category], &result.Warnings)
		}
		total = total.Add(breakdown.PropertyShare)
		result.Categories = append(result.Categories, breakdown)
	}

	result.TotalChargesActual = total
	result.Balance = input.ProvisionalPaid.Decimal().Sub(total)
	result.NewMonthlyCharges = total.Div(decimal.NewFromInt(12))
	return result
}

func settleFixed(category Category, docs []FinancialDocument, totalAmount money.Money, percentage decimal.Decimal, warnings *[]string) CategoryBreakdown {
	if percentage.IsZero() && !totalAmount.IsZero() {
		*warnings = append(*warnings, fmt.Sprintf("category %s: invoices exist but no charge share is configured", category))
	}
	return CategoryBreakdown{
		Category:      category,
		Documents:     docs,
		TotalAmount:   totalAmount,
		Percentage:    percentage,
		PropertyShare: totalAmount.Decimal().Mul(percentage).Div(decimal.NewFromInt(100)),
		Method:        MethodFixedPercentage,
	}
}

func settleWater(docs []FinancialDocument, totalAmount money.Money, readings []WaterMeterReading, warnings *[]string) CategoryBreakdown {
	breakdown := CategoryBreakdown{
		Category:    CategoryWater,
		Documents:   docs,
		TotalAmount: totalAmount,
		Method:      MethodWaterConsumption,
	}

	annual, err := AnnualWaterConsumption(readings)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("category WATER: consumption not computable: %v", err))
		return breakdown
	}
	if annual == nil {
		*warnings = append(*warnings, "category WATER: cannot compute consumption, at least two meter readings are required")
		return breakdown
	}

	var buildingTotal float64
	for _, doc := range docs {
		if doc.WaterConsumption != nil {
			buildingTotal += *doc.WaterConsumption
		}
	}

	breakdown.Water = &WaterAllocationDetail{
		PropertyAnnualConsumption: annual.Consumption,
		BuildingTotalConsumption:  buildingTotal,
		Method:                    annual.Method,
		PeriodStart:               annual.PeriodStart,
		PeriodEnd:                 annual.PeriodEnd,
		DaysBetween:               annual.DaysBetween,
	}

	if buildingTotal == 0 {
		*warnings = append(*warnings, "category WATER: invoices are missing consumption values, share cannot be derived")
		return breakdown
	}

	percentage := decimal.NewFromFloat(annual.Consumption / buildingTotal * 100)
	breakdown.Percentage = percentage
	breakdown.PropertyShare = totalAmount.Decimal().Mul(percentage).Div(decimal.NewFromInt(100))
	return breakdown
}
