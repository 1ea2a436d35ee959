package charges

import (
	"context"
	"time"

	"rental-cloud/internal/money"
)

// Category is a building expense category.
type Category string

const (
	CategoryWater       Category = "WATER"
	CategoryHeating     Category = "HEATING"
	CategoryElectricity Category = "ELECTRICITY"
	CategoryMaintenance Category = "MAINTENANCE"
	CategoryInsurance   Category = "INSURANCE"
	CategoryTaxes       Category = "TAXES"
	CategoryCleaning    Category = "CLEANING"
	CategoryOther       Category = "OTHER"
)

// Categories lists all known categories in canonical order.
func Categories() []Category {
	return []Category{
		CategoryWater,
		CategoryHeating,
		CategoryElectricity,
		CategoryMaintenance,
		CategoryInsurance,
		CategoryTaxes,
		CategoryCleaning,
		CategoryOther,
	}
}

// IsValid reports whether the category is known.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// FinancialDocument is a dated building expense invoice or receipt.
type FinancialDocument struct {
	ID                string
	BuildingID        string
	Category          Category
	Date              time.Time
	Amount            money.Money
	Description       string
	DocumentPath      string
	IncludedInCharges bool
	// WaterConsumption is the invoiced volume in cubic meters,
	// set only on WATER documents.
	WaterConsumption *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks document invariants against the given current time.
func (d FinancialDocument) Validate(now time.Time) error {
	if d.ID == "" {
		return ErrEmptyDocumentID
	}
	if d.BuildingID == "" {
		return ErrEmptyBuildingID
	}
	if !d.Category.IsValid() {
		return ErrInvalidCategory
	}
	if d.Date.IsZero() {
		return ErrInvalidDate
	}
	if d.Date.After(now) {
		return ErrFutureDate
	}
	if d.WaterConsumption != nil && *d.WaterConsumption < 0 {
		return ErrNegativeConsumption
	}
	return nil
}

// FinancialDocumentRepository manages expense document persistence.
type FinancialDocumentRepository interface {
	ListForBuilding(ctx context.Context, buildingID string) ([]FinancialDocument, error)
	Save(ctx context.Context, document *FinancialDocument) error
}
