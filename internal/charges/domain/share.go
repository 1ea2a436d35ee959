package charges

import (
	"context"

	"github.com/shopspring/decimal"
)

// PropertyChargeShare is a property's configured percentage responsibility
// for one category of building-wide expense. One row per (property,
// category), upsertable.
type PropertyChargeShare struct {
	ID         string
	PropertyID string
	Category   Category
	Percentage decimal.Decimal
}

// Validate checks share invariants.
func (s PropertyChargeShare) Validate() error {
	if s.PropertyID == "" {
		return ErrEmptyPropertyID
	}
	if !s.Category.IsValid() {
		return ErrInvalidCategory
	}
	if s.Percentage.IsNegative() || s.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidPercentage
	}
	return nil
}

// ChargeShareRepository manages charge share persistence.
type ChargeShareRepository interface {
	ListForProperty(ctx context.Context, propertyID string) ([]PropertyChargeShare, error)
	Upsert(ctx context.Context, share *PropertyChargeShare) error
}
