package leasing

import (
	"context"
	"time"

	"rental-cloud/internal/money"
)

// Lease represents a signed rental agreement on a property.
type Lease struct {
	ID            string
	PropertyID    string
	TenantIDs     []string
	StartDate     time.Time
	EndDate       *time.Time
	RentAmount    money.Money
	ChargesAmount money.Money
	PaymentDueDay int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks lease invariants.
func (l Lease) Validate() error {
	if l.ID == "" {
		return ErrEmptyLeaseID
	}
	if l.PropertyID == "" {
		return ErrEmptyPropertyID
	}
	if len(l.TenantIDs) == 0 {
		return ErrNoTenants
	}
	if l.StartDate.IsZero() {
		return ErrInvalidStartDate
	}
	if l.EndDate != nil && !l.EndDate.After(l.StartDate) {
		return ErrEndBeforeStart
	}
	if l.PaymentDueDay < 1 || l.PaymentDueDay > 31 {
		return ErrInvalidDueDay
	}
	return nil
}

// MonthlyTotal returns rent plus charges under the base terms.
func (l Lease) MonthlyTotal() money.Money {
	return l.RentAmount.Add(l.ChargesAmount)
}

// LeaseRepository manages lease persistence.
type LeaseRepository interface {
	Get(ctx context.Context, id string) (*Lease, error)
	ListByProperty(ctx context.Context, propertyID string) ([]Lease, error)
	Save(ctx context.Context, lease *Lease) error
}
