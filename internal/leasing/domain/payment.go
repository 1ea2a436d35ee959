package leasing

import (
	"context"
	"time"

	"rental-cloud/internal/money"
)

// Payment is a recorded tenant payment against a lease.
// Storage order is irrelevant; the ledger groups payments by calendar month.
type Payment struct {
	ID          string
	LeaseID     string
	Amount      money.Money
	PaymentDate time.Time
	Notes       string
	CreatedAt   time.Time
}

// Validate checks payment invariants.
func (p Payment) Validate() error {
	if p.ID == "" {
		return ErrEmptyPaymentID
	}
	if p.LeaseID == "" {
		return ErrEmptyLeaseID
	}
	if p.PaymentDate.IsZero() {
		return ErrInvalidPaymentDate
	}
	return nil
}

// PaymentRepository manages payment persistence.
type PaymentRepository interface {
	ListForLease(ctx context.Context, leaseID string, from, to time.Time) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
}
