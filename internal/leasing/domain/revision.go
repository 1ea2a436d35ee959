package leasing

import (
	"context"
	"time"

	"rental-cloud/internal/money"
)

// RentRevision is a dated change to a lease's rent and charges,
// effective from its date onward until superseded. Immutable once created.
type RentRevision struct {
	ID            string
	LeaseID       string
	EffectiveDate time.Time
	RentAmount    money.Money
	ChargesAmount money.Money
	Reason        string
	CreatedAt     time.Time
}

// Validate checks revision invariants.
func (r RentRevision) Validate() error {
	if r.ID == "" {
		return ErrEmptyRevisionID
	}
	if r.LeaseID == "" {
		return ErrEmptyLeaseID
	}
	if r.EffectiveDate.IsZero() {
		return ErrInvalidEffectiveDate
	}
	return nil
}

// Total returns rent plus charges under the revised terms.
func (r RentRevision) Total() money.Money {
	return r.RentAmount.Add(r.ChargesAmount)
}

// RentRevisionRepository manages the append-only revision history.
type RentRevisionRepository interface {
	ListForLease(ctx context.Context, leaseID string) ([]RentRevision, error)
	Append(ctx context.Context, revision *RentRevision) error
}
