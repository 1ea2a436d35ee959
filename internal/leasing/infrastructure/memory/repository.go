package memory

import (
	"context"
	"sync"
	"time"

	leasing "rental-cloud/internal/leasing/domain"
)

// LeaseRepository is an in-memory lease store.
type LeaseRepository struct {
	mu   sync.RWMutex
	data map[string]*leasing.Lease
}

// NewLeaseRepository constructs a repository.
func NewLeaseRepository() *LeaseRepository {
	return &LeaseRepository{data: make(map[string]*leasing.Lease)}
}

// Get loads a lease by id, nil when absent.
func (r *LeaseRepository) Get(ctx context.Context, id string) (*leasing.Lease, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	lease, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	clone := *lease
	return &clone, nil
}

// ListByProperty returns all leases on a property.
func (r *LeaseRepository) ListByProperty(ctx context.Context, propertyID string) ([]leasing.Lease, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []leasing.Lease
	for _, lease := range r.data {
		if lease.PropertyID == propertyID {
			result = append(result, *lease)
		}
	}
	return result, nil
}

// Save stores a lease (overwrites existing).
func (r *LeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	_ = ctx
	if lease == nil || lease.ID == "" {
		return leasing.ErrEmptyLeaseID
	}
	clone := *lease
	r.mu.Lock()
	r.data[lease.ID] = &clone
	r.mu.Unlock()
	return nil
}

// RentRevisionRepository is an in-memory append-only revision store.
type RentRevisionRepository struct {
	mu   sync.RWMutex
	data map[string][]leasing.RentRevision
}

// NewRentRevisionRepository constructs a repository.
func NewRentRevisionRepository() *RentRevisionRepository {
	return &RentRevisionRepository{data: make(map[string][]leasing.RentRevision)}
}

// ListForLease returns a lease's revisions ascending by effective date.
func (r *RentRevisionRepository) ListForLease(ctx context.Context, leaseID string) ([]leasing.RentRevision, error) {
	_ = ctx
	r.mu.RLock()
	revisions := r.data[leaseID]
	r.mu.RUnlock()
	return leasing.SortRevisions(revisions), nil
}

// Append adds a revision to a lease's history.
func (r *RentRevisionRepository) Append(ctx context.Context, revision *leasing.RentRevision) error {
	_ = ctx
	if revision == nil {
		return leasing.ErrEmptyRevisionID
	}
	if err := revision.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data[revision.LeaseID] = append(r.data[revision.LeaseID], *revision)
	r.mu.Unlock()
	return nil
}

// PaymentRepository is an in-memory payment store.
type PaymentRepository struct {
	mu   sync.RWMutex
	data map[string][]leasing.Payment
}

// NewPaymentRepository constructs a repository.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{data: make(map[string][]leasing.Payment)}
}

// ListForLease returns a lease's payments inside [from, to].
func (r *PaymentRepository) ListForLease(ctx context.Context, leaseID string, from, to time.Time) ([]leasing.Payment, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []leasing.Payment
	for _, p := range r.data[leaseID] {
		if !from.IsZero() && p.PaymentDate.Before(from) {
			continue
		}
		if !to.IsZero() && p.PaymentDate.After(to) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// Save stores a payment.
func (r *PaymentRepository) Save(ctx context.Context, payment *leasing.Payment) error {
	_ = ctx
	if payment == nil {
		return leasing.ErrEmptyPaymentID
	}
	if err := payment.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data[payment.LeaseID] = append(r.data[payment.LeaseID], *payment)
	r.mu.Unlock()
	return nil
}
