package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	leasing "rental-cloud/internal/leasing/domain"
	"rental-cloud/internal/money"
	"rental-cloud/internal/observability/metrics"
)

// LeaseService handles lease lifecycle workflows: signing, payment
// recording, and rent revisions.
type LeaseService struct {
	leases    leasing.LeaseRepository
	revisions leasing.RentRevisionRepository
	payments  leasing.PaymentRepository
	clock     Clock
}

// NewLeaseService constructs the service.
func NewLeaseService(
	leases leasing.LeaseRepository,
	revisions leasing.RentRevisionRepository,
	payments leasing.PaymentRepository,
	clock Clock,
) (*LeaseService, error) {
	if leases == nil {
		return nil, errors.New("lease service: nil lease repository")
	}
	if revisions == nil {
		return nil, errors.New("lease service: nil revision repository")
	}
	if payments == nil {
		return nil, errors.New("lease service: nil payment repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &LeaseService{leases: leases, revisions: revisions, payments: payments, clock: clock}, nil
}

// CreateLeaseInput carries the fields of a new lease.
type CreateLeaseInput struct {
	PropertyID    string
	TenantIDs     []string
	StartDate     time.Time
	EndDate       *time.Time
	RentAmount    money.Money
	ChargesAmount money.Money
	PaymentDueDay int
}

// CreateLease signs a new lease.
func (s *LeaseService) CreateLease(ctx context.Context, input CreateLeaseInput) (*leasing.Lease, error) {
	now := s.clock.Now()
	lease := &leasing.Lease{
		ID:            uuid.NewString(),
		PropertyID:    input.PropertyID,
		TenantIDs:     input.TenantIDs,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		RentAmount:    input.RentAmount,
		ChargesAmount: input.ChargesAmount,
		PaymentDueDay: input.PaymentDueDay,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := lease.Validate(); err != nil {
		return nil, err
	}
	if err := s.leases.Save(ctx, lease); err != nil {
		return nil, err
	}
	return lease, nil
}

// RecordPayment records a tenant payment against a lease.
func (s *LeaseService) RecordPayment(ctx context.Context, leaseID string, amount money.Money, paymentDate time.Time, notes string) (*leasing.Payment, error) {
	lease, err := s.requireLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	payment := &leasing.Payment{
		ID:          uuid.NewString(),
		LeaseID:     lease.ID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Notes:       notes,
		CreatedAt:   s.clock.Now(),
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, err
	}
	metrics.IncPaymentRecorded()
	return payment, nil
}

// ReviseRent appends a rent revision to a lease's history.
func (s *LeaseService) ReviseRent(ctx context.Context, leaseID string, effectiveDate time.Time, rent, charges money.Money, reason string) (*leasing.RentRevision, error) {
	lease, err := s.requireLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	revision := &leasing.RentRevision{
		ID:            uuid.NewString(),
		LeaseID:       lease.ID,
		EffectiveDate: effectiveDate,
		RentAmount:    rent,
		ChargesAmount: charges,
		Reason:        reason,
		CreatedAt:     s.clock.Now(),
	}
	if err := revision.Validate(); err != nil {
		return nil, err
	}
	if err := s.revisions.Append(ctx, revision); err != nil {
		return nil, err
	}
	metrics.IncRevisionRecorded()
	return revision, nil
}

func (s *LeaseService) requireLease(ctx context.Context, leaseID string) (*leasing.Lease, error) {
	if leaseID == "" {
		return nil, leasing.ErrEmptyLeaseID
	}
	lease, err := s.leases.Get(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, leasing.ErrLeaseNotFound
	}
	return lease, nil
}
