package application

import (
	"context"
	"errors"
	"time"

	leasing "rental-cloud/internal/leasing/domain"
	"rental-cloud/internal/observability/metrics"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// LedgerService reconciles leases month by month. All fetching happens up
// front; the calculation itself is pure.
type LedgerService struct {
	leases     leasing.LeaseRepository
	revisions  leasing.RentRevisionRepository
	payments   leasing.PaymentRepository
	calculator *leasing.LedgerCalculator
	clock      Clock
}

// NewLedgerService constructs the service.
func NewLedgerService(
	leases leasing.LeaseRepository,
	revisions leasing.RentRevisionRepository,
	payments leasing.PaymentRepository,
	calculator *leasing.LedgerCalculator,
	clock Clock,
) (*LedgerService, error) {
	if leases == nil {
		return nil, errors.New("ledger service: nil lease repository")
	}
	if revisions == nil {
		return nil, errors.New("ledger service: nil revision repository")
	}
	if payments == nil {
		return nil, errors.New("ledger service: nil payment repository")
	}
	if calculator == nil {
		return nil, errors.New("ledger service: nil calculator")
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &LedgerService{
		leases:     leases,
		revisions:  revisions,
		payments:   payments,
		calculator: calculator,
		clock:      clock,
	}, nil
}

// BuildLedger loads a lease's history and reconciles it through the
// reference date. A zero reference date means now.
func (s *LedgerService) BuildLedger(ctx context.Context, leaseID string, referenceDate time.Time, order leasing.RowOrder) (*leasing.Lease, []leasing.MonthlyLedgerRow, error) {
	return s.BuildLedgerWindow(ctx, leaseID, referenceDate, order, 0)
}

// BuildLedgerWindow is BuildLedger with a per-call trailing window.
// A windowMonths of zero keeps the configured default; negative values
// are rejected.
func (s *LedgerService) BuildLedgerWindow(ctx context.Context, leaseID string, referenceDate time.Time, order leasing.RowOrder, windowMonths int) (*leasing.Lease, []leasing.MonthlyLedgerRow, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveLedgerBuild(result, time.Since(start))
	}()

	if leaseID == "" {
		result = metrics.ResultError
		return nil, nil, leasing.ErrEmptyLeaseID
	}
	if referenceDate.IsZero() {
		referenceDate = s.clock.Now()
	}
	if order == "" {
		order = leasing.OrderOldestFirst
	}

	lease, err := s.leases.Get(ctx, leaseID)
	if err != nil {
		result = metrics.ResultError
		return nil, nil, err
	}
	if lease == nil {
		result = metrics.ResultError
		return nil, nil, leasing.ErrLeaseNotFound
	}

	revisions, err := s.revisions.ListForLease(ctx, leaseID)
	if err != nil {
		result = metrics.ResultError
		return nil, nil, err
	}
	payments, err := s.payments.ListForLease(ctx, leaseID, lease.StartDate, referenceDate)
	if err != nil {
		result = metrics.ResultError
		return nil, nil, err
	}

	calculator := s.calculator
	if windowMonths != 0 {
		calculator, err = s.calculator.WithWindow(windowMonths)
		if err != nil {
			result = metrics.ResultError
			return nil, nil, err
		}
	}

	rows := calculator.Build(*lease, revisions, payments, referenceDate, order)
	return lease, rows, nil
}
