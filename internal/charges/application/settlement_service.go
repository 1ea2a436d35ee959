package application

import (
	"context"
	"errors"
	"time"

	charges "rental-cloud/internal/charges/domain"
	leasing "rental-cloud/internal/leasing/domain"
	masterdata "rental-cloud/internal/masterdata/domain"
	"rental-cloud/internal/money"
	"rental-cloud/internal/observability/metrics"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// SettlementService computes annual charge settlements for properties.
// It fetches immutable snapshots first and then runs the pure engine.
type SettlementService struct {
	properties masterdata.PropertyRepository
	leases     leasing.LeaseRepository
	revisions  leasing.RentRevisionRepository
	documents  charges.FinancialDocumentRepository
	shares     charges.ChargeShareRepository
	readings   charges.WaterReadingRepository
	clock      Clock
}

// NewSettlementService constructs the service.
func NewSettlementService(
	properties masterdata.PropertyRepository,
	leases leasing.LeaseRepository,
	revisions leasing.RentRevisionRepository,
	documents charges.FinancialDocumentRepository,
	shares charges.ChargeShareRepository,
	readings charges.WaterReadingRepository,
	clock Clock,
) (*SettlementService, error) {
	if properties == nil {
		return nil, errors.New("settlement service: nil property repository")
	}
	if leases == nil {
		return nil, errors.New("settlement service: nil lease repository")
	}
	if revisions == nil {
		return nil, errors.New("settlement service: nil revision repository")
	}
	if documents == nil {
		return nil, errors.New("settlement service: nil document repository")
	}
	if shares == nil {
		return nil, errors.New("settlement service: nil share repository")
	}
	if readings == nil {
		return nil, errors.New("settlement service: nil reading repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &SettlementService{
		properties: properties,
		leases:     leases,
		revisions:  revisions,
		documents:  documents,
		shares:     shares,
		readings:   readings,
		clock:      clock,
	}, nil
}

// Settle computes the annual settlement for a property. A nil provisional
// amount is derived from the charges the property's lease called for over
// the settlement year. A zero reference date means now.
func (s *SettlementService) Settle(ctx context.Context, propertyID string, provisionalPaid *money.Money, referenceDate time.Time) (charges.SettlementResult, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveSettlement(result, time.Since(start))
	}()

	if propertyID == "" {
		result = metrics.ResultError
		return charges.SettlementResult{}, charges.ErrEmptyPropertyID
	}
	if referenceDate.IsZero() {
		referenceDate = s.clock.Now()
	}

	property, err := s.properties.Get(ctx, propertyID)
	if err != nil {
		result = metrics.ResultError
		return charges.SettlementResult{}, err
	}
	if property == nil {
		result = metrics.ResultError
		return charges.SettlementResult{}, charges.ErrPropertyNotFound
	}

	documents, err := s.documents.ListForBuilding(ctx, property.BuildingID)
	if err != nil {
		result = metrics.ResultError
		return charges.SettlementResult{}, err
	}
	shares, err := s.shares.ListForProperty(ctx, propertyID)
	if err != nil {
		result = metrics.ResultError
		return charges.SettlementResult{}, err
	}
	readings, err := s.readings.ListForProperty(ctx, propertyID)
	if err != nil {
		result = metrics.ResultError
		return charges.SettlementResult{}, err
	}

	var derivedWarning string
	if provisionalPaid == nil {
		derived, warning, err := s.deriveProvisional(ctx, propertyID, referenceDate)
		if err != nil {
			result = metrics.ResultError
			return charges.SettlementResult{}, err
		}
		provisionalPaid = &derived
		derivedWarning = warning
	}

	settlement := charges.Settle(charges.SettlementInput{
		PropertyID:      propertyID,
		Documents:       documents,
		Shares:          shares,
		Readings:        readings,
		ProvisionalPaid: *provisionalPaid,
		ReferenceDate:   referenceDate,
	})
	if derivedWarning != "" {
		settlement.Warnings = append(settlement.Warnings, derivedWarning)
	}
	metrics.AddSettlementWarnings(len(settlement.Warnings))
	return settlement, nil
}

// deriveProvisional sums the monthly charge amounts the property's lease
// called for over the 12 settlement months, revisions included.
func (s *SettlementService) deriveProvisional(ctx context.Context, propertyID string, referenceDate time.Time) (money.Money, string, error) {
	leases, err := s.leases.ListByProperty(ctx, propertyID)
	if err != nil {
		return money.Zero(), "", err
	}

	lease := activeLeaseAt(leases, referenceDate)
	if lease == nil {
		return money.Zero(), "no lease found for property, provisional charges assumed zero", nil
	}

	revisions, err := s.revisions.ListForLease(ctx, lease.ID)
	if err != nil {
		return money.Zero(), "", err
	}

	startMonth := referenceDate.AddDate(0, -11, 0)
	total := money.Zero()
	for _, month := range leasing.RentForMonthRange(*lease, revisions, startMonth, referenceDate) {
		total = total.Add(month.Terms.ChargesAmount)
	}
	return total, "", nil
}

// activeLeaseAt picks the lease covering the date, falling back to the
// most recently started one.
func activeLeaseAt(leases []leasing.Lease, at time.Time) *leasing.Lease {
	var latest *leasing.Lease
	for i := range leases {
		l := &leases[i]
		if l.StartDate.After(at) {
			continue
		}
		if l.EndDate == nil || !l.EndDate.Before(at) {
			return l
		}
		if latest == nil || l.StartDate.After(latest.StartDate) {
			latest = l
		}
	}
	return latest
}
