package application

import (
	"context"
	"errors"
	"testing"
	"time"

	charges "rental-cloud/internal/charges/domain"
	chargesmemory "rental-cloud/internal/charges/infrastructure/memory"
	leasing "rental-cloud/internal/leasing/domain"
	leasingmemory "rental-cloud/internal/leasing/infrastructure/memory"
	masterdata "rental-cloud/internal/masterdata/domain"
	masterdatamemory "rental-cloud/internal/masterdata/infrastructure/memory"
	"rental-cloud/internal/money"

	"github.com/shopspring/decimal"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type settlementFixture struct {
	service    *SettlementService
	inputs     *ChargeService
	properties masterdata.PropertyRepository
	leases     leasing.LeaseRepository
	revisions  leasing.RentRevisionRepository
	now        time.Time
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	now := time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}

	properties := masterdatamemory.NewPropertyRepository()
	leases := leasingmemory.NewLeaseRepository()
	revisions := leasingmemory.NewRentRevisionRepository()
	documents := chargesmemory.NewFinancialDocumentRepository()
	shares := chargesmemory.NewChargeShareRepository()
	readings := chargesmemory.NewWaterReadingRepository()

	service, err := NewSettlementService(properties, leases, revisions, documents, shares, readings, clock)
	if err != nil {
		t.Fatalf("settlement service: %v", err)
	}
	inputs, err := NewChargeService(documents, shares, readings, clock)
	if err != nil {
		t.Fatalf("charge service: %v", err)
	}
	return &settlementFixture{
		service:    service,
		inputs:     inputs,
		properties: properties,
		leases:     leases,
		revisions:  revisions,
		now:        now,
	}
}

func (f *settlementFixture) seedProperty(t *testing.T, ctx context.Context) *masterdata.Property {
	t.Helper()
	property := &masterdata.Property{
		ID:         "prop-1",
		BuildingID: "bld-1",
		Label:      "Apt 2B",
		FloorArea:  62.5,
		CreatedAt:  f.now,
		UpdatedAt:  f.now,
	}
	if err := f.properties.Save(ctx, property); err != nil {
		t.Fatalf("save property: %v", err)
	}
	return property
}

func TestSettle_PropertyNotFound(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.service.Settle(context.Background(), "missing", nil, time.Time{})
	if !errors.Is(err, charges.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestSettle_ExplicitProvisional(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	f.seedProperty(t, ctx)

	_, err := f.inputs.RegisterDocument(ctx, RegisterDocumentInput{
		BuildingID:        "bld-1",
		Category:          charges.CategoryHeating,
		Date:              time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Amount:            money.MustFromFloat(1200),
		IncludedInCharges: true,
	})
	if err != nil {
		t.Fatalf("register document: %v", err)
	}
	_, err = f.inputs.UpsertShare(ctx, "prop-1", charges.CategoryHeating, decimal.NewFromInt(25))
	if err != nil {
		t.Fatalf("upsert share: %v", err)
	}

	provisional := money.MustFromFloat(340)
	result, err := f.service.Settle(ctx, "prop-1", &provisional, f.now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !result.TotalChargesActual.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("actual charges: %s", result.TotalChargesActual)
	}
	if !result.Balance.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("balance: %s", result.Balance)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestSettle_DerivedProvisionalFromLease(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	f.seedProperty(t, ctx)

	lease := &leasing.Lease{
		ID:            "lease-1",
		PropertyID:    "prop-1",
		TenantIDs:     []string{"tenant-1"},
		StartDate:     time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    money.MustFromFloat(900),
		ChargesAmount: money.MustFromFloat(100),
		PaymentDueDay: 1,
		CreatedAt:     f.now,
		UpdatedAt:     f.now,
	}
	if err := f.leases.Save(ctx, lease); err != nil {
		t.Fatalf("save lease: %v", err)
	}

	_, err := f.inputs.RegisterDocument(ctx, RegisterDocumentInput{
		BuildingID:        "bld-1",
		Category:          charges.CategoryHeating,
		Date:              time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Amount:            money.MustFromFloat(4000),
		IncludedInCharges: true,
	})
	if err != nil {
		t.Fatalf("register document: %v", err)
	}
	_, err = f.inputs.UpsertShare(ctx, "prop-1", charges.CategoryHeating, decimal.NewFromInt(25))
	if err != nil {
		t.Fatalf("upsert share: %v", err)
	}

	result, err := f.service.Settle(ctx, "prop-1", nil, f.now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	// 12 months at 100 of provisional charges against a 1000 actual share.
	if !result.ProvisionalPaid.Decimal().Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("derived provisional: %s", result.ProvisionalPaid)
	}
	if !result.Balance.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("balance: %s", result.Balance)
	}
}

func TestSettle_DerivedProvisionalHonorsRevisions(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	f.seedProperty(t, ctx)

	lease := &leasing.Lease{
		ID:            "lease-1",
		PropertyID:    "prop-1",
		TenantIDs:     []string{"tenant-1"},
		StartDate:     time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    money.MustFromFloat(900),
		ChargesAmount: money.MustFromFloat(100),
		PaymentDueDay: 1,
		CreatedAt:     f.now,
		UpdatedAt:     f.now,
	}
	if err := f.leases.Save(ctx, lease); err != nil {
		t.Fatalf("save lease: %v", err)
	}
	// Charges rise to 150 for the last six settlement months.
	err := f.revisions.Append(ctx, &leasing.RentRevision{
		ID:            "rev-1",
		LeaseID:       "lease-1",
		EffectiveDate: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    money.MustFromFloat(900),
		ChargesAmount: money.MustFromFloat(150),
		CreatedAt:     f.now,
	})
	if err != nil {
		t.Fatalf("append revision: %v", err)
	}

	result, err := f.service.Settle(ctx, "prop-1", nil, f.now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	// Jan-Jun 2024 at 100 plus Jul-Dec at 150.
	if !result.ProvisionalPaid.Decimal().Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("derived provisional: %s", result.ProvisionalPaid)
	}
}

func TestSettle_NoLeaseWarning(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	f.seedProperty(t, ctx)

	result, err := f.service.Settle(ctx, "prop-1", nil, f.now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !result.ProvisionalPaid.IsZero() {
		t.Fatalf("expected zero provisional, got %s", result.ProvisionalPaid)
	}
	found := false
	for _, warning := range result.Warnings {
		if warning == "no lease found for property, provisional charges assumed zero" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected no-lease warning, got %v", result.Warnings)
	}
}

func TestRegisterDocument_Validation(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.inputs.RegisterDocument(context.Background(), RegisterDocumentInput{
		BuildingID: "bld-1",
		Category:   "PETS",
		Date:       time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Amount:     money.MustFromFloat(100),
	})
	if !errors.Is(err, charges.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestRecordReading_FutureDate(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.inputs.RecordReading(context.Background(), "prop-1", f.now.AddDate(0, 1, 0), 120, "")
	if !errors.Is(err, charges.ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
}
