package integration_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	chargesapp "rental-cloud/internal/charges/application"
	charges "rental-cloud/internal/charges/domain"
	chargesrepo "rental-cloud/internal/charges/infrastructure/postgres"
	leasingapp "rental-cloud/internal/leasing/application"
	leasing "rental-cloud/internal/leasing/domain"
	leasingrepo "rental-cloud/internal/leasing/infrastructure/postgres"
	masterdata "rental-cloud/internal/masterdata/domain"
	masterdatarepo "rental-cloud/internal/masterdata/infrastructure/postgres"
	"rental-cloud/internal/money"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestReconciliationClosedLoop_Postgres(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	for _, table := range []string{
		"buildings", "properties", "tenants",
		"leases", "rent_revisions", "payments",
		"financial_documents", "property_charge_shares", "water_meter_readings",
	} {
		if !tableExists(db, table) {
			t.Skipf("missing table %s; run migrations", table)
		}
	}

	ctx := context.Background()
	buildingID := "bld-int-001"
	propertyID := "prop-int-001"
	tenantID := "ten-int-001"

	cleanup(ctx, db, buildingID, propertyID, tenantID)

	now := time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}

	buildingRepo := masterdatarepo.NewBuildingRepository(db)
	propertyRepo := masterdatarepo.NewPropertyRepository(db)
	tenantRepo := masterdatarepo.NewTenantRepository(db)

	building := &masterdata.Building{ID: buildingID, Name: "12 Rue des Lilas", Address: "12 Rue des Lilas, Lyon", CreatedAt: now, UpdatedAt: now}
	if err := buildingRepo.Save(ctx, building); err != nil {
		t.Fatalf("save building: %v", err)
	}
	tenant := &masterdata.Tenant{ID: tenantID, Name: "Claire Martin", Email: "claire@example.com", CreatedAt: now, UpdatedAt: now}
	if err := tenantRepo.Save(ctx, tenant); err != nil {
		t.Fatalf("save tenant: %v", err)
	}
	property := &masterdata.Property{ID: propertyID, BuildingID: buildingID, Label: "Apt 3B", FloorArea: 62.5, CreatedAt: now, UpdatedAt: now}
	if err := propertyRepo.Save(ctx, property); err != nil {
		t.Fatalf("save property: %v", err)
	}

	got, err := buildingRepo.Get(ctx, buildingID)
	if err != nil || got == nil {
		t.Fatalf("get building: %v, %v", got, err)
	}
	if got.Name != building.Name {
		t.Fatalf("building name = %q, want %q", got.Name, building.Name)
	}
	gotTenant, err := tenantRepo.Get(ctx, tenantID)
	if err != nil || gotTenant == nil {
		t.Fatalf("get tenant: %v, %v", gotTenant, err)
	}
	if gotTenant.Email != tenant.Email {
		t.Fatalf("tenant email = %q, want %q", gotTenant.Email, tenant.Email)
	}

	leaseRepo := leasingrepo.NewLeaseRepository(db)
	revisionRepo := leasingrepo.NewRentRevisionRepository(db)
	paymentRepo := leasingrepo.NewPaymentRepository(db)

	leaseService, err := leasingapp.NewLeaseService(leaseRepo, revisionRepo, paymentRepo, clock)
	if err != nil {
		t.Fatalf("new lease service: %v", err)
	}
	calculator, err := leasing.NewLedgerCalculator(leasing.DefaultEpsilon, leasing.DefaultWindowMonths)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	ledgerService, err := leasingapp.NewLedgerService(leaseRepo, revisionRepo, paymentRepo, calculator, clock)
	if err != nil {
		t.Fatalf("new ledger service: %v", err)
	}

	lease, err := leaseService.CreateLease(ctx, leasingapp.CreateLeaseInput{
		PropertyID:    propertyID,
		TenantIDs:     []string{tenantID},
		StartDate:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:    money.MustFromFloat(1000),
		ChargesAmount: money.MustFromFloat(100),
		PaymentDueDay: 5,
	})
	if err != nil {
		t.Fatalf("create lease: %v", err)
	}

	for month := time.January; month <= time.March; month++ {
		payDate := time.Date(2024, month, 5, 0, 0, 0, 0, time.UTC)
		if _, err := leaseService.RecordPayment(ctx, lease.ID, money.MustFromFloat(1100), payDate, "bank transfer"); err != nil {
			t.Fatalf("record payment %s: %v", month, err)
		}
	}
	if _, err := leaseService.ReviseRent(ctx, lease.ID, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), money.MustFromFloat(1200), money.MustFromFloat(150), "annual indexation"); err != nil {
		t.Fatalf("revise rent: %v", err)
	}

	_, rows, err := ledgerService.BuildLedger(ctx, lease.ID, time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), leasing.OrderOldestFirst)
	if err != nil {
		t.Fatalf("build ledger: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ledger rows = %d, want 3", len(rows))
	}
	for _, row := range rows {
		if row.ReceiptType != leasing.ReceiptFull {
			t.Fatalf("month %s receipt = %s, want full", row.Month.Format("2006-01"), row.ReceiptType)
		}
		if !row.BalanceAfter.IsZero() {
			t.Fatalf("month %s balance = %s, want 0", row.Month.Format("2006-01"), row.BalanceAfter)
		}
	}

	documentRepo := chargesrepo.NewFinancialDocumentRepository(db)
	shareRepo := chargesrepo.NewChargeShareRepository(db)
	readingRepo := chargesrepo.NewWaterReadingRepository(db)

	chargeService, err := chargesapp.NewChargeService(documentRepo, shareRepo, readingRepo, clock)
	if err != nil {
		t.Fatalf("new charge service: %v", err)
	}
	settlementService, err := chargesapp.NewSettlementService(propertyRepo, leaseRepo, revisionRepo, documentRepo, shareRepo, readingRepo, clock)
	if err != nil {
		t.Fatalf("new settlement service: %v", err)
	}

	if _, err := chargeService.RegisterDocument(ctx, chargesapp.RegisterDocumentInput{
		BuildingID:        buildingID,
		Category:          charges.CategoryHeating,
		Date:              time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Amount:            money.MustFromFloat(1200),
		Description:       "district heating annual invoice",
		IncludedInCharges: true,
	}); err != nil {
		t.Fatalf("register document: %v", err)
	}
	if _, err := chargeService.UpsertShare(ctx, propertyID, charges.CategoryHeating, decimal.RequireFromString("25")); err != nil {
		t.Fatalf("upsert share: %v", err)
	}
	if _, err := chargeService.RecordReading(ctx, propertyID, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), 100, ""); err != nil {
		t.Fatalf("record reading: %v", err)
	}
	if _, err := chargeService.RecordReading(ctx, propertyID, time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC), 150, ""); err != nil {
		t.Fatalf("record reading: %v", err)
	}

	provisional := money.MustFromFloat(340)
	explicit, err := settlementService.Settle(ctx, propertyID, &provisional, now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if got := explicit.TotalChargesActual.StringFixed(2); got != "300.00" {
		t.Fatalf("actual charges = %s, want 300.00", got)
	}
	if got := explicit.Balance.StringFixed(2); got != "40.00" {
		t.Fatalf("balance = %s, want 40.00", got)
	}

	// No explicit provisional: 6 months at 100 plus 6 at 150 after the
	// July revision.
	derived, err := settlementService.Settle(ctx, propertyID, nil, now)
	if err != nil {
		t.Fatalf("settle derived: %v", err)
	}
	if got := derived.ProvisionalPaid.Decimal().StringFixed(2); got != "1500.00" {
		t.Fatalf("derived provisional = %s, want 1500.00", got)
	}
	if got := derived.Balance.StringFixed(2); got != "1200.00" {
		t.Fatalf("derived balance = %s, want 1200.00", got)
	}

	cleanup(ctx, db, buildingID, propertyID, tenantID)
}

func cleanup(ctx context.Context, db *sql.DB, buildingID, propertyID, tenantID string) {
	_, _ = db.ExecContext(ctx, "DELETE FROM payments WHERE lease_id IN (SELECT id FROM leases WHERE property_id = $1)", propertyID)
	_, _ = db.ExecContext(ctx, "DELETE FROM rent_revisions WHERE lease_id IN (SELECT id FROM leases WHERE property_id = $1)", propertyID)
	_, _ = db.ExecContext(ctx, "DELETE FROM leases WHERE property_id = $1", propertyID)
	_, _ = db.ExecContext(ctx, "DELETE FROM financial_documents WHERE building_id = $1", buildingID)
	_, _ = db.ExecContext(ctx, "DELETE FROM property_charge_shares WHERE property_id = $1", propertyID)
	_, _ = db.ExecContext(ctx, "DELETE FROM water_meter_readings WHERE property_id = $1", propertyID)
	_, _ = db.ExecContext(ctx, "DELETE FROM properties WHERE id = $1", propertyID)
	_, _ = db.ExecContext(ctx, "DELETE FROM tenants WHERE id = $1", tenantID)
	_, _ = db.ExecContext(ctx, "DELETE FROM buildings WHERE id = $1", buildingID)
}

func tableExists(db *sql.DB, table string) bool {
	var exists bool
	err := db.QueryRow(`
SELECT EXISTS (
	SELECT 1
	FROM information_schema.tables
	WHERE table_schema = 'public' AND table_name = $1
)`, table).Scan(&exists)
	if err != nil {
		return false
	}
	return exists
}
