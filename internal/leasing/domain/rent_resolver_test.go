package leasing

import (
	"testing"
	"time"

	"rental-cloud/internal/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testLease() Lease {
	return Lease{
		ID:            "lease-1",
		PropertyID:    "prop-1",
		TenantIDs:     []string{"tenant-1"},
		StartDate:     day(2023, time.January, 1),
		RentAmount:    money.MustFromFloat(1000),
		ChargesAmount: money.MustFromFloat(100),
		PaymentDueDay: 5,
	}
}

func TestApplicableRentBaseTerms(t *testing.T) {
	lease := testLease()

	terms := ApplicableRent(lease, nil, day(2024, time.June, 15))
	if terms.RevisionID != "" {
		t.Fatalf("expected base terms, got revision %s", terms.RevisionID)
	}
	if terms.Total().Cmp(money.MustFromFloat(1100)) != 0 {
		t.Fatalf("unexpected total %s", terms.Total())
	}
}

func TestApplicableRentInclusiveBoundary(t *testing.T) {
	lease := testLease()
	revisions := []RentRevision{
		{
			ID:            "rev-1",
			LeaseID:       lease.ID,
			EffectiveDate: day(2024, time.March, 10),
			RentAmount:    money.MustFromFloat(1050),
			ChargesAmount: money.MustFromFloat(110),
		},
	}

	// Exactly on the effective date the revision applies.
	terms := ApplicableRent(lease, revisions, day(2024, time.March, 10))
	if terms.RevisionID != "rev-1" {
		t.Fatalf("revision on query date must apply, got %q", terms.RevisionID)
	}

	// The day before it does not.
	terms = ApplicableRent(lease, revisions, day(2024, time.March, 9))
	if terms.RevisionID != "" {
		t.Fatalf("expected base terms before effective date, got %q", terms.RevisionID)
	}
}

func TestApplicableRentLatestWins(t *testing.T) {
	lease := testLease()
	revisions := []RentRevision{
		{ID: "rev-2", LeaseID: lease.ID, EffectiveDate: day(2024, time.June, 1), RentAmount: money.MustFromFloat(1100), ChargesAmount: money.MustFromFloat(120)},
		{ID: "rev-1", LeaseID: lease.ID, EffectiveDate: day(2023, time.June, 1), RentAmount: money.MustFromFloat(1050), ChargesAmount: money.MustFromFloat(110)},
	}

	// Unsorted input: the later applicable revision still wins.
	terms := ApplicableRent(lease, revisions, day(2024, time.July, 1))
	if terms.RevisionID != "rev-2" {
		t.Fatalf("latest applicable revision must win, got %q", terms.RevisionID)
	}

	// A future revision never overrides an applicable earlier one.
	terms = ApplicableRent(lease, revisions, day(2024, time.January, 1))
	if terms.RevisionID != "rev-1" {
		t.Fatalf("expected rev-1, got %q", terms.RevisionID)
	}
}

func TestApplicableRentIgnoresTimeOfDay(t *testing.T) {
	lease := testLease()
	revisions := []RentRevision{
		{
			ID:            "rev-1",
			LeaseID:       lease.ID,
			EffectiveDate: time.Date(2024, time.March, 10, 23, 30, 0, 0, time.UTC),
			RentAmount:    money.MustFromFloat(1200),
			ChargesAmount: money.MustFromFloat(100),
		},
	}

	terms := ApplicableRent(lease, revisions, time.Date(2024, time.March, 10, 0, 15, 0, 0, time.UTC))
	if terms.RevisionID != "rev-1" {
		t.Fatal("comparison must be at day granularity")
	}
}

func TestRentForMonthRange(t *testing.T) {
	lease := testLease()
	revisions := []RentRevision{
		{ID: "rev-1", LeaseID: lease.ID, EffectiveDate: day(2024, time.February, 15), RentAmount: money.MustFromFloat(1200), ChargesAmount: money.MustFromFloat(150)},
	}

	rows := RentForMonthRange(lease, revisions, day(2024, time.January, 1), day(2024, time.April, 30))
	if len(rows) != 4 {
		t.Fatalf("expected 4 months, got %d", len(rows))
	}

	// Mid-February revision is not effective for February itself
	// (effective date is after the first of the month), only from March.
	if rows[1].Terms.RevisionID != "" {
		t.Fatalf("february must use base terms, got %q", rows[1].Terms.RevisionID)
	}
	if rows[2].Terms.RevisionID != "rev-1" {
		t.Fatalf("march must use the revision, got %q", rows[2].Terms.RevisionID)
	}
	if rows[3].Terms.Total().Cmp(money.MustFromFloat(1350)) != 0 {
		t.Fatalf("unexpected april total %s", rows[3].Terms.Total())
	}

	if RentForMonthRange(lease, revisions, day(2024, time.May, 1), day(2024, time.January, 1)) != nil {
		t.Fatal("inverted range must return nil")
	}
}

func TestSortRevisions(t *testing.T) {
	revisions := []RentRevision{
		{ID: "b", EffectiveDate: day(2024, time.March, 1)},
		{ID: "a", EffectiveDate: day(2023, time.March, 1)},
		{ID: "c", EffectiveDate: day(2025, time.March, 1)},
	}
	sorted := SortRevisions(revisions)
	if sorted[0].ID != "a" || sorted[1].ID != "b" || sorted[2].ID != "c" {
		t.Fatalf("unexpected order: %s %s %s", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	if revisions[0].ID != "b" {
		t.Fatal("input slice must not be mutated")
	}
}

func TestLeaseValidate(t *testing.T) {
	end := day(2022, time.December, 1)

	cases := []struct {
		name    string
		mutate  func(*Lease)
		wantErr error
	}{
		{"valid", func(l *Lease) {}, nil},
		{"empty id", func(l *Lease) { l.ID = "" }, ErrEmptyLeaseID},
		{"no tenants", func(l *Lease) { l.TenantIDs = nil }, ErrNoTenants},
		{"end before start", func(l *Lease) { l.EndDate = &end }, ErrEndBeforeStart},
		{"due day low", func(l *Lease) { l.PaymentDueDay = 0 }, ErrInvalidDueDay},
		{"due day high", func(l *Lease) { l.PaymentDueDay = 32 }, ErrInvalidDueDay},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lease := testLease()
			tc.mutate(&lease)
			if err := lease.Validate(); err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
