package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	leasing "rental-cloud/internal/leasing/domain"
	"rental-cloud/internal/money"
)

// LeaseRepository persists leases.
type LeaseRepository struct {
	db *sql.DB
}

// NewLeaseRepository constructs a repository.
func NewLeaseRepository(db *sql.DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

// Get loads a lease by id, nil when absent.
func (r *LeaseRepository) Get(ctx context.Context, id string) (*leasing.Lease, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("lease repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, property_id, tenant_ids, start_date, end_date,
	rent_amount, charges_amount, payment_due_day, created_at, updated_at
FROM leases
WHERE id = $1`, id)
	return scanLease(row)
}

// ListByProperty returns all leases on a property.
func (r *LeaseRepository) ListByProperty(ctx context.Context, propertyID string) ([]leasing.Lease, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("lease repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, property_id, tenant_ids, start_date, end_date,
	rent_amount, charges_amount, payment_due_day, created_at, updated_at
FROM leases
WHERE property_id = $1
ORDER BY start_date ASC`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []leasing.Lease
	for rows.Next() {
		lease, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		leases = append(leases, *lease)
	}
	return leases, rows.Err()
}

// Save upserts a lease.
func (r *LeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	if r == nil || r.db == nil {
		return errors.New("lease repo: nil db")
	}
	if lease == nil {
		return leasing.ErrEmptyLeaseID
	}
	var endDate sql.NullTime
	if lease.EndDate != nil {
		endDate = sql.NullTime{Time: *lease.EndDate, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO leases (
	id, property_id, tenant_ids, start_date, end_date,
	rent_amount, charges_amount, payment_due_day, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
	tenant_ids = EXCLUDED.tenant_ids,
	end_date = EXCLUDED.end_date,
	rent_amount = EXCLUDED.rent_amount,
	charges_amount = EXCLUDED.charges_amount,
	payment_due_day = EXCLUDED.payment_due_day,
	updated_at = EXCLUDED.updated_at`,
		lease.ID, lease.PropertyID, strings.Join(lease.TenantIDs, ","),
		lease.StartDate, endDate,
		lease.RentAmount.Decimal(), lease.ChargesAmount.Decimal(),
		lease.PaymentDueDay, lease.CreatedAt, lease.UpdatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLease(row rowScanner) (*leasing.Lease, error) {
	var (
		lease     leasing.Lease
		tenantIDs string
		endDate   sql.NullTime
		rent      decimal.Decimal
		charges   decimal.Decimal
	)
	err := row.Scan(&lease.ID, &lease.PropertyID, &tenantIDs, &lease.StartDate, &endDate,
		&rent, &charges, &lease.PaymentDueDay, &lease.CreatedAt, &lease.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if tenantIDs != "" {
		lease.TenantIDs = strings.Split(tenantIDs, ",")
	}
	if endDate.Valid {
		t := endDate.Time
		lease.EndDate = &t
	}
	if lease.RentAmount, err = money.New(rent); err != nil {
		return nil, err
	}
	if lease.ChargesAmount, err = money.New(charges); err != nil {
		return nil, err
	}
	return &lease, nil
}

// RentRevisionRepository persists the append-only revision history.
type RentRevisionRepository struct {
	db *sql.DB
}

// NewRentRevisionRepository constructs a repository.
func NewRentRevisionRepository(db *sql.DB) *RentRevisionRepository {
	return &RentRevisionRepository{db: db}
}

// ListForLease returns a lease's revisions ascending by effective date.
func (r *RentRevisionRepository) ListForLease(ctx context.Context, leaseID string) ([]leasing.RentRevision, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("revision repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, lease_id, effective_date, rent_amount, charges_amount, reason, created_at
FROM rent_revisions
WHERE lease_id = $1
ORDER BY effective_date ASC`, leaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revisions []leasing.RentRevision
	for rows.Next() {
		var (
			revision leasing.RentRevision
			rent     decimal.Decimal
			charges  decimal.Decimal
			reason   sql.NullString
		)
		if err := rows.Scan(&revision.ID, &revision.LeaseID, &revision.EffectiveDate,
			&rent, &charges, &reason, &revision.CreatedAt); err != nil {
			return nil, err
		}
		revision.Reason = reason.String
		if revision.RentAmount, err = money.New(rent); err != nil {
			return nil, err
		}
		if revision.ChargesAmount, err = money.New(charges); err != nil {
			return nil, err
		}
		revisions = append(revisions, revision)
	}
	return revisions, rows.Err()
}

// Append inserts a revision. Revisions are immutable; there is no update.
func (r *RentRevisionRepository) Append(ctx context.Context, revision *leasing.RentRevision) error {
	if r == nil || r.db == nil {
		return errors.New("revision repo: nil db")
	}
	if revision == nil {
		return leasing.ErrEmptyRevisionID
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO rent_revisions (id, lease_id, effective_date, rent_amount, charges_amount, reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		revision.ID, revision.LeaseID, revision.EffectiveDate,
		revision.RentAmount.Decimal(), revision.ChargesAmount.Decimal(),
		revision.Reason, revision.CreatedAt)
	return err
}

// PaymentRepository persists payments.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository constructs a repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListForLease returns a lease's payments inside [from, to].
func (r *PaymentRepository) ListForLease(ctx context.Context, leaseID string, from, to time.Time) ([]leasing.Payment, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("payment repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, lease_id, amount, payment_date, notes, created_at
FROM payments
WHERE lease_id = $1 AND payment_date >= $2 AND payment_date <= $3
ORDER BY payment_date ASC`, leaseID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []leasing.Payment
	for rows.Next() {
		var (
			payment leasing.Payment
			amount  decimal.Decimal
			notes   sql.NullString
		)
		if err := rows.Scan(&payment.ID, &payment.LeaseID, &amount,
			&payment.PaymentDate, &notes, &payment.CreatedAt); err != nil {
			return nil, err
		}
		payment.Notes = notes.String
		if payment.Amount, err = money.New(amount); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// Save inserts a payment.
func (r *PaymentRepository) Save(ctx context.Context, payment *leasing.Payment) error {
	if r == nil || r.db == nil {
		return errors.New("payment repo: nil db")
	}
	if payment == nil {
		return leasing.ErrEmptyPaymentID
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO payments (id, lease_id, amount, payment_date, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		payment.ID, payment.LeaseID, payment.Amount.Decimal(),
		payment.PaymentDate, payment.Notes, payment.CreatedAt)
	return err
}
