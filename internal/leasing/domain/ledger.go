package leasing

import (
	"time"

	"github.com/shopspring/decimal"

	"rental-cloud/internal/money"
)

// ReceiptType classifies a month's payment outcome.
type ReceiptType string

const (
	ReceiptUnpaid      ReceiptType = "unpaid"
	ReceiptPartial     ReceiptType = "partial"
	ReceiptFull        ReceiptType = "full"
	ReceiptOverpayment ReceiptType = "overpayment"
)

// RowOrder selects how ledger rows are returned.
type RowOrder string

const (
	OrderOldestFirst RowOrder = "oldest_first"
	OrderNewestFirst RowOrder = "newest_first"
)

// DefaultWindowMonths is the trailing window kept in a ledger.
const DefaultWindowMonths = 24

// DefaultEpsilon is the classification tolerance in currency units.
// Deployments with other rounding conventions override it via config.
var DefaultEpsilon = decimal.RequireFromString("0.01")

// MonthlyLedgerRow is one reconciled calendar month of a lease.
// Balances are signed: negative means the tenant owes, positive is credit.
type MonthlyLedgerRow struct {
	Month         time.Time
	MonthlyRent   money.Money
	Payments      []Payment
	TotalPaid     money.Money
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	ReceiptType   ReceiptType
}

// LedgerCalculator builds month-by-month rent ledgers with a running
// credit/debit balance and tolerance-sensitive receipt classification.
type LedgerCalculator struct {
	epsilon      decimal.Decimal
	windowMonths int
}

// NewLedgerCalculator constructs a calculator.
func NewLedgerCalculator(epsilon decimal.Decimal, windowMonths int) (*LedgerCalculator, error) {
	if epsilon.IsNegative() {
		return nil, ErrInvalidEpsilon
	}
	if windowMonths <= 0 {
		return nil, ErrInvalidWindow
	}
	return &LedgerCalculator{epsilon: epsilon, windowMonths: windowMonths}, nil
}

// WithWindow derives a calculator with the same tolerance and a
// different trailing window.
func (c *LedgerCalculator) WithWindow(windowMonths int) (*LedgerCalculator, error) {
	return NewLedgerCalculator(c.epsilon, windowMonths)
}

// Build reconciles a lease month by month from its start date through the
// reference date, keeping the trailing window. It is a pure aggregation
// over the supplied snapshot and never fails on in-range inputs.
func (c *LedgerCalculator) Build(lease Lease, revisions []RentRevision, payments []Payment, referenceDate time.Time, order RowOrder) []MonthlyLedgerRow {
	if lease.StartDate.IsZero() || referenceDate.IsZero() {
		return nil
	}
	start := MonthOf(lease.StartDate)
	end := MonthOf(referenceDate)
	if start.After(end) {
		return nil
	}

	var months []time.Time
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	if len(months) > c.windowMonths {
		// The balance walk below still starts at the lease start so the
		// carried balance entering the window is correct.
		months = months[len(months)-c.windowMonths:]
	}

	byMonth := make(map[time.Time][]Payment)
	for _, p := range payments {
		key := MonthOf(p.PaymentDate)
		byMonth[key] = append(byMonth[key], p)
	}

	running := decimal.Zero
	var rows []MonthlyLedgerRow
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		terms := ApplicableRent(lease, revisions, m)
		monthlyRent := terms.Total()

		monthPayments := byMonth[m]
		totalPaid := money.Zero()
		for _, p := range monthPayments {
			totalPaid = totalPaid.Add(p.Amount)
		}

		balanceBefore := running
		running = balanceBefore.Add(totalPaid.Decimal()).Sub(monthlyRent.Decimal())

		if m.Before(months[0]) {
			continue
		}
		rows = append(rows, MonthlyLedgerRow{
			Month:         m,
			MonthlyRent:   monthlyRent,
			Payments:      monthPayments,
			TotalPaid:     totalPaid,
			BalanceBefore: balanceBefore,
			BalanceAfter:  running,
			ReceiptType:   c.classify(balanceBefore, totalPaid, running),
		})
	}

	if order == OrderNewestFirst {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows
}

// classify applies the receipt rule table with the configured tolerance.
func (c *LedgerCalculator) classify(balanceBefore decimal.Decimal, totalPaid money.Money, balanceAfter decimal.Decimal) ReceiptType {
	negEps := c.epsilon.Neg()

	if totalPaid.IsZero() {
		if balanceBefore.IsPositive() {
			if balanceAfter.Cmp(negEps) >= 0 {
				return ReceiptFull
			}
			return ReceiptPartial
		}
		return ReceiptUnpaid
	}

	if balanceAfter.Cmp(c.epsilon) > 0 {
		return ReceiptOverpayment
	}
	if balanceAfter.Cmp(negEps) >= 0 {
		return ReceiptFull
	}
	return ReceiptPartial
}
