package leasing

import (
	"sort"
	"time"

	"rental-cloud/internal/money"
)

// RentTerms is the rent applicable to a lease at a point in time.
type RentTerms struct {
	RentAmount    money.Money
	ChargesAmount money.Money
	// RevisionID identifies the revision the terms come from,
	// empty when the lease base terms apply.
	RevisionID string
}

// Total returns rent plus charges.
func (t RentTerms) Total() money.Money {
	return t.RentAmount.Add(t.ChargesAmount)
}

// RentForMonth is the rent applicable for one calendar month.
type RentForMonth struct {
	Month time.Time
	Terms RentTerms
}

// DayOf truncates a timestamp to day granularity in UTC.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthOf truncates a timestamp to the first of its month in UTC.
func MonthOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ApplicableRent resolves the rent terms in force at a date.
// The latest revision whose effective date is on or before the target
// date wins, compared at day granularity. With no qualifying revision
// the lease base amounts apply. The whole history is scanned, so the
// input does not need to be sorted.
func ApplicableRent(lease Lease, revisions []RentRevision, at time.Time) RentTerms {
	day := DayOf(at)

	var best *RentRevision
	var bestDay time.Time
	for i := range revisions {
		effective := DayOf(revisions[i].EffectiveDate)
		if effective.After(day) {
			continue
		}
		if best == nil || !effective.Before(bestDay) {
			best = &revisions[i]
			bestDay = effective
		}
	}

	if best == nil {
		return RentTerms{RentAmount: lease.RentAmount, ChargesAmount: lease.ChargesAmount}
	}
	return RentTerms{
		RentAmount:    best.RentAmount,
		ChargesAmount: best.ChargesAmount,
		RevisionID:    best.ID,
	}
}

// RentForMonthRange resolves the rent applicable to every calendar month
// between startMonth and endMonth inclusive. A revision is effective for
// a month when its effective date is on or before the first of that month.
func RentForMonthRange(lease Lease, revisions []RentRevision, startMonth, endMonth time.Time) []RentForMonth {
	start := MonthOf(startMonth)
	end := MonthOf(endMonth)
	if start.After(end) {
		return nil
	}

	var result []RentForMonth
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		result = append(result, RentForMonth{
			Month: m,
			Terms: ApplicableRent(lease, revisions, m),
		})
	}
	return result
}

// SortRevisions orders a revision history ascending by effective date,
// without mutating the input.
func SortRevisions(revisions []RentRevision) []RentRevision {
	sorted := make([]RentRevision, len(revisions))
	copy(sorted, revisions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
	})
	return sorted
}
