package charges

import (
	"math"
	"sort"
	"time"
)

// ConsumptionMethod describes how an annual consumption was derived.
type ConsumptionMethod string

const (
	// MethodActual means a reading pair at least a full year apart was found.
	MethodActual ConsumptionMethod = "ACTUAL"
	// MethodExtrapolated means a shorter interval was scaled to 365 days.
	MethodExtrapolated ConsumptionMethod = "EXTRAPOLATED"
)

// AnnualConsumption is a property's estimated water consumption over a year.
type AnnualConsumption struct {
	Consumption float64
	Method      ConsumptionMethod
	PeriodStart time.Time
	PeriodEnd   time.Time
	DaysBetween int
}

// AnnualWaterConsumption estimates a property's annualized water
// consumption from its cumulative meter readings.
//
// A reading pair at least 365 days apart yields the actual consumption,
// preferring consecutive readings in descending date order. Without such a
// pair the two most recent readings are extrapolated to a 365-day
// equivalent. Fewer than two readings yield a nil result; two readings on
// the same date are an error because the rate is undefined.
func AnnualWaterConsumption(readings []WaterMeterReading) (*AnnualConsumption, error) {
	if len(readings) < 2 {
		return nil, nil
	}

	sorted := make([]WaterMeterReading, len(readings))
	copy(sorted, readings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ReadingDate.After(sorted[j].ReadingDate)
	})

	if newer, older, ok := findYearPair(sorted); ok {
		days := daysBetween(older.ReadingDate, newer.ReadingDate)
		return &AnnualConsumption{
			Consumption: newer.MeterReading - older.MeterReading,
			Method:      MethodActual,
			PeriodStart: older.ReadingDate,
			PeriodEnd:   newer.ReadingDate,
			DaysBetween: days,
		}, nil
	}

	newer, older := sorted[0], sorted[1]
	days := daysBetween(older.ReadingDate, newer.ReadingDate)
	if days == 0 {
		return nil, ErrSameDayReadings
	}
	consumption := newer.MeterReading - older.MeterReading
	return &AnnualConsumption{
		Consumption: round2(consumption / float64(days) * 365),
		Method:      MethodExtrapolated,
		PeriodStart: older.ReadingDate,
		PeriodEnd:   newer.ReadingDate,
		DaysBetween: days,
	}, nil
}

// findYearPair searches for a reading pair at least 365 days apart in a
// descending-sorted history: consecutive pairs first, then all pairs in
// the same nested scan order.
func findYearPair(sorted []WaterMeterReading) (newer, older WaterMeterReading, ok bool) {
	for i := 0; i < len(sorted)-1; i++ {
		if daysBetween(sorted[i+1].ReadingDate, sorted[i].ReadingDate) >= 365 {
			return sorted[i], sorted[i+1], true
		}
	}
	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			if daysBetween(sorted[j].ReadingDate, sorted[i].ReadingDate) >= 365 {
				return sorted[i], sorted[j], true
			}
		}
	}
	return WaterMeterReading{}, WaterMeterReading{}, false
}

// daysBetween returns the whole days from older to newer, truncated
// toward zero.
func daysBetween(older, newer time.Time) int {
	return int(newer.Sub(older) / (24 * time.Hour))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
