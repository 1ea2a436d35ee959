package charges

import (
	"context"
	"time"
)

// WaterMeterReading is a cumulative meter reading for a property, in m3.
type WaterMeterReading struct {
	ID           string
	PropertyID   string
	ReadingDate  time.Time
	MeterReading float64
	DocumentPath string
	CreatedAt    time.Time
}

// Validate checks reading invariants against the given current time.
func (r WaterMeterReading) Validate(now time.Time) error {
	if r.PropertyID == "" {
		return ErrEmptyPropertyID
	}
	if r.ReadingDate.IsZero() {
		return ErrInvalidDate
	}
	if r.ReadingDate.After(now) {
		return ErrFutureDate
	}
	if r.MeterReading < 0 {
		return ErrNegativeReading
	}
	return nil
}

// WaterReadingRepository manages meter reading persistence.
type WaterReadingRepository interface {
	ListForProperty(ctx context.Context, propertyID string) ([]WaterMeterReading, error)
	Save(ctx context.Context, reading *WaterMeterReading) error
}
