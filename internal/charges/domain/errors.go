package charges

import "errors"

var (
	// ErrEmptyDocumentID is returned when a document id is empty.
	ErrEmptyDocumentID = errors.New("charges: empty document id")
	// ErrEmptyBuildingID is returned when a building id is empty.
	ErrEmptyBuildingID = errors.New("charges: empty building id")
	// ErrEmptyPropertyID is returned when a property id is empty.
	ErrEmptyPropertyID = errors.New("charges: empty property id")
	// ErrInvalidCategory is returned for an unknown expense category.
	ErrInvalidCategory = errors.New("charges: invalid category")
	// ErrFutureDate is returned when a document or reading is dated in the future.
	ErrFutureDate = errors.New("charges: date must not be in the future")
	// ErrNegativeConsumption is returned for a negative water consumption value.
	ErrNegativeConsumption = errors.New("charges: negative water consumption")
	// ErrNegativeReading is returned for a negative meter reading.
	ErrNegativeReading = errors.New("charges: negative meter reading")
	// ErrInvalidPercentage is returned when a charge share is outside 0-100.
	ErrInvalidPercentage = errors.New("charges: percentage must be between 0 and 100")
	// ErrInvalidDate is returned when a required date is zero.
	ErrInvalidDate = errors.New("charges: invalid date")
	// ErrSameDayReadings is returned when extrapolation is attempted over
	// two readings taken on the same date.
	ErrSameDayReadings = errors.New("charges: readings on the same date, consumption rate undefined")
	// ErrPropertyNotFound is returned when a property does not exist.
	ErrPropertyNotFound = errors.New("charges: property not found")
)
