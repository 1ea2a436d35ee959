package leasing

import "errors"

var (
	// ErrEmptyLeaseID is returned when a lease id is empty.
	ErrEmptyLeaseID = errors.New("leasing: empty lease id")
	// ErrEmptyPropertyID is returned when a property id is empty.
	ErrEmptyPropertyID = errors.New("leasing: empty property id")
	// ErrNoTenants is returned when a lease has no tenants.
	ErrNoTenants = errors.New("leasing: lease requires at least one tenant")
	// ErrInvalidStartDate is returned when a start date is zero.
	ErrInvalidStartDate = errors.New("leasing: invalid start date")
	// ErrEndBeforeStart is returned when an end date does not follow the start date.
	ErrEndBeforeStart = errors.New("leasing: end date must be after start date")
	// ErrInvalidDueDay is returned when the payment due day is outside 1-31.
	ErrInvalidDueDay = errors.New("leasing: payment due day must be between 1 and 31")
	// ErrEmptyRevisionID is returned when a revision id is empty.
	ErrEmptyRevisionID = errors.New("leasing: empty revision id")
	// ErrEmptyPaymentID is returned when a payment id is empty.
	ErrEmptyPaymentID = errors.New("leasing: empty payment id")
	// ErrInvalidEffectiveDate is returned when a revision effective date is zero.
	ErrInvalidEffectiveDate = errors.New("leasing: invalid effective date")
	// ErrInvalidPaymentDate is returned when a payment date is zero.
	ErrInvalidPaymentDate = errors.New("leasing: invalid payment date")
	// ErrLeaseNotFound is returned when a lease does not exist.
	ErrLeaseNotFound = errors.New("leasing: lease not found")
	// ErrInvalidEpsilon is returned when the tolerance is negative.
	ErrInvalidEpsilon = errors.New("leasing: negative tolerance")
	// ErrInvalidWindow is returned when the ledger window is not positive.
	ErrInvalidWindow = errors.New("leasing: window months must be positive")
)
