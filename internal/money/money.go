package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeAmount is returned when constructing a negative amount.
	ErrNegativeAmount = errors.New("money: negative amount")
	// ErrInvalidAmount is returned when parsing a malformed amount.
	ErrInvalidAmount = errors.New("money: invalid amount")
)

// Money is an immutable non-negative decimal amount.
// The zero value is a valid zero amount.
type Money struct {
	value decimal.Decimal
}

// New builds a Money from a decimal value.
func New(value decimal.Decimal) (Money, error) {
	if value.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{value: value}, nil
}

// FromFloat builds a Money from a float64.
func FromFloat(value float64) (Money, error) {
	return New(decimal.NewFromFloat(value))
}

// Parse builds a Money from its decimal string form.
func Parse(s string) (Money, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return New(value)
}

// MustFromFloat builds a Money and panics on a negative value.
// Intended for literals in tests and wiring only.
func MustFromFloat(value float64) Money {
	m, err := FromFloat(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns the zero amount.
func Zero() Money { return Money{} }

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{value: m.value.Add(other.value)}
}

// Sub returns m - other, or ErrNegativeAmount if the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	result := m.value.Sub(other.value)
	if result.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{value: result}, nil
}

// Cmp compares two amounts: -1 if m < other, 0 if equal, 1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.value.Cmp(other.value)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.value.IsZero() }

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// Float64 returns the amount as a float64, discarding exactness.
func (m Money) Float64() float64 {
	f, _ := m.value.Float64()
	return f
}

// String returns the decimal string form.
func (m Money) String() string { return m.value.String() }

// MarshalJSON encodes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

// UnmarshalJSON decodes a JSON number and rejects negatives.
func (m *Money) UnmarshalJSON(data []byte) error {
	var value decimal.Decimal
	if err := value.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}
	if value.IsNegative() {
		return ErrNegativeAmount
	}
	m.value = value
	return nil
}
