// Package types provides common value types used across the sandbox.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Money represents a monetary value in the smallest currency unit.
// Balance arithmetic is integer-only, so repeated small charges never drift.
//
// Examples:
//   - USD(5000) = $50.00
//   - USD(249)  = $2.49
type Money struct {
	Amount   int64  `json:"amount"`   // Smallest unit (cents)
	Currency string `json:"currency"` // ISO 4217 lowercase: "usd"
}

// USD creates a Money value in US Dollars (cents).
func USD(cents int64) Money { return Money{Amount: cents, Currency: "usd"} }

// Zero returns a zero Money value in the specified currency.
func Zero(currency string) Money { return Money{Amount: 0, Currency: strings.ToLower(currency)} }

// ErrOutOfRange is returned when a major-unit amount is not finite or does
// not fit in int64 cents.
var ErrOutOfRange = errors.New("money: amount out of range")

// FromMajor converts a major-unit amount (dollars) into Money, rounding
// half away from zero to the nearest cent.
func FromMajor(major float64, currency string) (Money, error) {
	cents := math.Round(major * 100)
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if math.IsNaN(cents) || cents >= math.MaxInt64 || cents < math.MinInt64 {
		return Money{}, fmt.Errorf("%w: %v", ErrOutOfRange, major)
	}
	return Money{Amount: int64(cents), Currency: strings.ToLower(currency)}, nil
}

// Add adds two Money values. Panics if currencies don't match.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Subtract subtracts another Money value. Panics if currencies don't match.
func (m Money) Subtract(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}
}

// Multiply multiplies the Money by an integer quantity.
func (m Money) Multiply(qty int64) Money {
	return Money{Amount: m.Amount * qty, Currency: m.Currency}
}

// MulQuantity multiplies a unit price by a fractional quantity (GB, months)
// and rounds the result to the nearest cent.
func (m Money) MulQuantity(qty float64) Money {
	return Money{Amount: int64(math.Round(float64(m.Amount) * qty)), Currency: m.Currency}
}

// Negate returns the negative of the Money value.
func (m Money) Negate() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.Amount < 0 {
		return m.Negate()
	}
	return m
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Equal returns true if both values carry the same amount and currency.
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// LessThan returns true if m < other. Panics if currencies don't match.
func (m Money) LessThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount < other.Amount
}

// GreaterThan returns true if m > other. Panics if currencies don't match.
func (m Money) GreaterThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount > other.Amount
}

// Major returns the amount in major units. Use for display only.
func (m Money) Major() float64 { return float64(m.Amount) / 100 }

// FormatMajor returns the amount without a currency symbol, e.g. "49.00".
func (m Money) FormatMajor() string {
	abs := m.Amount
	sign := ""
	if abs < 0 {
		abs = -abs
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%02d", sign, abs/100, abs%100)
}

// String returns a human-readable string with currency symbol, e.g. "$49.00".
func (m Money) String() string {
	if m.Amount < 0 {
		return "-" + currencySymbol(m.Currency) + m.Abs().FormatMajor()
	}
	return currencySymbol(m.Currency) + m.FormatMajor()
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}{
		Amount:   m.Amount,
		Currency: m.Currency,
		Display:  m.String(),
	})
}

// Sum adds up values that all share one currency. Empty input yields $0.00.
func Sum(values ...Money) Money {
	if len(values) == 0 {
		return Zero("usd")
	}
	result := values[0]
	for _, v := range values[1:] {
		result = result.Add(v)
	}
	return result
}

func (m Money) assertSameCurrency(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s != %s", m.Currency, other.Currency))
	}
}

func currencySymbol(currency string) string {
	switch strings.ToLower(currency) {
	case "usd":
		return "$"
	case "eur":
		return "€"
	case "gbp":
		return "£"
	default:
		return strings.ToUpper(currency) + " "
	}
}
