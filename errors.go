package sandbox

import (
	"errors"
	"fmt"

	"github.com/xraph/sandbox/types"
)

// Error categories. Every error returned by the Engine matches exactly one
// of these under errors.Is.
var (
	ErrNotFound            = errors.New("sandbox: not found")
	ErrInsufficientBalance = errors.New("sandbox: insufficient balance")
	ErrInvalidState        = errors.New("sandbox: invalid state")
	ErrInvalidArgument     = errors.New("sandbox: invalid argument")
)

// Specific sentinel errors. Each one also matches its category.
var (
	// Catalog errors
	ErrServiceNotFound       = categorized(ErrNotFound, "sandbox: sms service not found")
	ErrPlanNotFound          = categorized(ErrNotFound, "sandbox: esim plan not found")
	ErrProxyOfferingNotFound = categorized(ErrNotFound, "sandbox: no proxy offering matches")

	// Record errors
	ErrRentalNotFound = categorized(ErrNotFound, "sandbox: rental not found")
	ErrOrderNotFound  = categorized(ErrNotFound, "sandbox: esim order not found")
	ErrProxyNotFound  = categorized(ErrNotFound, "sandbox: proxy not found")

	// State errors
	ErrRentalExpired    = categorized(ErrInvalidState, "sandbox: rental expired")
	ErrRentalCancelled  = categorized(ErrInvalidState, "sandbox: rental cancelled")
	ErrRentalNotActive  = categorized(ErrInvalidState, "sandbox: rental not active")
	ErrOrderNotActive   = categorized(ErrInvalidState, "sandbox: esim order not active")
	ErrTopupUnavailable = categorized(ErrInvalidState, "sandbox: top-up not available for plan")
	ErrProxyNotActive   = categorized(ErrInvalidState, "sandbox: proxy not active")
	ErrIPExhausted      = categorized(ErrInvalidState, "sandbox: no new ip available")
)

// kindError is a sentinel that also matches a broader category.
type kindError struct {
	msg      string
	category error
}

func categorized(category error, msg string) error {
	return &kindError{msg: msg, category: category}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.category }

// BalanceError reports a debit the wallet could not cover.
type BalanceError struct {
	Required  types.Money
	Available types.Money
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("sandbox: insufficient balance: need %s, have %s", e.Required, e.Available)
}

// Unwrap returns ErrInsufficientBalance.
func (e *BalanceError) Unwrap() error { return ErrInsufficientBalance }

// StateError reports an operation the record's current status forbids.
type StateError struct {
	Resource string
	ID       string
	Status   string
	Err      error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("sandbox: %s %s is %s", e.Resource, e.ID, e.Status)
}

// Unwrap returns the specific state sentinel.
func (e *StateError) Unwrap() error { return e.Err }

// ValidationError represents a validation failure with guidance.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("sandbox: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalidArgument.
func (e ValidationError) Unwrap() error { return ErrInvalidArgument }

func invalid(field, format string, args ...any) error {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInsufficientBalance returns true if a debit was refused.
func IsInsufficientBalance(err error) bool { return errors.Is(err, ErrInsufficientBalance) }

// IsInvalidState returns true if the record's status forbade the operation.
func IsInvalidState(err error) bool { return errors.Is(err, ErrInvalidState) }

// IsInvalidArgument returns true if the input was malformed.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }
