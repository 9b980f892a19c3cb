// Package id defines TypeID-based identity types for all sandbox records.
//
// Every record uses a single ID struct with a prefix that identifies the
// record kind. IDs are K-sortable (UUIDv7-based), globally unique and
// URL-safe in the format "prefix_suffix".
package id

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the record kind encoded in a TypeID.
type Prefix string

// Prefix constants for all sandbox record kinds.
const (
	PrefixTransaction Prefix = "tx"  // Ledger transaction
	PrefixInvoice     Prefix = "inv" // Deposit invoice
	PrefixRental      Prefix = "sms" // SMS number rental
	PrefixOrder       Prefix = "ord" // eSIM order
	PrefixProxy       Prefix = "prx" // Proxy lease
)

// ID wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier.
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receiver for UnmarshalText.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g. "sms_01h2xcejqtf2nbrexx3vqjhp41").
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and checks its prefix.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// TransactionID identifies a ledger transaction (prefix: "tx").
type TransactionID = ID

// InvoiceID identifies a deposit invoice (prefix: "inv").
type InvoiceID = ID

// RentalID identifies an SMS rental (prefix: "sms").
type RentalID = ID

// OrderID identifies an eSIM order (prefix: "ord").
type OrderID = ID

// ProxyID identifies a proxy lease (prefix: "prx").
type ProxyID = ID

// NewTransactionID generates a new unique transaction ID.
func NewTransactionID() ID { return New(PrefixTransaction) }

// NewInvoiceID generates a new unique invoice ID.
func NewInvoiceID() ID { return New(PrefixInvoice) }

// NewRentalID generates a new unique rental ID.
func NewRentalID() ID { return New(PrefixRental) }

// NewOrderID generates a new unique eSIM order ID.
func NewOrderID() ID { return New(PrefixOrder) }

// NewProxyID generates a new unique proxy ID.
func NewProxyID() ID { return New(PrefixProxy) }

// ParseRentalID parses a string and validates the "sms" prefix.
func ParseRentalID(s string) (ID, error) { return ParseWithPrefix(s, PrefixRental) }

// ParseOrderID parses a string and validates the "ord" prefix.
func ParseOrderID(s string) (ID, error) { return ParseWithPrefix(s, PrefixOrder) }

// ParseProxyID parses a string and validates the "prx" prefix.
func ParseProxyID(s string) (ID, error) { return ParseWithPrefix(s, PrefixProxy) }

// ParseInvoiceID parses a string and validates the "inv" prefix.
func ParseInvoiceID(s string) (ID, error) { return ParseWithPrefix(s, PrefixInvoice) }

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}
