package id_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/xraph/sandbox/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"TransactionID", id.NewTransactionID, "tx_"},
		{"InvoiceID", id.NewInvoiceID, "inv_"},
		{"RentalID", id.NewRentalID, "sms_"},
		{"OrderID", id.NewOrderID, "ord_"},
		{"ProxyID", id.NewProxyID, "prx_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"RentalID", id.NewRentalID, id.ParseRentalID},
		{"OrderID", id.NewOrderID, id.ParseOrderID},
		{"ProxyID", id.NewProxyID, id.ParseProxyID},
		{"InvoiceID", id.NewInvoiceID, id.ParseInvoiceID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossKindRejection(t *testing.T) {
	if _, err := id.ParseRentalID(id.NewOrderID().String()); err == nil {
		t.Error("expected rental parser to reject an order ID")
	}
	if _, err := id.ParseProxyID(id.NewRentalID().String()); err == nil {
		t.Error("expected proxy parser to reject a rental ID")
	}
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "not-an-id", "sms_", "sms_abc"} {
		if _, err := id.Parse(s); err == nil {
			t.Errorf("expected error parsing %q", s)
		}
	}
}

func TestNilID(t *testing.T) {
	if !id.Nil.IsNil() {
		t.Error("Nil should report IsNil")
	}
	if id.Nil.String() != "" {
		t.Errorf("Nil string: got %q", id.Nil.String())
	}
	if id.NewProxyID().IsNil() {
		t.Error("generated ID should not be nil")
	}
}

func TestJSON(t *testing.T) {
	original := id.NewRentalID()
	data, err := json.Marshal(struct {
		ID id.ID `json:"id"`
	}{original})
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		ID id.ID `json:"id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.ID.String() != original.String() {
		t.Errorf("got %q, want %q", out.ID, original)
	}
}
