// Package order projects SMS rentals, eSIM orders and proxy leases into one
// normalized shape for listing.
package order

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xraph/sandbox/esim"
	"github.com/xraph/sandbox/format"
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/sms"
	"github.com/xraph/sandbox/types"
)

// Type identifies the resource behind an order.
type Type string

const (
	TypeSMS   Type = "SMS"
	TypeESIM  Type = "eSIM"
	TypeProxy Type = "Proxy"
)

// ParseType maps a filter value ("sms", "esim", "proxy") to a Type.
// The empty string means any type.
func ParseType(s string) (Type, bool) {
	switch strings.ToLower(s) {
	case "":
		return "", true
	case "sms":
		return TypeSMS, true
	case "esim":
		return TypeESIM, true
	case "proxy":
		return TypeProxy, true
	}
	return "", false
}

// Statuses accepted by the status filter, in addition to "all".
var Statuses = []string{"active", "completed", "cancelled", "expired"}

// ValidStatus reports whether s is an accepted status filter.
func ValidStatus(s string) bool {
	if s == "" || s == "all" {
		return true
	}
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is the normalized view of one purchased resource.
type Order struct {
	Type      Type        `json:"type"`
	Name      string      `json:"name"`
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Price     types.Money `json:"price"`
	Details   string      `json:"details"`
	CreatedAt time.Time   `json:"created_at"`
}

// ListOpts filters a listing. Zero values match everything; Status "all"
// also matches everything.
type ListOpts struct {
	Type   Type
	Status string
}

// Matches reports whether o passes the filter.
func (opts ListOpts) Matches(o Order) bool {
	if opts.Type != "" && o.Type != opts.Type {
		return false
	}
	if opts.Status != "" && opts.Status != "all" && o.Status != opts.Status {
		return false
	}
	return true
}

// FromRental projects an SMS rental.
func FromRental(r *sms.Rental) Order {
	return Order{
		Type:      TypeSMS,
		Name:      fmt.Sprintf("%s (%s) - %s", r.Service, r.Country, r.Number),
		ID:        r.ID.String(),
		Status:    string(r.Status),
		Price:     r.Price,
		Details:   fmt.Sprintf("Messages: %d", len(r.Messages)),
		CreatedAt: r.CreatedAt,
	}
}

// FromESIM projects an eSIM order. now drives the time-left text.
func FromESIM(o *esim.Order, now time.Time) Order {
	return Order{
		Type:      TypeESIM,
		Name:      fmt.Sprintf("%s (%s)", o.PlanName, o.Country),
		ID:        o.ID.String(),
		Status:    string(o.Status),
		Price:     o.Price,
		Details:   fmt.Sprintf("Data remaining: %s | %s", format.GB(o.Remaining()), format.TimeRemaining(now, o.Expiry)),
		CreatedAt: o.CreatedAt,
	}
}

// FromLease projects a proxy lease.
func FromLease(l *proxy.Lease) Order {
	return Order{
		Type:      TypeProxy,
		Name:      fmt.Sprintf("%s proxy - %s (%s)", strings.ToUpper(string(l.Type)), l.Country, l.Carrier),
		ID:        l.ID.String(),
		Status:    string(l.Status),
		Price:     l.Price,
		Details:   fmt.Sprintf("Bandwidth: %s / %s", format.GB(l.BandwidthUsed), format.GB(l.BandwidthTotal)),
		CreatedAt: l.CreatedAt,
	}
}

// Sort orders newest first. Orders created at the same instant keep their
// relative input order.
func Sort(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
