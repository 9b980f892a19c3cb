// Package proxy models leased mobile proxies and their simulated bandwidth.
package proxy

import (
	"fmt"
	"math"
	"time"

	"github.com/xraph/sandbox/id"
	"github.com/xraph/sandbox/types"
)

// Term is the lease length of one unit: the whole lease for pay-per-GB,
// one month for dedicated.
const Term = 30 * 24 * time.Hour

// MaxQuantity bounds a single purchase: GB for pay-per-GB, months for
// dedicated. MaxQuantity terms fit in a time.Duration.
const MaxQuantity = 1000.0

// Bandwidth accrual parameters.
const (
	UsagePerHourGB = 0.05
	UsageCap       = 0.9
)

// Type is the billing model of a lease.
type Type string

const (
	TypeGB        Type = "gb"
	TypeDedicated Type = "dedicated"
)

// Valid reports whether t is a known proxy type.
func (t Type) Valid() bool { return t == TypeGB || t == TypeDedicated }

// Label returns the human-readable billing model.
func (t Type) Label() string {
	if t == TypeDedicated {
		return "Dedicated"
	}
	return "Pay-per-GB"
}

// Status is the lifecycle state of a lease.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Credentials authenticate against the proxy gateway.
type Credentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ConnectionString renders host:port:username:password.
func (c Credentials) ConnectionString() string {
	return fmt.Sprintf("%s:%d:%s:%s", c.Host, c.Port, c.Username, c.Password)
}

// Lease is a purchased proxy.
type Lease struct {
	ID             id.ProxyID  `json:"id"`
	Type           Type        `json:"type"`
	Country        string      `json:"country"`
	Carrier        string      `json:"carrier"`
	Network        string      `json:"network"`
	Credentials    Credentials `json:"credentials"`
	Quantity       float64     `json:"quantity"`
	BandwidthUsed  float64     `json:"bandwidth_used_gb"`
	BandwidthTotal float64     `json:"bandwidth_total_gb"`
	Status         Status      `json:"status"`
	IP             string      `json:"ip"`
	Price          types.Money `json:"price"`
	Expiry         time.Time   `json:"expiry"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Terms are the computed purchase conditions of a new lease.
type Terms struct {
	Type           Type
	Country        string
	Carrier        string
	Network        string
	Quantity       float64
	BandwidthTotal float64
	Price          types.Money
}

// ExpiryFor returns the expiry of a lease of type t and quantity qty
// created at now. Pay-per-GB leases run one term regardless of quantity.
// qty must not exceed MaxQuantity.
func ExpiryFor(t Type, qty float64, now time.Time) time.Time {
	if t == TypeDedicated {
		return now.Add(time.Duration(qty * float64(Term)))
	}
	return now.Add(Term)
}

// NewLease mints an active lease created at now.
func NewLease(terms Terms, creds Credentials, ip string, now time.Time) *Lease {
	return &Lease{
		ID:             id.NewProxyID(),
		Type:           terms.Type,
		Country:        terms.Country,
		Carrier:        terms.Carrier,
		Network:        terms.Network,
		Credentials:    creds,
		Quantity:       terms.Quantity,
		BandwidthTotal: terms.BandwidthTotal,
		Status:         StatusActive,
		IP:             ip,
		Price:          terms.Price,
		Expiry:         ExpiryFor(terms.Type, terms.Quantity, now),
		CreatedAt:      now,
	}
}

// RecordID implements registry.Record.
func (l *Lease) RecordID() string { return l.ID.String() }

// Refresh recomputes bandwidth at now and expires the lease once its expiry
// is reached. It reports whether the status changed.
func (l *Lease) Refresh(now time.Time) bool {
	l.BandwidthUsed = SimulatedUsage(now.Sub(l.CreatedAt), l.BandwidthTotal)
	if l.Status == StatusActive && !now.Before(l.Expiry) {
		l.Status = StatusExpired
		return true
	}
	return false
}

// SimulatedUsage is the bandwidth consumed after elapsed against a total.
func SimulatedUsage(elapsed time.Duration, total float64) float64 {
	used := math.Min(elapsed.Hours()*UsagePerHourGB, total*UsageCap)
	return math.Round(math.Max(used, 0)*100) / 100
}

// Remaining returns the bandwidth left, never negative.
func (l *Lease) Remaining() float64 {
	return math.Max(0, l.BandwidthTotal-l.BandwidthUsed)
}

// Uptime returns the lease age at now.
func (l *Lease) Uptime(now time.Time) time.Duration {
	return now.Sub(l.CreatedAt)
}

// Rotate replaces the exit IP and returns the previous one.
func (l *Lease) Rotate(ip string) string {
	old := l.IP
	l.IP = ip
	return old
}

// Clone returns a copy safe to hand to callers.
func (l *Lease) Clone() *Lease {
	c := *l
	return &c
}
