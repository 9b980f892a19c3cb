// Package esim models purchased eSIM data plans and their simulated usage.
package esim

import (
	"math"
	"time"

	"github.com/xraph/sandbox/id"
	"github.com/xraph/sandbox/types"
)

// QRURLBase prefixes the installation QR link of every order.
const QRURLBase = "https://sandbox.voidmob.com/esim/qr/"

// UnlimitedGB marks a plan without a data cap.
const UnlimitedGB = 999.0

// MaxTopupGB is the most data a single top-up may add.
const MaxTopupGB = 1000.0

// Usage accrual parameters.
const (
	UsagePerHourGB = 0.1
	UsageCap       = 0.95
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Order is a purchased eSIM plan.
type Order struct {
	ID        id.OrderID  `json:"id"`
	PlanID    string      `json:"plan_id"`
	PlanName  string      `json:"plan_name"`
	Country   string      `json:"country"`
	DataTotal float64     `json:"data_total_gb"`
	DataUsed  float64     `json:"data_used_gb"`
	Status    Status      `json:"status"`
	QRURL     string      `json:"qr_url"`
	APN       string      `json:"apn"`
	Price     types.Money `json:"price"`
	Expiry    time.Time   `json:"expiry"`
	CreatedAt time.Time   `json:"created_at"`
}

// Plan is the subset of catalog data an order is minted from.
type Plan struct {
	ID           string
	Name         string
	Country      string
	DataGB       float64
	DurationDays int
	APN          string
	Price        types.Money
}

// NewOrder mints an active order for plan created at now.
func NewOrder(plan Plan, now time.Time) *Order {
	oid := id.NewOrderID()
	return &Order{
		ID:        oid,
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		Country:   plan.Country,
		DataTotal: plan.DataGB,
		Status:    StatusActive,
		QRURL:     QRURLBase + oid.String(),
		APN:       plan.APN,
		Price:     plan.Price,
		Expiry:    now.Add(time.Duration(plan.DurationDays) * 24 * time.Hour),
		CreatedAt: now,
	}
}

// RecordID implements registry.Record.
func (o *Order) RecordID() string { return o.ID.String() }

// Refresh recomputes usage at now and expires the order once its expiry is
// reached. It reports whether the status changed.
func (o *Order) Refresh(now time.Time) bool {
	o.DataUsed = SimulatedUsage(now.Sub(o.CreatedAt), o.DataTotal)
	if o.Status == StatusActive && !now.Before(o.Expiry) {
		o.Status = StatusExpired
		return true
	}
	return false
}

// SimulatedUsage is the data consumed after elapsed against a total.
func SimulatedUsage(elapsed time.Duration, total float64) float64 {
	used := math.Min(elapsed.Hours()*UsagePerHourGB, total*UsageCap)
	return round2(math.Max(used, 0))
}

// Unlimited reports whether the order has no data cap.
func (o *Order) Unlimited() bool { return o.DataTotal >= UnlimitedGB }

// Remaining returns the data left, never negative.
func (o *Order) Remaining() float64 {
	return math.Max(0, o.DataTotal-o.DataUsed)
}

// DaysLeft returns whole days until expiry, rounded up.
func (o *Order) DaysLeft(now time.Time) int {
	left := o.Expiry.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// AddData extends the data allowance by gb.
func (o *Order) AddData(gb float64) {
	o.DataTotal = round2(o.DataTotal + gb)
}

// Clone returns a copy safe to hand to callers.
func (o *Order) Clone() *Order {
	c := *o
	return &c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
