// Package observability provides a metrics extension for the sandbox that
// records lifecycle event counts through a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/sandbox/esim"
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/plugin"
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/sms"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                = (*MetricsExtension)(nil)
	_ plugin.OnInit                = (*MetricsExtension)(nil)
	_ plugin.OnTransactionRecorded = (*MetricsExtension)(nil)
	_ plugin.OnDepositCreated      = (*MetricsExtension)(nil)
	_ plugin.OnDepositCompleted    = (*MetricsExtension)(nil)
	_ plugin.OnOrderCreated        = (*MetricsExtension)(nil)
	_ plugin.OnOrderExpired        = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseRejected    = (*MetricsExtension)(nil)
	_ plugin.OnRentalCanceled      = (*MetricsExtension)(nil)
	_ plugin.OnMessageDelivered    = (*MetricsExtension)(nil)
	_ plugin.OnESIMToppedUp        = (*MetricsExtension)(nil)
	_ plugin.OnProxyRotated        = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a sandbox plugin to track marketplace activity.
type MetricsExtension struct {
	// Wallet metrics
	Transactions      Counter
	DepositsCreated   Counter
	DepositsCompleted Counter
	DepositAmount     Histogram

	// Order metrics
	SMSOrders         Counter
	ESIMOrders        Counter
	ProxyOrders       Counter
	OrdersExpired     Counter
	PurchasesRejected Counter
	OrderAmount       Histogram

	// Resource metrics
	RentalsCanceled   Counter
	Refunds           Counter
	MessagesDelivered Counter
	ESIMTopups        Counter
	TopupGB           Histogram
	ProxyRotations    Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		Transactions:      factory.Counter("sandbox.wallet.transactions"),
		DepositsCreated:   factory.Counter("sandbox.wallet.deposits.created"),
		DepositsCompleted: factory.Counter("sandbox.wallet.deposits.completed"),
		DepositAmount:     factory.Histogram("sandbox.wallet.deposit.amount_cents"),

		SMSOrders:         factory.Counter("sandbox.orders.sms"),
		ESIMOrders:        factory.Counter("sandbox.orders.esim"),
		ProxyOrders:       factory.Counter("sandbox.orders.proxy"),
		OrdersExpired:     factory.Counter("sandbox.orders.expired"),
		PurchasesRejected: factory.Counter("sandbox.orders.rejected"),
		OrderAmount:       factory.Histogram("sandbox.orders.amount_cents"),

		RentalsCanceled:   factory.Counter("sandbox.sms.canceled"),
		Refunds:           factory.Counter("sandbox.sms.refunds"),
		MessagesDelivered: factory.Counter("sandbox.sms.messages"),
		ESIMTopups:        factory.Counter("sandbox.esim.topups"),
		TopupGB:           factory.Histogram("sandbox.esim.topup_gb"),
		ProxyRotations:    factory.Counter("sandbox.proxy.rotations"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	return nil
}

// ──────────────────────────────────────────────────
// Wallet hooks
// ──────────────────────────────────────────────────

// OnTransactionRecorded implements plugin.OnTransactionRecorded.
func (m *MetricsExtension) OnTransactionRecorded(_ context.Context, _ *wallet.Transaction) error {
	m.Transactions.Inc()
	return nil
}

// OnDepositCreated implements plugin.OnDepositCreated.
func (m *MetricsExtension) OnDepositCreated(_ context.Context, _ *wallet.Deposit) error {
	m.DepositsCreated.Inc()
	return nil
}

// OnDepositCompleted implements plugin.OnDepositCompleted.
func (m *MetricsExtension) OnDepositCompleted(_ context.Context, d *wallet.Deposit) error {
	m.DepositsCompleted.Inc()
	m.DepositAmount.Observe(float64(d.Amount.Amount))
	return nil
}

// ──────────────────────────────────────────────────
// Order hooks
// ──────────────────────────────────────────────────

// OnOrderCreated implements plugin.OnOrderCreated.
func (m *MetricsExtension) OnOrderCreated(_ context.Context, o *order.Order) error {
	switch o.Type {
	case order.TypeSMS:
		m.SMSOrders.Inc()
	case order.TypeESIM:
		m.ESIMOrders.Inc()
	case order.TypeProxy:
		m.ProxyOrders.Inc()
	}
	m.OrderAmount.Observe(float64(o.Price.Amount))
	return nil
}

// OnOrderExpired implements plugin.OnOrderExpired.
func (m *MetricsExtension) OnOrderExpired(_ context.Context, _ *order.Order) error {
	m.OrdersExpired.Inc()
	return nil
}

// OnPurchaseRejected implements plugin.OnPurchaseRejected.
func (m *MetricsExtension) OnPurchaseRejected(_ context.Context, _ order.Type, _, _ types.Money) error {
	m.PurchasesRejected.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Resource hooks
// ──────────────────────────────────────────────────

// OnRentalCanceled implements plugin.OnRentalCanceled.
func (m *MetricsExtension) OnRentalCanceled(_ context.Context, _ *sms.Rental, refund types.Money) error {
	m.RentalsCanceled.Inc()
	if refund.IsPositive() {
		m.Refunds.Inc()
	}
	return nil
}

// OnMessageDelivered implements plugin.OnMessageDelivered.
func (m *MetricsExtension) OnMessageDelivered(_ context.Context, _ *sms.Rental, _ sms.Message) error {
	m.MessagesDelivered.Inc()
	return nil
}

// OnESIMToppedUp implements plugin.OnESIMToppedUp.
func (m *MetricsExtension) OnESIMToppedUp(_ context.Context, _ *esim.Order, addedGB float64, _ types.Money) error {
	m.ESIMTopups.Inc()
	m.TopupGB.Observe(addedGB)
	return nil
}

// OnProxyRotated implements plugin.OnProxyRotated.
func (m *MetricsExtension) OnProxyRotated(_ context.Context, _ *proxy.Lease, _ string) error {
	m.ProxyRotations.Inc()
	return nil
}
