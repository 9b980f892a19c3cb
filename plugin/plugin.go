// Package plugin provides an extensible plugin system for the sandbox.
// Plugins hook into wallet and order lifecycle events. Hooks run after the
// store lock is released, so a plugin may call back into the engine.
package plugin

import (
	"context"

	"github.com/xraph/sandbox/esim"
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/sms"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine any) error
}

// OnShutdown is called when the engine stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Wallet hooks
// ──────────────────────────────────────────────────

// OnTransactionRecorded is called for every ledger entry.
type OnTransactionRecorded interface {
	Plugin
	OnTransactionRecorded(ctx context.Context, tx *wallet.Transaction) error
}

// OnDepositCreated is called when a deposit invoice is issued.
type OnDepositCreated interface {
	Plugin
	OnDepositCreated(ctx context.Context, d *wallet.Deposit) error
}

// OnDepositCompleted is called when a deposit confirms and credits the wallet.
type OnDepositCompleted interface {
	Plugin
	OnDepositCompleted(ctx context.Context, d *wallet.Deposit) error
}

// ──────────────────────────────────────────────────
// Order hooks
// ──────────────────────────────────────────────────

// OnOrderCreated is called after a successful purchase of any resource.
type OnOrderCreated interface {
	Plugin
	OnOrderCreated(ctx context.Context, o *order.Order) error
}

// OnOrderExpired is called when a read transitions a resource to expired.
type OnOrderExpired interface {
	Plugin
	OnOrderExpired(ctx context.Context, o *order.Order) error
}

// OnPurchaseRejected is called when a purchase fails for lack of funds.
type OnPurchaseRejected interface {
	Plugin
	OnPurchaseRejected(ctx context.Context, kind order.Type, required, available types.Money) error
}

// ──────────────────────────────────────────────────
// Resource hooks
// ──────────────────────────────────────────────────

// OnRentalCanceled is called when an SMS rental is cancelled. refund is
// zero when messages had already arrived.
type OnRentalCanceled interface {
	Plugin
	OnRentalCanceled(ctx context.Context, r *sms.Rental, refund types.Money) error
}

// OnMessageDelivered is called when a verification code arrives.
type OnMessageDelivered interface {
	Plugin
	OnMessageDelivered(ctx context.Context, r *sms.Rental, msg sms.Message) error
}

// OnESIMToppedUp is called after data is added to an eSIM order.
type OnESIMToppedUp interface {
	Plugin
	OnESIMToppedUp(ctx context.Context, o *esim.Order, addedGB float64, cost types.Money) error
}

// OnProxyRotated is called after a proxy's exit IP changes.
type OnProxyRotated interface {
	Plugin
	OnProxyRotated(ctx context.Context, l *proxy.Lease, oldIP string) error
}
