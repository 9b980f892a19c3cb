package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/sandbox/esim"
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/sms"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

// HookTimeout bounds a single plugin call.
const HookTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                []OnInit
	onShutdown            []OnShutdown
	onTransactionRecorded []OnTransactionRecorded
	onDepositCreated      []OnDepositCreated
	onDepositCompleted    []OnDepositCompleted
	onOrderCreated        []OnOrderCreated
	onOrderExpired        []OnOrderExpired
	onPurchaseRejected    []OnPurchaseRejected
	onRentalCanceled      []OnRentalCanceled
	onMessageDelivered    []OnMessageDelivered
	onESIMToppedUp        []OnESIMToppedUp
	onProxyRotated        []OnProxyRotated
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{logger: slog.Default()}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnTransactionRecorded); ok {
		r.onTransactionRecorded = append(r.onTransactionRecorded, v)
	}
	if v, ok := p.(OnDepositCreated); ok {
		r.onDepositCreated = append(r.onDepositCreated, v)
	}
	if v, ok := p.(OnDepositCompleted); ok {
		r.onDepositCompleted = append(r.onDepositCompleted, v)
	}
	if v, ok := p.(OnOrderCreated); ok {
		r.onOrderCreated = append(r.onOrderCreated, v)
	}
	if v, ok := p.(OnOrderExpired); ok {
		r.onOrderExpired = append(r.onOrderExpired, v)
	}
	if v, ok := p.(OnPurchaseRejected); ok {
		r.onPurchaseRejected = append(r.onPurchaseRejected, v)
	}
	if v, ok := p.(OnRentalCanceled); ok {
		r.onRentalCanceled = append(r.onRentalCanceled, v)
	}
	if v, ok := p.(OnMessageDelivered); ok {
		r.onMessageDelivered = append(r.onMessageDelivered, v)
	}
	if v, ok := p.(OnESIMToppedUp); ok {
		r.onESIMToppedUp = append(r.onESIMToppedUp, v)
	}
	if v, ok := p.(OnProxyRotated); ok {
		r.onProxyRotated = append(r.onProxyRotated, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

var hookTypes = []struct {
	name string
	typ  reflect.Type
}{
	{"OnInit", reflect.TypeFor[OnInit]()},
	{"OnShutdown", reflect.TypeFor[OnShutdown]()},
	{"OnTransactionRecorded", reflect.TypeFor[OnTransactionRecorded]()},
	{"OnDepositCreated", reflect.TypeFor[OnDepositCreated]()},
	{"OnDepositCompleted", reflect.TypeFor[OnDepositCompleted]()},
	{"OnOrderCreated", reflect.TypeFor[OnOrderCreated]()},
	{"OnOrderExpired", reflect.TypeFor[OnOrderExpired]()},
	{"OnPurchaseRejected", reflect.TypeFor[OnPurchaseRejected]()},
	{"OnRentalCanceled", reflect.TypeFor[OnRentalCanceled]()},
	{"OnMessageDelivered", reflect.TypeFor[OnMessageDelivered]()},
	{"OnESIMToppedUp", reflect.TypeFor[OnESIMToppedUp]()},
	{"OnProxyRotated", reflect.TypeFor[OnProxyRotated]()},
}

// implementedInterfaces returns the hook names the plugin implements.
func implementedInterfaces(p Plugin) []string {
	var names []string
	v := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if v.Implements(h.typ) {
			names = append(names, h.name)
		}
	}
	return names
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// emit snapshots a hook list under the read lock and calls fn for each
// entry, logging failures.
func emit[P Plugin](ctx context.Context, r *Registry, hook string, list func() []P, fn func(P) error) {
	r.mu.RLock()
	plugins := list()
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return fn(p)
		}); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine any) {
	emit(ctx, r, "OnInit", func() []OnInit { return r.onInit }, func(p OnInit) error {
		return p.OnInit(ctx, engine)
	})
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	emit(ctx, r, "OnShutdown", func() []OnShutdown { return r.onShutdown }, func(p OnShutdown) error {
		return p.OnShutdown(ctx)
	})
}

// EmitTransactionRecorded emits a ledger entry event.
func (r *Registry) EmitTransactionRecorded(ctx context.Context, tx *wallet.Transaction) {
	emit(ctx, r, "OnTransactionRecorded", func() []OnTransactionRecorded { return r.onTransactionRecorded }, func(p OnTransactionRecorded) error {
		return p.OnTransactionRecorded(ctx, tx)
	})
}

// EmitDepositCreated emits a deposit created event.
func (r *Registry) EmitDepositCreated(ctx context.Context, d *wallet.Deposit) {
	emit(ctx, r, "OnDepositCreated", func() []OnDepositCreated { return r.onDepositCreated }, func(p OnDepositCreated) error {
		return p.OnDepositCreated(ctx, d)
	})
}

// EmitDepositCompleted emits a deposit completed event.
func (r *Registry) EmitDepositCompleted(ctx context.Context, d *wallet.Deposit) {
	emit(ctx, r, "OnDepositCompleted", func() []OnDepositCompleted { return r.onDepositCompleted }, func(p OnDepositCompleted) error {
		return p.OnDepositCompleted(ctx, d)
	})
}

// EmitOrderCreated emits an order created event.
func (r *Registry) EmitOrderCreated(ctx context.Context, o *order.Order) {
	emit(ctx, r, "OnOrderCreated", func() []OnOrderCreated { return r.onOrderCreated }, func(p OnOrderCreated) error {
		return p.OnOrderCreated(ctx, o)
	})
}

// EmitOrderExpired emits an order expired event.
func (r *Registry) EmitOrderExpired(ctx context.Context, o *order.Order) {
	emit(ctx, r, "OnOrderExpired", func() []OnOrderExpired { return r.onOrderExpired }, func(p OnOrderExpired) error {
		return p.OnOrderExpired(ctx, o)
	})
}

// EmitPurchaseRejected emits a rejected purchase event.
func (r *Registry) EmitPurchaseRejected(ctx context.Context, kind order.Type, required, available types.Money) {
	emit(ctx, r, "OnPurchaseRejected", func() []OnPurchaseRejected { return r.onPurchaseRejected }, func(p OnPurchaseRejected) error {
		return p.OnPurchaseRejected(ctx, kind, required, available)
	})
}

// EmitRentalCanceled emits a rental cancelled event.
func (r *Registry) EmitRentalCanceled(ctx context.Context, rental *sms.Rental, refund types.Money) {
	emit(ctx, r, "OnRentalCanceled", func() []OnRentalCanceled { return r.onRentalCanceled }, func(p OnRentalCanceled) error {
		return p.OnRentalCanceled(ctx, rental, refund)
	})
}

// EmitMessageDelivered emits a message delivered event.
func (r *Registry) EmitMessageDelivered(ctx context.Context, rental *sms.Rental, msg sms.Message) {
	emit(ctx, r, "OnMessageDelivered", func() []OnMessageDelivered { return r.onMessageDelivered }, func(p OnMessageDelivered) error {
		return p.OnMessageDelivered(ctx, rental, msg)
	})
}

// EmitESIMToppedUp emits an eSIM top-up event.
func (r *Registry) EmitESIMToppedUp(ctx context.Context, o *esim.Order, addedGB float64, cost types.Money) {
	emit(ctx, r, "OnESIMToppedUp", func() []OnESIMToppedUp { return r.onESIMToppedUp }, func(p OnESIMToppedUp) error {
		return p.OnESIMToppedUp(ctx, o, addedGB, cost)
	})
}

// EmitProxyRotated emits a proxy rotation event.
func (r *Registry) EmitProxyRotated(ctx context.Context, l *proxy.Lease, oldIP string) {
	emit(ctx, r, "OnProxyRotated", func() []OnProxyRotated { return r.onProxyRotated }, func(p OnProxyRotated) error {
		return p.OnProxyRotated(ctx, l, oldIP)
	})
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the marketplace.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(HookTimeout):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
