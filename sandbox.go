package sandbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/sandbox/catalog"
	"github.com/xraph/sandbox/clock"
	"github.com/xraph/sandbox/esim"
	"github.com/xraph/sandbox/mock"
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/plugin"
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/registry"
	"github.com/xraph/sandbox/sms"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

// DefaultOpeningBalance is the balance a new wallet starts with.
var DefaultOpeningBalance = types.USD(5000)

// MaxDeposit is the largest amount a single deposit may carry.
var MaxDeposit = types.USD(100_000_000)

// RecentTransactions is how many entries a balance report carries.
const RecentTransactions = 10

// Engine is the in-memory marketplace store. One mutex serializes every
// operation, and plugin hooks run only after it is released.
type Engine struct {
	mu      sync.Mutex
	clock   clock.Clock
	catalog catalog.Catalog
	gen     mock.Generator
	plugins *plugin.Registry
	logger  *slog.Logger
	opening types.Money

	ledger   *wallet.Ledger
	deposits *wallet.DepositQueue
	rentals  *registry.Registry[*sms.Rental]
	esims    *registry.Registry[*esim.Order]
	proxies  *registry.Registry[*proxy.Lease]

	// outbox holds hook calls queued while the lock is held.
	outbox []func(context.Context)
}

// New creates an Engine with an opening balance, empty registries and the
// default catalog.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:   clock.System(),
		catalog: catalog.Default(),
		gen:     mock.NewRandom(),
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		opening: DefaultOpeningBalance,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.ledger = wallet.NewLedger(e.opening)
	e.deposits = wallet.NewDepositQueue()
	e.rentals = registry.New[*sms.Rental](func(r *sms.Rental) { e.expired(order.FromRental(r)) })
	e.esims = registry.New[*esim.Order](func(o *esim.Order) { e.expired(order.FromESIM(o, e.clock.Now())) })
	e.proxies = registry.New[*proxy.Lease](func(l *proxy.Lease) { e.expired(order.FromLease(l)) })

	return e
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock replaces the time source driving every lazy transition.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithCatalog replaces the offerings catalog.
func WithCatalog(c catalog.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithGenerator replaces the mock value generator.
func WithGenerator(g mock.Generator) Option {
	return func(e *Engine) { e.gen = g }
}

// WithOpeningBalance sets the balance the wallet starts with.
func WithOpeningBalance(m types.Money) Option {
	return func(e *Engine) { e.opening = m }
}

// Start notifies plugins. The engine has no background workers.
func (e *Engine) Start(ctx context.Context) error {
	e.plugins.EmitInit(ctx, e)

	e.logger.Info("sandbox started",
		"opening_balance", e.opening.String(),
		"plugins", e.plugins.Count(),
	)
	return nil
}

// Stop notifies plugins of shutdown.
func (e *Engine) Stop() error {
	e.plugins.EmitShutdown(context.Background())
	e.logger.Info("sandbox stopped")
	return nil
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time { return e.clock.Now() }

// Catalog returns the offerings catalog.
func (e *Engine) Catalog() catalog.Catalog { return e.catalog }

// Plugins returns the plugin registry.
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// ──────────────────────────────────────────────────
// Internal helpers; callers hold e.mu unless noted
// ──────────────────────────────────────────────────

// enqueue defers a hook call until the lock is released.
func (e *Engine) enqueue(fn func(context.Context)) {
	e.outbox = append(e.outbox, fn)
}

// flush runs queued hook calls. It must be deferred before taking the lock
// so it runs after the unlock.
func (e *Engine) flush(ctx context.Context) {
	e.mu.Lock()
	pending := e.outbox
	e.outbox = nil
	e.mu.Unlock()

	for _, fn := range pending {
		fn(ctx)
	}
}

func (e *Engine) expired(o order.Order) {
	e.logger.Info("order expired", "order_type", string(o.Type), "order_id", o.ID)
	e.enqueue(func(ctx context.Context) { e.plugins.EmitOrderExpired(ctx, &o) })
}

func (e *Engine) credit(amount types.Money, kind wallet.Kind, description string, now time.Time) (wallet.Transaction, bool) {
	tx, ok := e.ledger.Credit(amount, kind, description, now)
	if ok {
		e.recorded(tx)
	}
	return tx, ok
}

func (e *Engine) debit(amount types.Money, kind wallet.Kind, description string, now time.Time) (wallet.Transaction, bool) {
	tx, ok := e.ledger.Debit(amount, kind, description, now)
	if ok {
		e.recorded(tx)
	}
	return tx, ok
}

func (e *Engine) recorded(tx wallet.Transaction) {
	e.enqueue(func(ctx context.Context) { e.plugins.EmitTransactionRecorded(ctx, &tx) })
}

// engineCrediter routes deposit confirmations through Engine.credit.
type engineCrediter struct{ e *Engine }

func (c engineCrediter) Credit(amount types.Money, kind wallet.Kind, description string, at time.Time) (wallet.Transaction, bool) {
	return c.e.credit(amount, kind, description, at)
}

// settle confirms every matured deposit.
func (e *Engine) settle(now time.Time) {
	for _, d := range e.deposits.ResolvePending(now, engineCrediter{e}) {
		e.logger.Info("deposit completed",
			"invoice_id", d.InvoiceID.String(),
			"amount", d.Amount.String(),
			"currency", string(d.Currency),
		)
		e.enqueue(func(ctx context.Context) { e.plugins.EmitDepositCompleted(ctx, &d) })
	}
}
