package sandbox

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/xraph/sandbox/catalog"
	"github.com/xraph/sandbox/id"
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/wallet"
)

// rotateAttempts bounds the search for an exit IP different from the
// current one.
const rotateAttempts = 32

// RotateResult is the outcome of rotating a proxy's exit IP.
type RotateResult struct {
	Lease *proxy.Lease `json:"lease"`
	OldIP string       `json:"old_ip"`
}

// StatusResult is a lease as read at one instant.
type StatusResult struct {
	Lease *proxy.Lease `json:"lease"`

	// Uptime is the lease age at read time.
	Uptime time.Duration `json:"uptime"`
}

// SearchProxies lists proxy offerings filtered by country and type. Empty
// values match everything.
func (e *Engine) SearchProxies(_ context.Context, country string, t proxy.Type) ([]catalog.ProxyOffering, error) {
	if country != "" {
		cc, err := normalizeCountry(country)
		if err != nil {
			return nil, err
		}
		country = cc
	}
	if t != "" && !t.Valid() {
		return nil, invalid("type", "unknown proxy type %q, use gb or dedicated", t)
	}
	return e.catalog.SearchProxyOfferings(country, t), nil
}

// ProxyPricing returns every offering of type t in country.
func (e *Engine) ProxyPricing(_ context.Context, t proxy.Type, country string) ([]catalog.ProxyOffering, error) {
	offerings, _, err := e.proxyOfferings(t, country)
	return offerings, err
}

// PurchaseProxy leases qty units of the first offering of type t in
// country. qty is GB for pay-per-GB and months for dedicated proxies.
func (e *Engine) PurchaseProxy(ctx context.Context, t proxy.Type, country string, qty float64) (*proxy.Lease, error) {
	if !(qty > 0) || math.IsInf(qty, 1) {
		return nil, invalid("quantity", "must be a positive number")
	}
	if qty > proxy.MaxQuantity {
		return nil, invalid("quantity", "must not exceed %v per purchase", proxy.MaxQuantity)
	}
	offerings, cc, err := e.proxyOfferings(t, country)
	if err != nil {
		return nil, err
	}
	offer := offerings[0]
	terms := offer.Terms(qty)
	if !terms.Price.IsPositive() {
		return nil, invalid("quantity", "%v is too small, the minimum charge is $0.01", qty)
	}

	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.settle(now)

	l, err := buy(e, purchase[*proxy.Lease]{
		kind:        order.TypeProxy,
		txKind:      wallet.KindProxyPurchase,
		cost:        terms.Price,
		description: fmt.Sprintf("Proxy: %s %s (%s)", t, offer.Carrier, cc),
		registry:    e.proxies,
		mint: func(now time.Time) *proxy.Lease {
			return proxy.NewLease(terms, e.gen.ProxyCredentials(cc), e.gen.IP(), now)
		},
		project: func(l *proxy.Lease, _ time.Time) order.Order { return order.FromLease(l) },
	}, now)
	if err != nil {
		return nil, err
	}

	return l.Clone(), nil
}

// ProxyStatus returns a lease with bandwidth and expiry recomputed.
func (e *Engine) ProxyStatus(ctx context.Context, proxyID string) (*StatusResult, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	l, err := e.lookupLease(proxyID, now)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("proxy status read", "proxy_id", proxyID, "bandwidth_used_gb", l.BandwidthUsed)
	return &StatusResult{Lease: l.Clone(), Uptime: l.Uptime(now)}, nil
}

// RotateProxy assigns an active lease a new exit IP.
func (e *Engine) RotateProxy(ctx context.Context, proxyID string) (*RotateResult, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	l, err := e.lookupLease(proxyID, e.clock.Now())
	if err != nil {
		return nil, err
	}
	if l.Status != proxy.StatusActive {
		return nil, &StateError{Resource: "proxy", ID: proxyID, Status: string(l.Status), Err: ErrProxyNotActive}
	}

	next := ""
	for range rotateAttempts {
		if ip := e.gen.IP(); ip != l.IP {
			next = ip
			break
		}
	}
	if next == "" {
		return nil, fmt.Errorf("%w: %s", ErrIPExhausted, proxyID)
	}
	old := l.Rotate(next)

	snapshot := l.Clone()
	e.logger.Info("proxy rotated", "proxy_id", proxyID, "old_ip", old, "new_ip", next)
	e.enqueue(func(ctx context.Context) { e.plugins.EmitProxyRotated(ctx, snapshot, old) })

	return &RotateResult{Lease: l.Clone(), OldIP: old}, nil
}

// proxyOfferings validates the purchase key and resolves the matching
// offerings in catalog order, returning the normalized country.
func (e *Engine) proxyOfferings(t proxy.Type, country string) ([]catalog.ProxyOffering, string, error) {
	if !t.Valid() {
		return nil, "", invalid("type", "unknown proxy type %q, use gb or dedicated", t)
	}
	cc, err := normalizeCountry(country)
	if err != nil {
		return nil, "", err
	}
	offerings := e.catalog.ProxyOfferings(t, cc)
	if len(offerings) == 0 {
		return nil, cc, fmt.Errorf("%w: %s in %s", ErrProxyOfferingNotFound, t, cc)
	}
	return offerings, cc, nil
}

func (e *Engine) lookupLease(proxyID string, now time.Time) (*proxy.Lease, error) {
	if _, err := id.ParseProxyID(proxyID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProxyNotFound, proxyID)
	}
	l, ok := e.proxies.Lookup(proxyID, now)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProxyNotFound, proxyID)
	}
	return l, nil
}
