package sandbox

import (
	"context"

	"github.com/xraph/sandbox/order"
)

// ListOrders returns every purchased resource passing opts, newest first.
// Lazy expiry is applied to each record before it is filtered.
func (e *Engine) ListOrders(ctx context.Context, opts order.ListOpts) ([]order.Order, error) {
	switch opts.Type {
	case "", order.TypeSMS, order.TypeESIM, order.TypeProxy:
	default:
		return nil, invalid("type", "unknown order type %q, use sms, esim or proxy", opts.Type)
	}
	if !order.ValidStatus(opts.Status) {
		return nil, invalid("status", "unknown status %q, use one of %v or all", opts.Status, order.Statuses)
	}

	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	var out []order.Order
	keep := func(o order.Order) {
		if opts.Matches(o) {
			out = append(out, o)
		}
	}

	// Newest insert first within each registry, so records created at the
	// same instant list in reverse purchase order after the stable sort.
	rentals := e.rentals.All(now)
	for i := len(rentals) - 1; i >= 0; i-- {
		keep(order.FromRental(rentals[i]))
	}
	esims := e.esims.All(now)
	for i := len(esims) - 1; i >= 0; i-- {
		keep(order.FromESIM(esims[i], now))
	}
	leases := e.proxies.All(now)
	for i := len(leases) - 1; i >= 0; i-- {
		keep(order.FromLease(leases[i]))
	}

	order.Sort(out)
	e.logger.Debug("orders listed", "count", len(out), "type", string(opts.Type), "status", opts.Status)
	return out, nil
}
