package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/registry"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

// purchase describes one buy: what it costs, how its record is minted and
// where the record lives afterwards.
type purchase[R registry.Record] struct {
	kind        order.Type
	txKind      wallet.Kind
	cost        types.Money
	description string
	registry    *registry.Registry[R]
	mint        func(now time.Time) R
	project     func(rec R, now time.Time) order.Order
}

// buy charges the wallet and inserts the minted record. A refused debit
// leaves neither a transaction nor a record behind. The caller holds e.mu.
func buy[R registry.Record](e *Engine, p purchase[R], now time.Time) (R, error) {
	var zero R

	if p.cost.IsNegative() {
		return zero, invalid("price", "computed price %s is negative", p.cost)
	}

	rec := p.mint(now)
	if p.registry.Has(rec.RecordID()) {
		return zero, fmt.Errorf("sandbox: mint %s %s: %w", p.kind, rec.RecordID(), registry.ErrDuplicate)
	}

	available := e.ledger.Balance()
	if _, ok := e.debit(p.cost, p.txKind, p.description, now); !ok {
		e.logger.Info("purchase rejected",
			"order_type", string(p.kind),
			"required", p.cost.String(),
			"available", available.String(),
		)
		e.enqueue(func(ctx context.Context) {
			e.plugins.EmitPurchaseRejected(ctx, p.kind, p.cost, available)
		})
		return zero, &BalanceError{Required: p.cost, Available: available}
	}

	if err := p.registry.Insert(rec); err != nil {
		return zero, fmt.Errorf("sandbox: insert %s: %w", p.kind, err)
	}

	o := p.project(rec, now)
	e.logger.Info("order created",
		"order_type", string(o.Type),
		"order_id", o.ID,
		"price", o.Price.String(),
	)
	e.enqueue(func(ctx context.Context) { e.plugins.EmitOrderCreated(ctx, &o) })

	return rec, nil
}
