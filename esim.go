package sandbox

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/xraph/sandbox/catalog"
	"github.com/xraph/sandbox/esim"
	"github.com/xraph/sandbox/format"
	"github.com/xraph/sandbox/id"
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

// TopUpResult is the outcome of adding data to an eSIM order.
type TopUpResult struct {
	Order   *esim.Order `json:"order"`
	Added   float64     `json:"added_gb"`
	Cost    types.Money `json:"cost"`
	Balance types.Money `json:"balance"`
}

// UsageResult is an eSIM order as read at one instant.
type UsageResult struct {
	Order *esim.Order `json:"order"`

	// ReadAt is the clock time usage and expiry were computed at.
	ReadAt time.Time `json:"read_at"`
}

// SearchPlans lists eSIM plans passing filter, cheapest first. A non-empty
// country must be a supported ISO 3166-1 alpha-2 code.
func (e *Engine) SearchPlans(_ context.Context, filter catalog.PlanFilter) ([]catalog.Plan, error) {
	if filter.Country != "" {
		cc, err := normalizeCountry(filter.Country)
		if err != nil {
			return nil, err
		}
		filter.Country = cc
	}
	if filter.MinDuration < 0 {
		return nil, invalid("min_duration", "must not be negative")
	}
	if filter.MinDataGB < 0 {
		return nil, invalid("min_data", "must not be negative")
	}
	return e.catalog.SearchPlans(filter), nil
}

// Plan returns the catalog entry of one eSIM plan.
func (e *Engine) Plan(_ context.Context, planID string) (catalog.Plan, error) {
	p, ok := e.catalog.Plan(planID)
	if !ok {
		return catalog.Plan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	return p, nil
}

// PurchaseESIM buys planID and returns the active order.
func (e *Engine) PurchaseESIM(ctx context.Context, planID string) (*esim.Order, error) {
	p, ok := e.catalog.Plan(planID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}

	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.settle(now)

	o, err := buy(e, purchase[*esim.Order]{
		kind:        order.TypeESIM,
		txKind:      wallet.KindESIMPurchase,
		cost:        p.Price,
		description: "eSIM: " + p.Name,
		registry:    e.esims,
		mint:        func(now time.Time) *esim.Order { return esim.NewOrder(p.Order(), now) },
		project:     order.FromESIM,
	}, now)
	if err != nil {
		return nil, err
	}

	return o.Clone(), nil
}

// ESIMUsage returns an order with usage and expiry recomputed.
func (e *Engine) ESIMUsage(ctx context.Context, orderID string) (*UsageResult, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	o, err := e.lookupOrder(orderID, now)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("esim usage read", "order_id", orderID, "data_used_gb", o.DataUsed)
	return &UsageResult{Order: o.Clone(), ReadAt: now}, nil
}

// TopUpESIM adds gb of data to an active order whose plan allows top-ups,
// charging the plan's per-GB top-up price.
func (e *Engine) TopUpESIM(ctx context.Context, orderID string, gb float64) (*TopUpResult, error) {
	if !(gb > 0) || math.IsInf(gb, 1) {
		return nil, invalid("data_amount", "must be a positive number of GB")
	}
	if gb > esim.MaxTopupGB {
		return nil, invalid("data_amount", "must not exceed %v GB per top-up", esim.MaxTopupGB)
	}

	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.settle(now)

	o, err := e.lookupOrder(orderID, now)
	if err != nil {
		return nil, err
	}
	if o.Status != esim.StatusActive {
		return nil, &StateError{Resource: "order", ID: orderID, Status: string(o.Status), Err: ErrOrderNotActive}
	}

	p, ok := e.catalog.Plan(o.PlanID)
	if !ok || !p.TopupAvailable {
		return nil, fmt.Errorf("%w: %s", ErrTopupUnavailable, o.PlanName)
	}

	cost := p.TopupPrice.MulQuantity(gb)
	if !cost.IsPositive() {
		return nil, invalid("data_amount", "%v GB is too small, the minimum charge is $0.01", gb)
	}
	available := e.ledger.Balance()
	if _, ok := e.debit(cost, wallet.KindTopup, fmt.Sprintf("eSIM top-up: +%s for %s", format.GB(gb), o.PlanName), now); !ok {
		e.enqueue(func(ctx context.Context) {
			e.plugins.EmitPurchaseRejected(ctx, order.TypeESIM, cost, available)
		})
		return nil, &BalanceError{Required: cost, Available: available}
	}
	o.AddData(gb)

	snapshot := o.Clone()
	e.logger.Info("esim topped up",
		"order_id", orderID,
		"added_gb", gb,
		"cost", cost.String(),
	)
	e.enqueue(func(ctx context.Context) { e.plugins.EmitESIMToppedUp(ctx, snapshot, gb, cost) })

	return &TopUpResult{
		Order:   o.Clone(),
		Added:   gb,
		Cost:    cost,
		Balance: e.ledger.Balance(),
	}, nil
}

func (e *Engine) lookupOrder(orderID string, now time.Time) (*esim.Order, error) {
	if _, err := id.ParseOrderID(orderID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	o, ok := e.esims.Lookup(orderID, now)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return o, nil
}

// normalizeCountry validates code against the supported country list.
func normalizeCountry(code string) (string, error) {
	cc, ok := catalog.NormalizeCountry(code)
	if !ok {
		return "", invalid("country", "Invalid country code: %s. Use ISO 3166-1 alpha-2 (e.g., US, GB, JP).", code)
	}
	return cc, nil
}
