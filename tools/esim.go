package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xraph/sandbox"
	"github.com/xraph/sandbox/catalog"
	"github.com/xraph/sandbox/esim"
	"github.com/xraph/sandbox/format"
)

type planSearchArgs struct {
	Country    string   `json:"country"`
	Duration   *float64 `json:"duration"`
	DataAmount *float64 `json:"dataAmount"`
}

type planArgs struct {
	PlanID string `json:"planId"`
}

type orderArgs struct {
	OrderID string `json:"orderId"`
}

type topUpArgs struct {
	OrderID    string  `json:"orderId"`
	DataAmount float64 `json:"dataAmount"`
}

func (t *Toolbox) searchESIMPlans(ctx context.Context, args planSearchArgs) (string, error) {
	filter := catalog.PlanFilter{Country: args.Country}
	if args.Duration != nil {
		filter.MinDuration = int(math.Ceil(*args.Duration))
	}
	if args.DataAmount != nil {
		filter.MinDataGB = *args.DataAmount
	}

	plans, err := t.engine.SearchPlans(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(plans) == 0 {
		return "", fail("No eSIM plans found matching your criteria. Try a different country or adjust filters.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d eSIM plan(s) for %s:\n\n", len(plans), plans[0].Country)
	for _, p := range plans {
		fmt.Fprintf(&b, "  %s (%s)\n", p.Name, p.ID)
		fmt.Fprintf(&b, "    Data:     %s\n", format.Data(p.DataGB))
		fmt.Fprintf(&b, "    Duration: %d days\n", p.DurationDays)
		fmt.Fprintf(&b, "    Price:    %s\n", p.Price)
		fmt.Fprintf(&b, "    Carrier:  %s\n", p.Carrier)
		fmt.Fprintf(&b, "    Routing:  %s\n", p.Routing)
		topup := "No"
		if p.TopupAvailable {
			topup = fmt.Sprintf("Yes (%s/GB)", p.TopupPrice)
		}
		fmt.Fprintf(&b, "    Top-up:   %s\n\n", topup)
	}
	return b.String(), nil
}

func (t *Toolbox) getESIMPlanDetails(ctx context.Context, args planArgs) (string, error) {
	p, err := t.engine.Plan(ctx, args.PlanID)
	if err != nil {
		return "", planError(err, args.PlanID)
	}

	topup := "Not available"
	if p.TopupAvailable {
		topup = fmt.Sprintf("Available at %s/GB", p.TopupPrice)
	}
	return lines(
		p.Name,
		"",
		"  Plan ID:   "+p.ID,
		"  Country:   "+p.Country,
		"  Region:    "+p.Region,
		"  Data:      "+format.Data(p.DataGB),
		fmt.Sprintf("  Duration:  %d days", p.DurationDays),
		"  Price:     "+p.Price.String(),
		"  Carrier:   "+p.Carrier,
		"  APN:       "+p.APN,
		"  Routing:   "+p.Routing,
		"  Top-up:    "+topup,
	), nil
}

func (t *Toolbox) purchaseESIM(ctx context.Context, args planArgs) (string, error) {
	o, err := t.engine.PurchaseESIM(ctx, args.PlanID)
	if err != nil {
		return "", planError(err, args.PlanID)
	}
	p, err := t.engine.Plan(ctx, o.PlanID)
	if err != nil {
		return "", err
	}

	return lines(
		"eSIM purchased!",
		"",
		"  Order ID:  "+o.ID.String(),
		"  Plan:      "+o.PlanName,
		"  Data:      "+format.Data(o.DataTotal),
		fmt.Sprintf("  Duration:  %d days", p.DurationDays),
		"  Cost:      "+o.Price.String(),
		"  Carrier:   "+p.Carrier,
		"  Routing:   "+p.Routing,
		"",
		"  QR Code:   "+o.QRURL,
		"  APN:       "+o.APN,
		"",
		"Setup steps:",
		"  1. Scan the QR code with your device camera",
		fmt.Sprintf("  2. Set APN to %q", o.APN),
		"  3. Enable the eSIM line in Settings",
		"",
		"Use get_esim_usage with the order ID to check data consumption.",
	), nil
}

func (t *Toolbox) getESIMUsage(ctx context.Context, args orderArgs) (string, error) {
	res, err := t.engine.ESIMUsage(ctx, args.OrderID)
	if err != nil {
		return "", orderError(err, args.OrderID)
	}

	o, now := res.Order, res.ReadAt
	remaining := format.GB(o.Remaining())
	if o.Unlimited() {
		remaining = "Unlimited"
	}
	daysLeft := fmt.Sprintf("%d day(s)", o.DaysLeft(now))
	expires := format.TimeRemaining(now, o.Expiry)
	if o.Status == esim.StatusExpired {
		daysLeft, expires = "Expired", "Expired"
	}

	return lines(
		"eSIM Usage - "+o.PlanName,
		"",
		"  Order ID:       "+o.ID.String(),
		"  Status:         "+string(o.Status),
		"  Data used:      "+format.GB(o.DataUsed),
		"  Data remaining: "+remaining,
		"  Data total:     "+format.Data(o.DataTotal),
		"  Days left:      "+daysLeft,
		"  Expires:        "+expires,
	), nil
}

func (t *Toolbox) topUpESIM(ctx context.Context, args topUpArgs) (string, error) {
	res, err := t.engine.TopUpESIM(ctx, args.OrderID, args.DataAmount)
	if err != nil {
		var se *sandbox.StateError
		switch {
		case errors.As(err, &se):
			return "", fail("Order %s is %s. Only active orders can be topped up.", args.OrderID, se.Status)
		case errors.Is(err, sandbox.ErrTopupUnavailable):
			name := args.OrderID
			if u, lookupErr := t.engine.ESIMUsage(ctx, args.OrderID); lookupErr == nil {
				name = u.Order.PlanName
			}
			return "", fail("Top-up is not available for this plan (%s).", name)
		}
		return "", orderError(err, args.OrderID)
	}

	return lines(
		"Top-up successful!",
		"",
		"  Order:     "+res.Order.ID.String(),
		"  Added:     "+format.GB(res.Added),
		"  Cost:      "+res.Cost.String(),
		"  New total: "+format.Data(res.Order.DataTotal),
		"  Balance:   "+res.Balance.String(),
	), nil
}

func planError(err error, planID string) error {
	if sandbox.IsNotFound(err) {
		return fail("Plan not found: %s. Use search_esim_plans to browse available plans.", planID)
	}
	return err
}

func orderError(err error, orderID string) error {
	if sandbox.IsNotFound(err) {
		return fail("Order not found: %s", orderID)
	}
	return err
}
