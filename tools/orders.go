package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/xraph/sandbox/format"
	"github.com/xraph/sandbox/order"
)

type listOrdersArgs struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

func (t *Toolbox) listOrders(ctx context.Context, args listOrdersArgs) (string, error) {
	typ, ok := order.ParseType(args.Type)
	if !ok {
		return "", fail("Unknown order type: %s. Use sms, esim or proxy.", args.Type)
	}
	status := args.Status
	if status == "" {
		status = "all"
	}

	orders, err := t.engine.ListOrders(ctx, order.ListOpts{Type: typ, Status: status})
	if err != nil {
		return "", err
	}
	if len(orders) == 0 {
		return "No orders found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d order(s):\n", len(orders))
	for _, o := range orders {
		fmt.Fprintf(&b, "\n  [%s] %s\n", o.Type, o.Name)
		fmt.Fprintf(&b, "    ID: %s\n", o.ID)
		fmt.Fprintf(&b, "    Status: %s  |  Price: %s\n", o.Status, o.Price)
		fmt.Fprintf(&b, "    %s\n", o.Details)
		fmt.Fprintf(&b, "    Created: %s\n", format.Timestamp(o.CreatedAt))
	}
	return b.String(), nil
}
