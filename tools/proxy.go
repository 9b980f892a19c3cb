package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/sandbox"
	"github.com/xraph/sandbox/catalog"
	"github.com/xraph/sandbox/format"
	"github.com/xraph/sandbox/proxy"
)

type proxySearchArgs struct {
	Country string `json:"country"`
	Type    string `json:"type"`
}

type proxyPricingArgs struct {
	Type    string `json:"type"`
	Country string `json:"country"`
}

type proxyPurchaseArgs struct {
	Type     string   `json:"type"`
	Country  string   `json:"country"`
	Quantity *float64 `json:"quantity"`
}

type proxyArgs struct {
	ProxyID string `json:"proxyId"`
}

func (t *Toolbox) searchProxies(ctx context.Context, args proxySearchArgs) (string, error) {
	offers, err := t.engine.SearchProxies(ctx, args.Country, proxy.Type(args.Type))
	if err != nil {
		return "", err
	}
	if len(offers) == 0 {
		return "", fail("No proxy options found matching your criteria. Try a different country or type.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d proxy option(s):\n\n", len(offers))
	for _, o := range offers {
		fmt.Fprintf(&b, "  %s - %s (%s)\n", o.Carrier, o.Country, o.Type)
		fmt.Fprintf(&b, "    Network: %s\n", o.Network)
		if o.Type == proxy.TypeGB {
			fmt.Fprintf(&b, "    Price:   %s/GB\n", o.PricePerGB)
		} else {
			fmt.Fprintf(&b, "    Price:   %s/month\n", o.PricePerMonth)
			fmt.Fprintf(&b, "    Included bandwidth: %s\n", format.GB(o.BandwidthGB))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (t *Toolbox) getProxyPricing(ctx context.Context, args proxyPricingArgs) (string, error) {
	typ := proxy.Type(args.Type)
	offers, err := t.engine.ProxyPricing(ctx, typ, args.Country)
	if err != nil {
		return "", offeringError(err, typ, args.Country)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s proxy pricing - %s:\n\n", typ.Label(), offers[0].Country)
	for _, o := range offers {
		fmt.Fprintf(&b, "  %s (%s)\n", o.Carrier, o.Network)
		if o.Type == proxy.TypeGB {
			fmt.Fprintf(&b, "    Rate: %s/GB\n", o.PricePerGB)
		} else {
			fmt.Fprintf(&b, "    Rate:      %s/month\n", o.PricePerMonth)
			fmt.Fprintf(&b, "    Bandwidth: %s included\n", format.GB(o.BandwidthGB))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (t *Toolbox) purchaseProxy(ctx context.Context, args proxyPurchaseArgs) (string, error) {
	qty := 1.0
	if args.Quantity != nil {
		qty = *args.Quantity
	}

	typ := proxy.Type(args.Type)
	l, err := t.engine.PurchaseProxy(ctx, typ, args.Country, qty)
	if err != nil {
		return "", offeringError(err, typ, args.Country)
	}

	c := l.Credentials
	return lines(
		"Proxy purchased!",
		"",
		"  Proxy ID:    "+l.ID.String(),
		"  Type:        "+l.Type.Label(),
		fmt.Sprintf("  Carrier:     %s (%s)", l.Carrier, l.Network),
		"  Country:     "+l.Country,
		"  Cost:        "+l.Price.String(),
		"  Bandwidth:   "+format.GB(l.BandwidthTotal),
		"  Expires:     "+format.TimeRemaining(l.CreatedAt, l.Expiry),
		"",
		"  Connection:",
		"    Host:      "+c.Host,
		fmt.Sprintf("    Port:      %d", c.Port),
		"    Username:  "+c.Username,
		"    Password:  "+c.Password,
		"    String:    "+c.ConnectionString(),
		"    Current IP: "+l.IP,
		"",
		"Use get_proxy_status to check bandwidth usage, or rotate_proxy to get a new IP.",
	), nil
}

func (t *Toolbox) getProxyStatus(ctx context.Context, args proxyArgs) (string, error) {
	res, err := t.engine.ProxyStatus(ctx, args.ProxyID)
	if err != nil {
		return "", proxyError(err, args.ProxyID)
	}
	l := res.Lease

	return lines(
		fmt.Sprintf("Proxy Status - %s (%s)", l.Carrier, l.Country),
		"",
		"  Proxy ID:           "+l.ID.String(),
		"  Status:             "+string(l.Status),
		"  Type:               "+l.Type.Label(),
		"  Location:           "+l.Country,
		"  Current IP:         "+l.IP,
		"  Bandwidth used:     "+format.GB(l.BandwidthUsed),
		"  Bandwidth remaining: "+format.GB(l.Remaining()),
		"  Bandwidth total:    "+format.GB(l.BandwidthTotal),
		"  Uptime:             "+format.Uptime(res.Uptime),
	), nil
}

func (t *Toolbox) rotateProxy(ctx context.Context, args proxyArgs) (string, error) {
	res, err := t.engine.RotateProxy(ctx, args.ProxyID)
	if err != nil {
		var se *sandbox.StateError
		switch {
		case errors.As(err, &se):
			return "", fail("Proxy %s is %s. Only active proxies can be rotated.", args.ProxyID, se.Status)
		case errors.Is(err, sandbox.ErrIPExhausted):
			return "", fail("No new IP available for proxy %s. Try again shortly.", args.ProxyID)
		}
		return "", proxyError(err, args.ProxyID)
	}

	return lines(
		"IP rotated!",
		"",
		"  Proxy ID: "+res.Lease.ID.String(),
		"  Old IP:   "+res.OldIP,
		"  New IP:   "+res.Lease.IP,
	), nil
}

func offeringError(err error, typ proxy.Type, country string) error {
	if errors.Is(err, sandbox.ErrProxyOfferingNotFound) {
		cc, _ := catalog.NormalizeCountry(country)
		return fail("No %s proxies available in %s. Use search_proxies to find available options.", typ, cc)
	}
	return err
}

func proxyError(err error, proxyID string) error {
	if sandbox.IsNotFound(err) {
		return fail("Proxy not found: %s", proxyID)
	}
	return err
}
