package catalog

import (
	"sort"
	"strings"

	"github.com/xraph/sandbox/proxy"
)

// Static is a Catalog over fixed in-memory tables.
type Static struct {
	services []Service
	plans    []Plan
	proxies  []ProxyOffering
}

var _ Catalog = (*Static)(nil)

// NewStatic builds a catalog from the given tables. Proxy order is
// significant: purchases take the first matching offering.
func NewStatic(services []Service, plans []Plan, proxies []ProxyOffering) *Static {
	return &Static{services: services, plans: plans, proxies: proxies}
}

// Default returns the catalog the sandbox ships with.
func Default() *Static {
	return NewStatic(defaultServices, defaultPlans, defaultProxies)
}

// Service implements Catalog.
func (c *Static) Service(id string) (Service, bool) {
	for _, s := range c.services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// SearchServices implements Catalog.
func (c *Static) SearchServices(query string) []Service {
	if query == "" {
		return append([]Service(nil), c.services...)
	}
	q := strings.ToLower(query)
	var out []Service
	for _, s := range c.services {
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.Category), q) ||
			strings.Contains(strings.ToLower(s.ID), q) {
			out = append(out, s)
		}
	}
	return out
}

// Plan implements Catalog.
func (c *Static) Plan(id string) (Plan, bool) {
	for _, p := range c.plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// SearchPlans implements Catalog.
func (c *Static) SearchPlans(filter PlanFilter) []Plan {
	var out []Plan
	for _, p := range c.plans {
		if filter.Country != "" && p.Country != filter.Country {
			continue
		}
		if filter.MinDuration > 0 && p.DurationDays < filter.MinDuration {
			continue
		}
		if filter.MinDataGB > 0 && p.DataGB < filter.MinDataGB {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price.Amount < out[j].Price.Amount
	})
	return out
}

// ProxyOfferings implements Catalog.
func (c *Static) ProxyOfferings(t proxy.Type, country string) []ProxyOffering {
	var out []ProxyOffering
	for _, o := range c.proxies {
		if o.Type == t && o.Country == country {
			out = append(out, o)
		}
	}
	return out
}

// SearchProxyOfferings implements Catalog.
func (c *Static) SearchProxyOfferings(country string, t proxy.Type) []ProxyOffering {
	var out []ProxyOffering
	for _, o := range c.proxies {
		if country != "" && o.Country != country {
			continue
		}
		if t != "" && o.Type != t {
			continue
		}
		out = append(out, o)
	}
	return out
}
