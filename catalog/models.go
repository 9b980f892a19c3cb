// Package catalog provides the read-only offerings the marketplace sells:
// SMS verification services, eSIM data plans and mobile proxy options.
package catalog

import (
	"github.com/xraph/sandbox/esim"
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/types"
)

// Service is an SMS verification target.
type Service struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Category          string      `json:"category"`
	Price             types.Money `json:"price"`
	EstimatedDelivery string      `json:"estimated_delivery"`
}

// Plan is an eSIM data plan. DataGB of 999 means unlimited.
type Plan struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Country        string      `json:"country"`
	Region         string      `json:"region"`
	DataGB         float64     `json:"data_gb"`
	DurationDays   int         `json:"duration_days"`
	Price          types.Money `json:"price"`
	Carrier        string      `json:"carrier"`
	APN            string      `json:"apn"`
	Routing        string      `json:"routing"`
	TopupAvailable bool        `json:"topup_available"`
	TopupPrice     types.Money `json:"topup_price"` // per GB
}

// Order returns the subset of the plan an eSIM order is minted from.
func (p Plan) Order() esim.Plan {
	return esim.Plan{
		ID:           p.ID,
		Name:         p.Name,
		Country:      p.Country,
		DataGB:       p.DataGB,
		DurationDays: p.DurationDays,
		APN:          p.APN,
		Price:        p.Price,
	}
}

// ProxyOffering is one carrier's proxy product in a country.
// Pay-per-GB offerings set PricePerGB; dedicated offerings set
// PricePerMonth and BandwidthGB.
type ProxyOffering struct {
	Country       string      `json:"country"`
	Carrier       string      `json:"carrier"`
	Type          proxy.Type  `json:"type"`
	Network       string      `json:"network"`
	PricePerGB    types.Money `json:"price_per_gb,omitzero"`
	PricePerMonth types.Money `json:"price_per_month,omitzero"`
	BandwidthGB   float64     `json:"bandwidth_gb,omitempty"`
}

// UnitPrice returns the price of one unit: a GB or a month.
func (o ProxyOffering) UnitPrice() types.Money {
	if o.Type == proxy.TypeDedicated {
		return o.PricePerMonth
	}
	return o.PricePerGB
}

// Terms computes the purchase conditions for qty units of the offering.
func (o ProxyOffering) Terms(qty float64) proxy.Terms {
	bandwidth := o.BandwidthGB
	if o.Type == proxy.TypeGB {
		bandwidth = qty
	}
	return proxy.Terms{
		Type:           o.Type,
		Country:        o.Country,
		Carrier:        o.Carrier,
		Network:        o.Network,
		Quantity:       qty,
		BandwidthTotal: bandwidth,
		Price:          o.UnitPrice().MulQuantity(qty),
	}
}

// PlanFilter narrows a plan search. Zero values do not filter.
type PlanFilter struct {
	Country     string
	MinDuration int
	MinDataGB   float64
}

// Catalog resolves offerings by key or filter.
type Catalog interface {
	// Service returns the SMS service with the given ID.
	Service(id string) (Service, bool)

	// SearchServices matches query case-insensitively against service
	// name, category and ID. An empty query returns every service.
	SearchServices(query string) []Service

	// Plan returns the eSIM plan with the given ID.
	Plan(id string) (Plan, bool)

	// SearchPlans returns plans passing filter, cheapest first.
	SearchPlans(filter PlanFilter) []Plan

	// ProxyOfferings returns offerings of type t in country, in catalog
	// order.
	ProxyOfferings(t proxy.Type, country string) []ProxyOffering

	// SearchProxyOfferings filters by country and type; empty values
	// match everything.
	SearchProxyOfferings(country string, t proxy.Type) []ProxyOffering
}
