package catalog

import (
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/types"
)

var defaultServices = []Service{
	{ID: "whatsapp", Name: "WhatsApp", Category: "messaging", Price: types.USD(250), EstimatedDelivery: "1-3 minutes"},
	{ID: "telegram", Name: "Telegram", Category: "messaging", Price: types.USD(150), EstimatedDelivery: "1-2 minutes"},
	{ID: "google", Name: "Google / Gmail", Category: "email", Price: types.USD(180), EstimatedDelivery: "1-3 minutes"},
	{ID: "twitter", Name: "Twitter / X", Category: "social", Price: types.USD(200), EstimatedDelivery: "1-5 minutes"},
	{ID: "instagram", Name: "Instagram", Category: "social", Price: types.USD(220), EstimatedDelivery: "1-3 minutes"},
	{ID: "discord", Name: "Discord", Category: "messaging", Price: types.USD(120), EstimatedDelivery: "1-2 minutes"},
	{ID: "tiktok", Name: "TikTok", Category: "social", Price: types.USD(250), EstimatedDelivery: "1-5 minutes"},
	{ID: "facebook", Name: "Facebook", Category: "social", Price: types.USD(180), EstimatedDelivery: "1-3 minutes"},
	{ID: "uber", Name: "Uber", Category: "ride-hailing", Price: types.USD(200), EstimatedDelivery: "1-3 minutes"},
	{ID: "openai", Name: "OpenAI / ChatGPT", Category: "ai", Price: types.USD(300), EstimatedDelivery: "1-3 minutes"},
}

func plan(id, name, country, region string, data float64, days int, price int64, carrier, apn, routing string, topup int64) Plan {
	return Plan{
		ID:             id,
		Name:           name,
		Country:        country,
		Region:         region,
		DataGB:         data,
		DurationDays:   days,
		Price:          types.USD(price),
		Carrier:        carrier,
		APN:            apn,
		Routing:        routing,
		TopupAvailable: topup > 0,
		TopupPrice:     types.USD(topup),
	}
}

var defaultPlans = []Plan{
	plan("esim_jp_3g_7d", "Japan 3GB / 7 Days", "JP", "Asia", 3, 7, 450, "IIJmio", "iijmio.jp", "Tokyo, Japan", 180),
	plan("esim_jp_5g_14d", "Japan 5GB / 14 Days", "JP", "Asia", 5, 14, 750, "IIJmio", "iijmio.jp", "Tokyo, Japan", 180),
	plan("esim_jp_10g_30d", "Japan 10GB / 30 Days", "JP", "Asia", 10, 30, 1200, "IIJmio", "iijmio.jp", "Tokyo, Japan", 150),
	plan("esim_jp_unl_30d", "Japan Unlimited / 30 Days", "JP", "Asia", 999, 30, 2200, "SoftBank", "plus.4g", "Tokyo, Japan", 0),
	plan("esim_us_5g_7d", "USA 5GB / 7 Days", "US", "North America", 5, 7, 600, "T-Mobile", "fast.t-mobile.com", "Los Angeles, US", 150),
	plan("esim_us_10g_30d", "USA 10GB / 30 Days", "US", "North America", 10, 30, 1100, "T-Mobile", "fast.t-mobile.com", "Los Angeles, US", 130),
	plan("esim_us_20g_30d", "USA 20GB / 30 Days", "US", "North America", 20, 30, 1800, "T-Mobile", "fast.t-mobile.com", "Los Angeles, US", 110),
	plan("esim_gb_5g_7d", "UK 5GB / 7 Days", "GB", "Europe", 5, 7, 550, "Three", "three.co.uk", "London, UK", 140),
	plan("esim_gb_10g_30d", "UK 10GB / 30 Days", "GB", "Europe", 10, 30, 1000, "Three", "three.co.uk", "London, UK", 120),
	plan("esim_de_5g_7d", "Germany 5GB / 7 Days", "DE", "Europe", 5, 7, 500, "O2", "internet", "Frankfurt, DE", 130),
	plan("esim_de_10g_30d", "Germany 10GB / 30 Days", "DE", "Europe", 10, 30, 900, "O2", "internet", "Frankfurt, DE", 110),
	plan("esim_th_5g_7d", "Thailand 5GB / 7 Days", "TH", "Asia", 5, 7, 350, "AIS", "internet", "Bangkok, TH", 90),
	plan("esim_th_15g_30d", "Thailand 15GB / 30 Days", "TH", "Asia", 15, 30, 800, "AIS", "internet", "Bangkok, TH", 70),
	plan("esim_tr_5g_7d", "Turkey 5GB / 7 Days", "TR", "Europe", 5, 7, 400, "Turkcell", "internet", "Istanbul, TR", 100),
	plan("esim_br_5g_7d", "Brazil 5GB / 7 Days", "BR", "South America", 5, 7, 550, "Claro", "claro.com.br", "Sao Paulo, BR", 130),
}

func perGB(country, carrier string, cents int64, network string) ProxyOffering {
	return ProxyOffering{Country: country, Carrier: carrier, Type: proxy.TypeGB, Network: network, PricePerGB: types.USD(cents)}
}

func dedicated(country, carrier string, cents int64, bandwidth float64, network string) ProxyOffering {
	return ProxyOffering{Country: country, Carrier: carrier, Type: proxy.TypeDedicated, Network: network, PricePerMonth: types.USD(cents), BandwidthGB: bandwidth}
}

var defaultProxies = []ProxyOffering{
	perGB("US", "Verizon", 299, "5G"),
	perGB("US", "T-Mobile", 249, "5G"),
	perGB("US", "AT&T", 279, "5G"),
	dedicated("US", "Verizon", 8000, 30, "5G"),
	dedicated("US", "T-Mobile", 7000, 30, "5G"),
	perGB("GB", "Vodafone", 299, "5G"),
	perGB("GB", "EE", 279, "5G"),
	dedicated("GB", "Vodafone", 8500, 30, "5G"),
	perGB("DE", "Telekom", 329, "5G"),
	dedicated("DE", "Telekom", 9000, 25, "5G"),
	perGB("NL", "KPN", 279, "4G LTE"),
	dedicated("NL", "KPN", 7500, 25, "4G LTE"),
	perGB("BR", "Claro", 199, "4G LTE"),
	perGB("IN", "Jio", 99, "5G"),
	perGB("JP", "NTT Docomo", 349, "5G"),
	dedicated("JP", "NTT Docomo", 10000, 25, "5G"),
}
