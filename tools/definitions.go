package tools

type definition struct {
	name        string
	description string
	schema      string
	run         runFunc
}

const (
	countrySchema   = `{"type": "string", "description": "ISO 3166-1 alpha-2 country code (e.g., US, GB, JP)"}`
	proxyTypeSchema = `{"type": "string", "enum": ["gb", "dedicated"], "description": "Proxy type: 'gb' for pay-per-GB or 'dedicated' for fixed monthly"}`
)

func idSchema(field, description string) string {
	return `{
		"type": "object",
		"properties": {"` + field + `": {"type": "string", "minLength": 1, "description": "` + description + `"}},
		"required": ["` + field + `"]
	}`
}

func (t *Toolbox) definitions() []definition {
	return []definition{
		// Wallet
		{
			name:        "get_balance",
			description: "Get wallet balance and recent transactions. Resolves any pending deposits first.",
			schema:      `{"type": "object", "properties": {}}`,
			run:         decode(t.getBalance),
		},
		{
			name:        "deposit",
			description: "Create a crypto deposit to add funds to the wallet. Returns a mock payment link that auto-confirms in ~5 seconds.",
			schema: `{
				"type": "object",
				"properties": {
					"amount": {"type": "number", "exclusiveMinimum": 0, "description": "Amount in USD to deposit"},
					"currency": {"type": "string", "enum": ["BTC", "ETH", "SOL"], "default": "BTC", "description": "Cryptocurrency to pay with (default: BTC)"}
				},
				"required": ["amount"]
			}`,
			run: decode(t.deposit),
		},

		// SMS
		{
			name:        "search_sms_services",
			description: "Search available US non-VoIP SMS verification services. Filter by name or category.",
			schema: `{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search by service name or category (e.g., 'telegram', 'social')"}
				}
			}`,
			run: decode(t.searchSMSServices),
		},
		{
			name:        "get_sms_price",
			description: "Get pricing for a US non-VoIP SMS verification service.",
			schema:      idSchema("service", "Service ID (e.g., 'whatsapp', 'telegram')"),
			run:         decode(t.getSMSPrice),
		},
		{
			name:        "rent_number",
			description: "Rent a US non-VoIP phone number to receive an SMS verification code. Deducts cost from wallet. Number expires in 5 minutes.",
			schema:      idSchema("service", "Service ID (e.g., 'whatsapp', 'telegram')"),
			run:         decode(t.rentNumber),
		},
		{
			name:        "get_messages",
			description: "Check for incoming SMS messages on a rented number. Messages typically arrive within a few seconds.",
			schema:      idSchema("rentalId", "Rental ID returned from rent_number"),
			run:         decode(t.getMessages),
		},
		{
			name:        "cancel_rental",
			description: "Cancel an SMS rental. Refunds the full price only if no messages were received.",
			schema:      idSchema("rentalId", "Rental ID to cancel"),
			run:         decode(t.cancelRental),
		},

		// eSIM
		{
			name:        "search_esim_plans",
			description: "Search available eSIM data plans. Filter by country, minimum duration, or minimum data amount.",
			schema: `{
				"type": "object",
				"properties": {
					"country": ` + countrySchema + `,
					"duration": {"type": "number", "minimum": 1, "description": "Minimum plan duration in days"},
					"dataAmount": {"type": "number", "minimum": 1, "description": "Minimum data amount in GB"}
				},
				"required": ["country"]
			}`,
			run: decode(t.searchESIMPlans),
		},
		{
			name:        "get_esim_plan_details",
			description: "Get full details for a specific eSIM plan including APN settings and top-up availability.",
			schema:      idSchema("planId", "Plan ID (e.g., 'esim_jp_3g_7d')"),
			run:         decode(t.getESIMPlanDetails),
		},
		{
			name:        "purchase_esim",
			description: "Purchase an eSIM plan. Deducts cost from wallet and provides QR code for installation.",
			schema:      idSchema("planId", "Plan ID to purchase (e.g., 'esim_jp_3g_7d')"),
			run:         decode(t.purchaseESIM),
		},
		{
			name:        "get_esim_usage",
			description: "Check data usage and status for an eSIM order. Shows data consumed, remaining, and time left.",
			schema:      idSchema("orderId", "Order ID returned from purchase_esim"),
			run:         decode(t.getESIMUsage),
		},
		{
			name:        "topup_esim",
			description: "Add more data to an active eSIM order. Only available for plans that support top-ups.",
			schema: `{
				"type": "object",
				"properties": {
					"orderId": {"type": "string", "minLength": 1, "description": "Order ID to top up"},
					"dataAmount": {"type": "number", "exclusiveMinimum": 0, "description": "Amount of data to add in GB"}
				},
				"required": ["orderId", "dataAmount"]
			}`,
			run: decode(t.topUpESIM),
		},

		// Proxy
		{
			name:        "search_proxies",
			description: "Search available mobile proxy options. Filter by country or proxy type (gb = pay-per-GB, dedicated = fixed monthly).",
			schema: `{
				"type": "object",
				"properties": {
					"country": ` + countrySchema + `,
					"type": ` + proxyTypeSchema + `
				}
			}`,
			run: decode(t.searchProxies),
		},
		{
			name:        "get_proxy_pricing",
			description: "Get detailed pricing for a specific proxy type and country combination.",
			schema: `{
				"type": "object",
				"properties": {
					"type": ` + proxyTypeSchema + `,
					"country": ` + countrySchema + `
				},
				"required": ["type", "country"]
			}`,
			run: decode(t.getProxyPricing),
		},
		{
			name:        "purchase_proxy",
			description: "Purchase a mobile proxy. For GB type, quantity = GB to buy. For dedicated, quantity = months. Deducts cost from wallet.",
			schema: `{
				"type": "object",
				"properties": {
					"type": ` + proxyTypeSchema + `,
					"country": ` + countrySchema + `,
					"quantity": {"type": "number", "exclusiveMinimum": 0, "description": "GB for 'gb' type, months for 'dedicated' type (default: 1)"}
				},
				"required": ["type", "country"]
			}`,
			run: decode(t.purchaseProxy),
		},
		{
			name:        "get_proxy_status",
			description: "Check status, bandwidth usage, and connection details for a proxy.",
			schema:      idSchema("proxyId", "Proxy ID returned from purchase_proxy"),
			run:         decode(t.getProxyStatus),
		},
		{
			name:        "rotate_proxy",
			description: "Rotate a proxy to get a new IP address. Only works on active proxies.",
			schema:      idSchema("proxyId", "Proxy ID to rotate"),
			run:         decode(t.rotateProxy),
		},

		// Orders
		{
			name:        "list_orders",
			description: "List all orders across SMS, eSIM, and proxy services. Filter by service type or status.",
			schema: `{
				"type": "object",
				"properties": {
					"type": {"type": "string", "enum": ["sms", "esim", "proxy"], "description": "Filter by service type"},
					"status": {"type": "string", "enum": ["active", "completed", "cancelled", "expired", "all"], "description": "Filter by status (default: all)"}
				}
			}`,
			run: decode(t.listOrders),
		},
	}
}
