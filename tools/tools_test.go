package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/xraph/sandbox"
	"github.com/xraph/sandbox/clock"
	"github.com/xraph/sandbox/mock"
	"github.com/xraph/sandbox/tools"
	"github.com/xraph/sandbox/types"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newToolbox(t *testing.T, opts ...sandbox.Option) (*tools.Toolbox, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(epoch)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := []sandbox.Option{
		sandbox.WithLogger(logger),
		sandbox.WithClock(clk),
		sandbox.WithGenerator(&mock.Sequence{}),
	}
	e := sandbox.New(append(base, opts...)...)
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = e.Stop() })

	tb, err := tools.New(e, tools.WithLogger(logger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tb, clk
}

func call(t *testing.T, tb *tools.Toolbox, name, args string) tools.Result {
	t.Helper()
	res, err := tb.Call(context.Background(), name, json.RawMessage(args))
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return res
}

func mustCall(t *testing.T, tb *tools.Toolbox, name, args string) string {
	t.Helper()
	res := call(t, tb, name, args)
	if res.IsError {
		t.Fatalf("%s(%s) failed: %s", name, args, res.Text)
	}
	return res.Text
}

func mustFail(t *testing.T, tb *tools.Toolbox, name, args, want string) {
	t.Helper()
	res := call(t, tb, name, args)
	if !res.IsError {
		t.Fatalf("%s(%s) should fail, got: %s", name, args, res.Text)
	}
	if !strings.Contains(res.Text, want) {
		t.Errorf("%s(%s): got %q, want it to contain %q", name, args, res.Text, want)
	}
}

func field(t *testing.T, text, label string) string {
	t.Helper()
	m := regexp.MustCompile(regexp.QuoteMeta(label) + `:\s+(\S+)`).FindStringSubmatch(text)
	if m == nil {
		t.Fatalf("no %q in:\n%s", label, text)
	}
	return m[1]
}

func contains(t *testing.T, text string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(text, w) {
			t.Errorf("missing %q in:\n%s", w, text)
		}
	}
}

func TestList(t *testing.T) {
	tb, _ := newToolbox(t)
	want := []string{
		"get_balance", "deposit",
		"search_sms_services", "get_sms_price", "rent_number", "get_messages", "cancel_rental",
		"search_esim_plans", "get_esim_plan_details", "purchase_esim", "get_esim_usage", "topup_esim",
		"search_proxies", "get_proxy_pricing", "purchase_proxy", "get_proxy_status", "rotate_proxy",
		"list_orders",
	}
	infos := tb.List()
	if len(infos) != len(want) {
		t.Fatalf("got %d tools, want %d", len(infos), len(want))
	}
	for i, info := range infos {
		if info.Name != want[i] {
			t.Errorf("tool %d: got %s, want %s", i, info.Name, want[i])
		}
		if info.Description == "" {
			t.Errorf("%s has no description", info.Name)
		}
		if !json.Valid(info.InputSchema) {
			t.Errorf("%s schema is not valid JSON", info.Name)
		}
		if !tb.Has(info.Name) {
			t.Errorf("Has(%s) = false", info.Name)
		}
	}
}

func TestUnknownTool(t *testing.T) {
	tb, _ := newToolbox(t)
	_, err := tb.Call(context.Background(), "launch_rocket", nil)
	if !errors.Is(err, tools.ErrUnknownTool) {
		t.Errorf("got %v, want ErrUnknownTool", err)
	}
	if tb.Has("launch_rocket") {
		t.Error("Has should be false for an unknown tool")
	}
}

func TestSchemaValidation(t *testing.T) {
	tb, _ := newToolbox(t)
	tests := []struct {
		name string
		tool string
		args string
	}{
		{"missing required", "rent_number", `{}`},
		{"wrong type", "deposit", `{"amount": "ten"}`},
		{"non-positive amount", "deposit", `{"amount": 0}`},
		{"bad enum", "deposit", `{"amount": 5, "currency": "DOGE"}`},
		{"bad proxy type", "get_proxy_pricing", `{"type": "socks", "country": "US"}`},
		{"bad status", "list_orders", `{"status": "pending"}`},
		{"malformed json", "get_balance", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustFail(t, tb, tt.tool, tt.args, "Invalid arguments for "+tt.tool)
		})
	}
}

func TestEmptyArgsMeansEmptyObject(t *testing.T) {
	tb, _ := newToolbox(t)
	res, err := tb.Call(context.Background(), "get_balance", nil)
	if err != nil || res.IsError {
		t.Fatalf("get_balance: %v %+v", err, res)
	}
	contains(t, res.Text, "Balance: $50.00", "No transactions yet.")
}

// ──────────────────────────────────────────────────
// Wallet
// ──────────────────────────────────────────────────

func TestDepositFlow(t *testing.T) {
	tb, clk := newToolbox(t)

	text := mustCall(t, tb, "deposit", `{"amount": 25, "currency": "ETH"}`)
	contains(t, text, "Deposit created!", "$25.00", "ETH", "sandbox.voidmob.com/pay/inv_")

	text = mustCall(t, tb, "get_balance", `{}`)
	contains(t, text, "Balance: $50.00", "Pending deposits: 1", "$25.00 ETH")

	clk.Advance(5 * time.Second)
	contains(t, mustCall(t, tb, "get_balance", `{}`), "Balance: $50.00", "Pending deposits: 1")

	clk.Advance(time.Millisecond)
	text = mustCall(t, tb, "get_balance", `{}`)
	contains(t, text, "Balance: $75.00", "Last 1 transactions:", "+$25.00", "2026-03-01 12:00")
	if strings.Contains(text, "Pending deposits") {
		t.Errorf("deposit should be confirmed:\n%s", text)
	}
}

func TestDepositRefusesOversizedAmounts(t *testing.T) {
	tb, clk := newToolbox(t)
	mustFail(t, tb, "deposit", `{"amount": 92233720368547000}`, "must not exceed $1000000.00 per deposit")
	mustFail(t, tb, "deposit", `{"amount": 1e300}`, "Invalid deposit amount")

	clk.Advance(time.Minute)
	text := mustCall(t, tb, "get_balance", `{}`)
	contains(t, text, "Balance: $50.00", "No transactions yet.")
}

func TestDepositDefaultsToBTC(t *testing.T) {
	tb, _ := newToolbox(t)
	text := mustCall(t, tb, "deposit", `{"amount": 10}`)
	contains(t, text, "Currency: BTC")
}

// ──────────────────────────────────────────────────
// SMS
// ──────────────────────────────────────────────────

func TestSMSFlow(t *testing.T) {
	tb, clk := newToolbox(t)

	text := mustCall(t, tb, "search_sms_services", `{"query": "telegram"}`)
	contains(t, text, "Found 1 US non-VoIP SMS service(s)", "Telegram (telegram)", "$1.50")

	text = mustCall(t, tb, "get_sms_price", `{"service": "telegram"}`)
	contains(t, text, "Telegram - US (non-VoIP)", "Price:    $1.50")

	text = mustCall(t, tb, "rent_number", `{"service": "telegram"}`)
	contains(t, text, "Number rented!", "Cost:      $1.50", "Expires:   5m")
	rentalID := field(t, text, "Rental ID")

	text = mustCall(t, tb, "get_messages", `{"rentalId": "`+rentalID+`"}`)
	contains(t, text, "No messages yet", "Time since rental: 0s")

	clk.Advance(6 * time.Second)
	text = mustCall(t, tb, "get_messages", `{"rentalId": "`+rentalID+`"}`)
	contains(t, text, "Messages for", "[12:00:06] From: telegram")

	text = mustCall(t, tb, "cancel_rental", `{"rentalId": "`+rentalID+`"}`)
	contains(t, text, "cancelled", "No refund - messages were already received.")

	mustFail(t, tb, "get_messages", `{"rentalId": "`+rentalID+`"}`, "has been cancelled")
	mustFail(t, tb, "cancel_rental", `{"rentalId": "`+rentalID+`"}`, "is cancelled and cannot be cancelled")
}

func TestCancelRefundsUnusedRental(t *testing.T) {
	tb, _ := newToolbox(t)
	rentalID := field(t, mustCall(t, tb, "rent_number", `{"service": "telegram"}`), "Rental ID")

	text := mustCall(t, tb, "cancel_rental", `{"rentalId": "`+rentalID+`"}`)
	contains(t, text, "Refund: $1.50 (no messages received)", "New balance: $50.00")
}

func TestSMSRefusals(t *testing.T) {
	tb, clk := newToolbox(t, sandbox.WithOpeningBalance(types.USD(200)))

	mustFail(t, tb, "search_sms_services", `{"query": "nothing-like-this"}`, "No services found")
	mustFail(t, tb, "get_sms_price", `{"service": "myspace"}`, `Service "myspace" not found`)
	mustFail(t, tb, "rent_number", `{"service": "openai"}`, "Insufficient balance. Need $3.00 but have $2.00.")
	mustFail(t, tb, "get_messages", `{"rentalId": "sms_bogus"}`, "Rental not found: sms_bogus")

	rentalID := field(t, mustCall(t, tb, "rent_number", `{"service": "discord"}`), "Rental ID")
	clk.Advance(6 * time.Minute)
	mustFail(t, tb, "get_messages", `{"rentalId": "`+rentalID+`"}`, "has expired")
}

// ──────────────────────────────────────────────────
// eSIM
// ──────────────────────────────────────────────────

func TestESIMFlow(t *testing.T) {
	tb, clk := newToolbox(t)

	text := mustCall(t, tb, "search_esim_plans", `{"country": "jp", "duration": 10}`)
	contains(t, text, "eSIM plan(s) for JP", "Japan 5GB / 14 Days", "Top-up:   Yes ($1.80/GB)")
	if strings.Contains(text, "esim_jp_3g_7d") {
		t.Errorf("7 day plan should be filtered out:\n%s", text)
	}

	text = mustCall(t, tb, "get_esim_plan_details", `{"planId": "esim_jp_3g_7d"}`)
	contains(t, text, "Japan 3GB / 7 Days", "APN:       iijmio.jp", "Available at $1.80/GB")

	text = mustCall(t, tb, "purchase_esim", `{"planId": "esim_jp_3g_7d"}`)
	contains(t, text, "eSIM purchased!", "Cost:      $4.50", "esim/qr/", `Set APN to "iijmio.jp"`)
	orderID := field(t, text, "Order ID")

	clk.Advance(24 * time.Hour)
	text = mustCall(t, tb, "get_esim_usage", `{"orderId": "`+orderID+`"}`)
	contains(t, text, "eSIM Usage - Japan 3GB / 7 Days", "Status:         active", "Days left:      6 day(s)")

	text = mustCall(t, tb, "topup_esim", `{"orderId": "`+orderID+`", "dataAmount": 2}`)
	contains(t, text, "Top-up successful!", "Added:     2.0 GB", "Cost:      $3.60", "New total: 5", "Balance:   $41.90")
}

func TestESIMRefusals(t *testing.T) {
	tb, clk := newToolbox(t)

	mustFail(t, tb, "search_esim_plans", `{"country": "USA"}`, "Invalid country code: USA")
	mustFail(t, tb, "search_esim_plans", `{"country": "FI"}`, "No eSIM plans found")
	mustFail(t, tb, "get_esim_plan_details", `{"planId": "esim_mars"}`, "Plan not found: esim_mars")
	mustFail(t, tb, "get_esim_usage", `{"orderId": "ord_bogus"}`, "Order not found: ord_bogus")

	unl := field(t, mustCall(t, tb, "purchase_esim", `{"planId": "esim_jp_unl_30d"}`), "Order ID")
	mustFail(t, tb, "topup_esim", `{"orderId": "`+unl+`", "dataAmount": 1}`, "Top-up is not available for this plan (Japan Unlimited / 30 Days)")

	short := field(t, mustCall(t, tb, "purchase_esim", `{"planId": "esim_th_5g_7d"}`), "Order ID")
	mustFail(t, tb, "topup_esim", `{"orderId": "`+short+`", "dataAmount": 1e18}`, "must not exceed 1000 GB per top-up")
	mustFail(t, tb, "topup_esim", `{"orderId": "`+short+`", "dataAmount": 0.001}`, "the minimum charge is $0.01")
	clk.Advance(8 * 24 * time.Hour)
	mustFail(t, tb, "topup_esim", `{"orderId": "`+short+`", "dataAmount": 1}`, "is expired. Only active orders can be topped up.")
	text := mustCall(t, tb, "get_esim_usage", `{"orderId": "`+short+`"}`)
	contains(t, text, "Days left:      Expired")
}

// ──────────────────────────────────────────────────
// Proxy
// ──────────────────────────────────────────────────

func TestProxyFlow(t *testing.T) {
	tb, clk := newToolbox(t)

	text := mustCall(t, tb, "search_proxies", `{"country": "US", "type": "gb"}`)
	contains(t, text, "proxy option(s):", "Network:", "/GB")

	text = mustCall(t, tb, "get_proxy_pricing", `{"type": "dedicated", "country": "us"}`)
	contains(t, text, "Dedicated proxy pricing - US:", "/month", "included")

	text = mustCall(t, tb, "purchase_proxy", `{"type": "gb", "country": "US"}`)
	contains(t, text, "Proxy purchased!", "Type:        Pay-per-GB", "Bandwidth:   1.0 GB", "us.proxy.voidmob.com")
	proxyID := field(t, text, "Proxy ID")
	oldIP := field(t, text, "Current IP")

	clk.Advance(2 * time.Hour)
	text = mustCall(t, tb, "get_proxy_status", `{"proxyId": "`+proxyID+`"}`)
	contains(t, text, "Proxy Status - ", "Status:             active", "Bandwidth used:     102 MB", "Uptime:")

	text = mustCall(t, tb, "rotate_proxy", `{"proxyId": "`+proxyID+`"}`)
	contains(t, text, "IP rotated!", "Old IP:   "+oldIP)
	if field(t, text, "New IP") == oldIP {
		t.Errorf("rotation kept the same IP %s", oldIP)
	}
}

func TestProxyRefusals(t *testing.T) {
	tb, clk := newToolbox(t)

	mustFail(t, tb, "get_proxy_pricing", `{"type": "dedicated", "country": "in"}`, "No dedicated proxies available in IN.")
	mustFail(t, tb, "purchase_proxy", `{"type": "dedicated", "country": "IN"}`, "No dedicated proxies available in IN.")
	mustFail(t, tb, "search_proxies", `{"country": "FI"}`, "No proxy options found")
	mustFail(t, tb, "get_proxy_status", `{"proxyId": "prx_bogus"}`, "Proxy not found: prx_bogus")
	mustFail(t, tb, "purchase_proxy", `{"type": "gb", "country": "US", "quantity": 100}`, "Insufficient balance.")
	mustFail(t, tb, "purchase_proxy", `{"type": "dedicated", "country": "US", "quantity": 4000}`, "must not exceed 1000 per purchase")
	mustFail(t, tb, "purchase_proxy", `{"type": "gb", "country": "US", "quantity": 0.001}`, "the minimum charge is $0.01")

	proxyID := field(t, mustCall(t, tb, "purchase_proxy", `{"type": "gb", "country": "US"}`), "Proxy ID")
	clk.Advance(31 * 24 * time.Hour)
	mustFail(t, tb, "rotate_proxy", `{"proxyId": "`+proxyID+`"}`, "is expired. Only active proxies can be rotated.")
}

// ──────────────────────────────────────────────────
// Orders
// ──────────────────────────────────────────────────

func TestListOrders(t *testing.T) {
	tb, clk := newToolbox(t)

	if text := mustCall(t, tb, "list_orders", `{}`); text != "No orders found." {
		t.Errorf("empty listing: got %q", text)
	}

	mustCall(t, tb, "rent_number", `{"service": "telegram"}`)
	clk.Advance(time.Second)
	mustCall(t, tb, "purchase_esim", `{"planId": "esim_jp_3g_7d"}`)
	clk.Advance(time.Second)
	mustCall(t, tb, "purchase_proxy", `{"type": "gb", "country": "US"}`)

	text := mustCall(t, tb, "list_orders", `{}`)
	contains(t, text, "3 order(s):", "[SMS] telegram (US)", "[eSIM] Japan 3GB / 7 Days (JP)", "[Proxy] GB proxy - US", "Status: active  |  Price: $1.50")
	if p, s := strings.Index(text, "[Proxy]"), strings.Index(text, "[SMS]"); p > s {
		t.Errorf("orders should list newest first:\n%s", text)
	}

	text = mustCall(t, tb, "list_orders", `{"type": "esim"}`)
	contains(t, text, "1 order(s):", "[eSIM]")

	clk.Advance(10 * time.Minute)
	text = mustCall(t, tb, "list_orders", `{"status": "expired"}`)
	contains(t, text, "1 order(s):", "[SMS]", "Status: expired")

	if text := mustCall(t, tb, "list_orders", `{"type": "proxy", "status": "cancelled"}`); text != "No orders found." {
		t.Errorf("filtered listing: got %q", text)
	}
}
