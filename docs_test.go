package sandbox_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/sandbox"
	"github.com/xraph/sandbox/clock"
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/types"
)

// TestDocumentationExamples verifies that the examples in the package
// documentation behave as described.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		clk := clock.NewFake(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC))
		e := sandbox.New(
			sandbox.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			sandbox.WithClock(clk),
		)

		ctx := context.Background()
		if err := e.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer e.Stop()

		rental, err := e.RentNumber(ctx, "whatsapp")
		if err != nil {
			t.Fatal(err)
		}

		// The verification code arrives on the first read five seconds in.
		clk.Advance(5 * time.Second)
		msgs, err := e.Messages(ctx, rental.ID.String())
		if err != nil {
			t.Fatal(err)
		}
		if len(msgs.Rental.Messages) != 1 {
			t.Fatalf("expected a code, got %+v", msgs.Rental.Messages)
		}

		// Running out of funds is reported, never overdrawn.
		_, err = e.PurchaseProxy(ctx, proxy.TypeGB, "US", 100)
		if !sandbox.IsInsufficientBalance(err) {
			t.Fatalf("expected insufficient balance, got %v", err)
		}

		if _, err := e.Deposit(ctx, sandbox.USD(10000), sandbox.BTC); err != nil {
			t.Fatal(err)
		}
		clk.Advance(6 * time.Second)
		if _, err := e.PurchaseProxy(ctx, proxy.TypeGB, "US", 10); err != nil {
			t.Fatal(err)
		}

		orders, err := e.ListOrders(ctx, sandbox.ListOpts{Status: "active"})
		if err != nil {
			t.Fatal(err)
		}
		if len(orders) != 2 || orders[0].Type != order.TypeProxy {
			t.Errorf("orders: %+v", orders)
		}
	})

	t.Run("MoneyExamples", func(t *testing.T) {
		price := types.USD(249) // $2.49 per GB

		if got := price.MulQuantity(10); got.Amount != 2490 {
			t.Errorf("10 GB: got %s", got)
		}
		if got := price.MulQuantity(2.5).String(); got != "$6.23" {
			t.Errorf("2.5 GB: got %s", got)
		}
		if got, err := sandbox.FromUSD(12.5); err != nil || !got.Equal(sandbox.USD(1250)) {
			t.Errorf("from dollars: got %s, %v", got, err)
		}
	})
}
