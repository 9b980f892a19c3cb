package sandbox_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/xraph/sandbox"
	"github.com/xraph/sandbox/clock"
	"github.com/xraph/sandbox/esim"
	"github.com/xraph/sandbox/mock"
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/proxy"
	"github.com/xraph/sandbox/sms"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEngine(t *testing.T, opts ...sandbox.Option) (*sandbox.Engine, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(epoch)
	base := []sandbox.Option{
		sandbox.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		sandbox.WithClock(clk),
		sandbox.WithGenerator(&mock.Sequence{}),
	}
	e := sandbox.New(append(base, opts...)...)
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = e.Stop() })
	return e, clk
}

func balance(t *testing.T, e *sandbox.Engine) types.Money {
	t.Helper()
	report, err := e.Balance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return report.Balance
}

func assertConserved(t *testing.T, e *sandbox.Engine, opening types.Money) {
	t.Helper()
	txs, err := e.Transactions(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	sum := opening
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}
	if got := balance(t, e); !got.Equal(sum) {
		t.Errorf("balance %s != opening + transactions %s", got, sum)
	}
}

// ──────────────────────────────────────────────────
// Wallet
// ──────────────────────────────────────────────────

func TestOpeningBalance(t *testing.T) {
	e, _ := newEngine(t)
	report, err := e.Balance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Balance.Amount != 5000 {
		t.Errorf("balance: got %s, want $50.00", report.Balance)
	}
	if len(report.Recent) != 0 || len(report.Pending) != 0 {
		t.Errorf("fresh wallet should be empty: %+v", report)
	}
}

func TestDepositConfirmation(t *testing.T) {
	ctx := context.Background()
	e, clk := newEngine(t)

	d, err := e.Deposit(ctx, types.USD(2500), wallet.CurrencyETH)
	if err != nil {
		t.Fatal(err)
	}
	if d.Status != wallet.DepositPending || d.PayURL != wallet.PayURLBase+d.InvoiceID.String() {
		t.Errorf("unexpected deposit %+v", d)
	}

	clk.Advance(wallet.ConfirmDelay)
	report, _ := e.Balance(ctx)
	if report.Balance.Amount != 5000 || len(report.Pending) != 1 {
		t.Fatalf("deposit confirmed at exactly the delay: %+v", report)
	}

	clk.Advance(time.Millisecond)
	report, _ = e.Balance(ctx)
	if report.Balance.Amount != 7500 || len(report.Pending) != 0 {
		t.Fatalf("deposit not confirmed after the delay: %+v", report)
	}
	if tx := report.Recent[0]; tx.Kind != wallet.KindDeposit || tx.Description != "Crypto deposit (ETH)" || tx.Amount.Amount != 2500 {
		t.Errorf("deposit transaction: %+v", tx)
	}

	clk.Advance(time.Hour)
	if got := balance(t, e); got.Amount != 7500 {
		t.Errorf("deposit credited twice: %s", got)
	}
	assertConserved(t, e, types.USD(5000))
}

func TestDepositDefaultsToBTC(t *testing.T) {
	e, _ := newEngine(t)
	d, err := e.Deposit(context.Background(), types.USD(100), "")
	if err != nil {
		t.Fatal(err)
	}
	if d.Currency != wallet.CurrencyBTC {
		t.Errorf("currency: got %s", d.Currency)
	}
}

func TestDepositValidation(t *testing.T) {
	tests := []struct {
		name     string
		amount   types.Money
		currency wallet.Currency
	}{
		{"zero", types.USD(0), wallet.CurrencyBTC},
		{"negative", types.USD(-100), wallet.CurrencyBTC},
		{"unknown currency", types.USD(100), "DOGE"},
		{"foreign money", types.Money{Amount: 100, Currency: "eur"}, wallet.CurrencyBTC},
		{"above limit", sandbox.MaxDeposit.Add(types.USD(1)), wallet.CurrencyBTC},
		{"near MaxInt64", types.USD(math.MaxInt64 - 1000), wallet.CurrencyBTC},
	}

	e, _ := newEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Deposit(context.Background(), tt.amount, tt.currency)
			if !sandbox.IsInvalidArgument(err) {
				t.Errorf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestDepositsNeverWrapBalance(t *testing.T) {
	ctx := context.Background()
	e, clk := newEngine(t)

	if _, err := e.Deposit(ctx, types.USD(math.MaxInt64-1000), wallet.CurrencyBTC); !sandbox.IsInvalidArgument(err) {
		t.Fatalf("oversized deposit: got %v", err)
	}
	if _, err := e.Deposit(ctx, sandbox.MaxDeposit, wallet.CurrencyBTC); err != nil {
		t.Fatalf("deposit at the limit: %v", err)
	}

	clk.Advance(wallet.ConfirmDelay + time.Second)
	got := balance(t, e)
	if got.IsNegative() || !got.Equal(types.USD(5000).Add(sandbox.MaxDeposit)) {
		t.Errorf("balance after deposit: got %s", got)
	}
	assertConserved(t, e, types.USD(5000))
}

func TestRecentTransactionsLimit(t *testing.T) {
	ctx := context.Background()
	e, clk := newEngine(t)

	for range 12 {
		if _, err := e.RentNumber(ctx, "discord"); err != nil {
			t.Fatal(err)
		}
		clk.Advance(time.Second)
	}

	report, _ := e.Balance(ctx)
	if len(report.Recent) != sandbox.RecentTransactions {
		t.Fatalf("recent: got %d entries", len(report.Recent))
	}
	for i := 1; i < len(report.Recent); i++ {
		if report.Recent[i].CreatedAt.After(report.Recent[i-1].CreatedAt) {
			t.Fatal("recent transactions not newest first")
		}
	}
	if report.Balance.Amount != 5000-12*120 {
		t.Errorf("balance: got %s", report.Balance)
	}
}

// ──────────────────────────────────────────────────
// Unified order view
// ──────────────────────────────────────────────────

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	e, clk := newEngine(t)

	r, err := e.RentNumber(ctx, "telegram")
	if err != nil {
		t.Fatal(err)
	}
	clk.Advance(time.Second)
	o, err := e.PurchaseESIM(ctx, "esim_th_5g_7d")
	if err != nil {
		t.Fatal(err)
	}
	clk.Advance(time.Second)
	l, err := e.PurchaseProxy(ctx, proxy.TypeGB, "us", 1)
	if err != nil {
		t.Fatal(err)
	}

	all, err := e.ListOrders(ctx, order.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != l.ID.String() || all[1].ID != o.ID.String() || all[2].ID != r.ID.String() {
		t.Fatalf("listing not newest first: %+v", all)
	}
	if all[0].Type != order.TypeProxy || all[0].Name != "GB proxy - US (Verizon)" {
		t.Errorf("proxy projection: %+v", all[0])
	}
	if all[2].Name != "telegram (US) - "+r.Number || all[2].Details != "Messages: 0" {
		t.Errorf("sms projection: %+v", all[2])
	}

	only, _ := e.ListOrders(ctx, order.ListOpts{Type: order.TypeESIM})
	if len(only) != 1 || only[0].Type != order.TypeESIM {
		t.Errorf("type filter: %+v", only)
	}

	clk.Advance(sms.RentalDuration)
	expired, _ := e.ListOrders(ctx, order.ListOpts{Status: "expired"})
	if len(expired) != 1 || expired[0].ID != r.ID.String() {
		t.Errorf("lazy expiry not applied before filtering: %+v", expired)
	}

	active, _ := e.ListOrders(ctx, order.ListOpts{Status: "active"})
	if len(active) != 2 {
		t.Errorf("active: got %d", len(active))
	}
}

func TestListOrdersSameInstant(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	first, _ := e.RentNumber(ctx, "uber")
	second, _ := e.RentNumber(ctx, "uber")

	all, _ := e.ListOrders(ctx, order.ListOpts{Status: "all"})
	if len(all) != 2 || all[0].ID != second.ID.String() || all[1].ID != first.ID.String() {
		t.Errorf("ties should list the latest purchase first: %+v", all)
	}
}

func TestListOrdersValidation(t *testing.T) {
	e, _ := newEngine(t)
	for _, opts := range []order.ListOpts{{Status: "refunded"}, {Type: "vpn"}} {
		if _, err := e.ListOrders(context.Background(), opts); !sandbox.IsInvalidArgument(err) {
			t.Errorf("%+v: expected invalid argument, got %v", opts, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

type spy struct {
	mu       sync.Mutex
	engine   *sandbox.Engine
	created  []order.Type
	expired  []string
	rejected []types.Money
	txs      int
	balances []types.Money
}

func (s *spy) Name() string { return "spy" }

func (s *spy) OnOrderCreated(ctx context.Context, o *order.Order) error {
	// Hooks run after the store lock is released, so reading back is safe.
	report, err := s.engine.Balance(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, o.Type)
	s.balances = append(s.balances, report.Balance)
	return nil
}

func (s *spy) OnOrderExpired(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = append(s.expired, o.ID)
	return nil
}

func (s *spy) OnPurchaseRejected(_ context.Context, _ order.Type, required, _ types.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected = append(s.rejected, required)
	return nil
}

func (s *spy) OnTransactionRecorded(context.Context, *wallet.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs++
	return errors.New("swallowed")
}

func TestHooks(t *testing.T) {
	ctx := context.Background()
	s := &spy{}
	e, clk := newEngine(t, sandbox.WithPlugin(s), sandbox.WithOpeningBalance(types.USD(1000)))
	s.engine = e

	r, err := e.RentNumber(ctx, "openai")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.PurchaseESIM(ctx, "esim_jp_10g_30d"); !sandbox.IsInsufficientBalance(err) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	clk.Advance(sms.RentalDuration)
	for range 3 {
		if _, err := e.ListOrders(ctx, order.ListOpts{}); err != nil {
			t.Fatal(err)
		}
	}

	if len(s.created) != 1 || s.created[0] != order.TypeSMS || s.balances[0].Amount != 700 {
		t.Errorf("created: %v balances: %v", s.created, s.balances)
	}
	if len(s.rejected) != 1 || s.rejected[0].Amount != 1200 {
		t.Errorf("rejected: %v", s.rejected)
	}
	if len(s.expired) != 1 || s.expired[0] != r.ID.String() {
		t.Errorf("expiry should be observed exactly once: %v", s.expired)
	}
	if s.txs != 1 {
		t.Errorf("transactions: got %d", s.txs)
	}
}

// ──────────────────────────────────────────────────
// Concurrency
// ──────────────────────────────────────────────────

func TestConcurrentPurchases(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, poor int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.RentNumber(ctx, "telegram")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case sandbox.IsInsufficientBalance(err):
				poor++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 33 || poor != 17 {
		t.Errorf("got %d successes and %d rejections, want 33 and 17", ok, poor)
	}
	if got := balance(t, e); got.Amount != 50 {
		t.Errorf("balance: got %s, want $0.50", got)
	}
	orders, _ := e.ListOrders(ctx, order.ListOpts{})
	if len(orders) != ok {
		t.Errorf("orders: got %d, want %d", len(orders), ok)
	}
	assertConserved(t, e, types.USD(5000))
}

func TestMixedOperationsConserveBalance(t *testing.T) {
	ctx := context.Background()
	e, clk := newEngine(t)

	r, _ := e.RentNumber(ctx, "google")
	o, _ := e.PurchaseESIM(ctx, "esim_us_5g_7d")
	_, _ = e.PurchaseProxy(ctx, proxy.TypeGB, "IN", 2.5)
	_, _ = e.Deposit(ctx, types.USD(1000), wallet.CurrencySOL)
	clk.Advance(10 * time.Second)
	_, _ = e.CancelRental(ctx, r.ID.String())
	_, _ = e.TopUpESIM(ctx, o.ID.String(), 1.25)
	_, _ = e.PurchaseProxy(ctx, proxy.TypeDedicated, "JP", 1)

	assertConserved(t, e, types.USD(5000))

	if got := balance(t, e); got.IsNegative() {
		t.Errorf("negative balance %s", got)
	}
	if usage, _ := e.ESIMUsage(ctx, o.ID.String()); usage.Order.Status != esim.StatusActive {
		t.Errorf("esim status: %s", usage.Order.Status)
	}
}
