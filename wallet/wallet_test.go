package wallet

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/xraph/sandbox/types"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestLedgerDebit(t *testing.T) {
	tests := []struct {
		name    string
		amount  types.Money
		wantOK  bool
		balance int64
	}{
		{"within balance", types.USD(249), true, 4751},
		{"exact balance", types.USD(5000), true, 0},
		{"exceeds balance", types.USD(5001), false, 5000},
		{"negative", types.USD(-100), false, 5000},
		{"zero", types.USD(0), true, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(types.USD(5000))
			tx, ok := l.Debit(tt.amount, KindSMSRental, "SMS rental", epoch)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if got := l.Balance().Amount; got != tt.balance {
				t.Errorf("balance: got %d, want %d", got, tt.balance)
			}
			if !ok {
				if n := len(l.Transactions()); n != 0 {
					t.Errorf("failed debit recorded %d transactions", n)
				}
				return
			}
			if tx.Amount.Amount != -tt.amount.Amount {
				t.Errorf("signed amount: got %d, want %d", tx.Amount.Amount, -tt.amount.Amount)
			}
			if tx.ID.IsNil() {
				t.Error("transaction should carry an ID")
			}
		})
	}
}

func TestLedgerCredit(t *testing.T) {
	l := NewLedger(types.USD(5000))
	tx, ok := l.Credit(types.USD(1000), KindRefund, "Refund", epoch)
	if !ok {
		t.Fatal("credit should succeed")
	}
	if tx.Amount.Amount != 1000 || tx.Kind != KindRefund {
		t.Errorf("unexpected transaction %+v", tx)
	}
	if got := l.Balance().Amount; got != 6000 {
		t.Errorf("balance: got %d, want 6000", got)
	}

	if _, ok := l.Credit(types.USD(-1), KindRefund, "bad", epoch); ok {
		t.Error("negative credit should be refused")
	}
}

func TestLedgerCreditOverflow(t *testing.T) {
	l := NewLedger(types.USD(5000))
	if _, ok := l.Credit(types.USD(math.MaxInt64-1000), KindDeposit, "huge", epoch); ok {
		t.Fatal("credit past MaxInt64 should be refused")
	}
	if got := l.Balance().Amount; got != 5000 {
		t.Errorf("balance: got %d, want 5000", got)
	}
	if n := len(l.Transactions()); n != 0 {
		t.Errorf("refused credit recorded %d transactions", n)
	}

	if _, ok := l.Credit(types.USD(math.MaxInt64-5000), KindDeposit, "ceiling", epoch); !ok {
		t.Fatal("credit up to MaxInt64 should succeed")
	}
	if _, ok := l.Credit(types.USD(1), KindDeposit, "one more", epoch); ok {
		t.Error("credit past a full balance should be refused")
	}
	if got := l.Balance().Amount; got != math.MaxInt64 {
		t.Errorf("balance: got %d, want MaxInt64", got)
	}
}

func TestLedgerRecent(t *testing.T) {
	l := NewLedger(types.USD(5000))
	l.Debit(types.USD(100), KindSMSRental, "first", epoch)
	l.Debit(types.USD(100), KindSMSRental, "second", epoch)
	l.Credit(types.USD(50), KindRefund, "third", epoch.Add(time.Second))

	recent := l.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
	if recent[0].Description != "third" || recent[1].Description != "second" {
		t.Errorf("order: got %q, %q", recent[0].Description, recent[1].Description)
	}

	if all := l.Recent(0); len(all) != 3 {
		t.Errorf("Recent(0): got %d entries, want 3", len(all))
	}
	if all := l.Recent(50); len(all) != 3 {
		t.Errorf("Recent(50): got %d entries, want 3", len(all))
	}
}

func TestLedgerConservation(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	l := NewLedger(types.USD(5000))
	now := epoch

	for range 2000 {
		amount := types.USD(r.Int64N(3000))
		if r.IntN(3) == 0 {
			l.Credit(amount, KindTopup, "credit", now)
		} else {
			l.Debit(amount, KindESIMPurchase, "debit", now)
		}
		now = now.Add(time.Millisecond)

		if l.Balance().IsNegative() {
			t.Fatalf("balance went negative: %v", l.Balance())
		}
		if !l.Balance().Equal(l.Reconcile()) {
			t.Fatalf("balance %v != opening + log %v", l.Balance(), l.Reconcile())
		}
	}
}

func TestDepositResolution(t *testing.T) {
	l := NewLedger(types.USD(5000))
	q := NewDepositQueue()

	d := q.Create(types.USD(2500), CurrencyETH, epoch)
	if d.Status != DepositPending {
		t.Fatalf("status: got %s", d.Status)
	}
	if !strings.HasPrefix(d.PayURL, PayURLBase+"inv_") {
		t.Errorf("pay url: got %q", d.PayURL)
	}

	if got := q.ResolvePending(epoch.Add(ConfirmDelay), l); len(got) != 0 {
		t.Fatalf("deposit confirmed at exactly %v", ConfirmDelay)
	}
	if l.Balance().Amount != 5000 {
		t.Fatalf("balance changed before maturity: %v", l.Balance())
	}

	done := q.ResolvePending(epoch.Add(ConfirmDelay+time.Millisecond), l)
	if len(done) != 1 || done[0].Status != DepositCompleted || done[0].CompletedAt == nil {
		t.Fatalf("expected one completed deposit, got %+v", done)
	}
	if l.Balance().Amount != 7500 {
		t.Errorf("balance: got %v, want $75.00", l.Balance())
	}

	txs := l.Transactions()
	if len(txs) != 1 || txs[0].Kind != KindDeposit || !strings.Contains(txs[0].Description, "ETH") {
		t.Errorf("unexpected deposit transaction %+v", txs)
	}

	if again := q.ResolvePending(epoch.Add(time.Hour), l); len(again) != 0 {
		t.Errorf("deposit credited twice")
	}
	if l.Balance().Amount != 7500 {
		t.Errorf("balance after second resolve: %v", l.Balance())
	}
	if len(q.Pending()) != 0 || len(q.All()) != 1 {
		t.Errorf("pending=%d all=%d", len(q.Pending()), len(q.All()))
	}
}

func TestCurrencyValid(t *testing.T) {
	for _, c := range []Currency{"BTC", "ETH", "SOL"} {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	for _, c := range []Currency{"", "btc", "DOGE"} {
		if c.Valid() {
			t.Errorf("%q should be invalid", c)
		}
	}
}
