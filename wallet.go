package sandbox

import (
	"context"

	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

// BalanceReport is a snapshot of the wallet.
type BalanceReport struct {
	Balance types.Money          `json:"balance"`
	Pending []wallet.Deposit     `json:"pending_deposits"`
	Recent  []wallet.Transaction `json:"recent_transactions"`
}

// Balance confirms matured deposits and reports the wallet state with the
// most recent transactions.
func (e *Engine) Balance(ctx context.Context) (*BalanceReport, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.settle(e.clock.Now())

	return &BalanceReport{
		Balance: e.ledger.Balance(),
		Pending: e.deposits.Pending(),
		Recent:  e.ledger.Recent(RecentTransactions),
	}, nil
}

// Deposit opens a simulated crypto invoice. The funds are credited once the
// confirmation delay has passed and a later operation observes the wallet.
// An empty currency defaults to BTC.
func (e *Engine) Deposit(ctx context.Context, amount types.Money, currency wallet.Currency) (*wallet.Deposit, error) {
	if currency == "" {
		currency = wallet.CurrencyBTC
	}
	if !currency.Valid() {
		return nil, invalid("currency", "unsupported currency %q, use one of %v", currency, wallet.Currencies)
	}
	if !amount.IsPositive() {
		return nil, invalid("amount", "deposit amount must be positive")
	}
	if amount.Currency != e.opening.Currency {
		return nil, invalid("amount", "deposit must be in %s", e.opening.Currency)
	}
	if amount.GreaterThan(MaxDeposit) {
		return nil, invalid("amount", "must not exceed %s per deposit", MaxDeposit)
	}

	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.deposits.Create(amount, currency, e.clock.Now())

	e.logger.Info("deposit created",
		"invoice_id", d.InvoiceID.String(),
		"amount", d.Amount.String(),
		"currency", string(d.Currency),
	)
	e.enqueue(func(ctx context.Context) { e.plugins.EmitDepositCreated(ctx, &d) })

	return &d, nil
}

// Transactions returns up to n transactions, newest first. n <= 0 returns
// the whole history.
func (e *Engine) Transactions(ctx context.Context, n int) ([]wallet.Transaction, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.settle(e.clock.Now())
	return e.ledger.Recent(n), nil
}
