// Package wallet holds the sandbox balance, its append-only transaction log
// and the queue of pending crypto deposits.
package wallet

import (
	"time"

	"github.com/xraph/sandbox/id"
	"github.com/xraph/sandbox/types"
)

// Kind classifies a ledger transaction.
type Kind string

const (
	KindDeposit       Kind = "deposit"
	KindSMSRental     Kind = "sms_rental"
	KindESIMPurchase  Kind = "esim_purchase"
	KindProxyPurchase Kind = "proxy_purchase"
	KindRefund        Kind = "refund"
	KindTopup         Kind = "topup"
)

// Transaction is one immutable entry of the ledger. Amount is signed:
// debits are negative, credits positive.
type Transaction struct {
	ID          id.TransactionID `json:"id"`
	Kind        Kind             `json:"kind"`
	Amount      types.Money      `json:"amount"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
}

// DepositStatus is the lifecycle state of a deposit.
type DepositStatus string

const (
	DepositPending   DepositStatus = "pending"
	DepositCompleted DepositStatus = "completed"
)

// Currency is the crypto asset a deposit is paid with.
type Currency string

const (
	CurrencyBTC Currency = "BTC"
	CurrencyETH Currency = "ETH"
	CurrencySOL Currency = "SOL"
)

// Currencies lists the accepted deposit currencies.
var Currencies = []Currency{CurrencyBTC, CurrencyETH, CurrencySOL}

// Valid reports whether c is an accepted deposit currency.
func (c Currency) Valid() bool {
	for _, known := range Currencies {
		if c == known {
			return true
		}
	}
	return false
}

// Deposit is a funding request. Amount is denominated in USD; Currency is
// the asset the payer settles with.
type Deposit struct {
	InvoiceID   id.InvoiceID  `json:"invoice_id"`
	Amount      types.Money   `json:"amount"`
	Currency    Currency      `json:"currency"`
	Status      DepositStatus `json:"status"`
	PayURL      string        `json:"pay_url"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// ConfirmsAt returns the earliest instant the deposit can be confirmed.
// Maturity is strict: a deposit exactly ConfirmDelay old is still pending.
func (d *Deposit) ConfirmsAt() time.Time {
	return d.CreatedAt.Add(ConfirmDelay)
}

// Matured reports whether a pending deposit is old enough to confirm at now.
func (d *Deposit) Matured(now time.Time) bool {
	return d.Status == DepositPending && now.Sub(d.CreatedAt) > ConfirmDelay
}
