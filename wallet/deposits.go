package wallet

import (
	"fmt"
	"sync"
	"time"

	"github.com/xraph/sandbox/id"
	"github.com/xraph/sandbox/types"
)

// ConfirmDelay is how long a deposit stays pending before it confirms.
const ConfirmDelay = 5 * time.Second

// PayURLBase prefixes the payment link handed out for each invoice.
const PayURLBase = "https://sandbox.voidmob.com/pay/"

// Crediter accepts confirmed deposit funds. *Ledger implements it.
type Crediter interface {
	Credit(amount types.Money, kind Kind, description string, at time.Time) (Transaction, bool)
}

var _ Crediter = (*Ledger)(nil)

// DepositQueue tracks deposits awaiting confirmation.
type DepositQueue struct {
	mu       sync.Mutex
	deposits []*Deposit
}

// NewDepositQueue returns an empty queue.
func NewDepositQueue() *DepositQueue {
	return &DepositQueue{}
}

// Create registers a pending deposit. The caller validates amount.
func (q *DepositQueue) Create(amount types.Money, currency Currency, at time.Time) Deposit {
	q.mu.Lock()
	defer q.mu.Unlock()

	invoice := id.NewInvoiceID()
	d := &Deposit{
		InvoiceID: invoice,
		Amount:    amount,
		Currency:  currency,
		Status:    DepositPending,
		PayURL:    PayURLBase + invoice.String(),
		CreatedAt: at,
	}
	q.deposits = append(q.deposits, d)
	return *d
}

// ResolvePending completes every matured deposit exactly once, crediting
// the ledger for each, and returns the deposits completed by this call.
func (q *DepositQueue) ResolvePending(now time.Time, ledger Crediter) []Deposit {
	q.mu.Lock()
	defer q.mu.Unlock()

	var completed []Deposit
	for _, d := range q.deposits {
		if !d.Matured(now) {
			continue
		}
		if _, ok := ledger.Credit(d.Amount, KindDeposit, depositDescription(d.Currency), now); !ok {
			continue
		}
		at := now
		d.Status = DepositCompleted
		d.CompletedAt = &at
		completed = append(completed, *d)
	}
	return completed
}

// Pending returns deposits not yet confirmed, oldest first.
func (q *DepositQueue) Pending() []Deposit {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []Deposit
	for _, d := range q.deposits {
		if d.Status == DepositPending {
			out = append(out, *d)
		}
	}
	return out
}

// All returns every deposit in creation order.
func (q *DepositQueue) All() []Deposit {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Deposit, len(q.deposits))
	for i, d := range q.deposits {
		out[i] = *d
	}
	return out
}

func depositDescription(c Currency) string {
	return fmt.Sprintf("Crypto deposit (%s)", c)
}
