package wallet

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/xraph/sandbox/id"
	"github.com/xraph/sandbox/types"
)

// Ledger owns the balance and the append-only transaction log.
// The balance always equals the opening balance plus the sum of every
// transaction amount.
type Ledger struct {
	mu      sync.Mutex
	opening types.Money
	balance types.Money
	log     []Transaction
}

// NewLedger returns a ledger funded with the opening balance.
func NewLedger(opening types.Money) *Ledger {
	return &Ledger{
		opening: opening,
		balance: opening,
		log:     make([]Transaction, 0),
	}
}

// Opening returns the balance the ledger started with.
func (l *Ledger) Opening() types.Money { return l.opening }

// Balance returns the current balance.
func (l *Ledger) Balance() types.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Debit withdraws amount and records a negative transaction. It fails with
// no side effect when amount is negative or exceeds the balance.
func (l *Ledger) Debit(amount types.Money, kind Kind, description string, at time.Time) (Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.IsNegative() || amount.GreaterThan(l.balance) {
		return Transaction{}, false
	}

	l.balance = l.balance.Subtract(amount)
	return l.appendLocked(amount.Negate(), kind, description, at), true
}

// Credit deposits amount and records a positive transaction. Negative
// amounts and credits that would overflow the balance are refused.
func (l *Ledger) Credit(amount types.Money, kind Kind, description string, at time.Time) (Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.IsNegative() || amount.Amount > math.MaxInt64-l.balance.Amount {
		return Transaction{}, false
	}

	l.balance = l.balance.Add(amount)
	return l.appendLocked(amount, kind, description, at), true
}

func (l *Ledger) appendLocked(signed types.Money, kind Kind, description string, at time.Time) Transaction {
	tx := Transaction{
		ID:          id.NewTransactionID(),
		Kind:        kind,
		Amount:      signed,
		Description: description,
		CreatedAt:   at,
	}
	l.log = append(l.log, tx)
	return tx
}

// Recent returns up to n transactions, newest first by CreatedAt. Entries
// sharing a timestamp keep reverse insertion order. n <= 0 returns all.
func (l *Ledger) Recent(n int) []Transaction {
	l.mu.Lock()
	out := make([]Transaction, len(l.log))
	for i, tx := range l.log {
		out[len(l.log)-1-i] = tx
	}
	l.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Transactions returns a copy of the log in insertion order.
func (l *Ledger) Transactions() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Transaction, len(l.log))
	copy(out, l.log)
	return out
}

// Reconcile recomputes the balance from the opening balance and the log.
// It equals Balance for every ledger built through Debit and Credit.
func (l *Ledger) Reconcile() types.Money {
	l.mu.Lock()
	defer l.mu.Unlock()

	sum := l.opening
	for _, tx := range l.log {
		sum = sum.Add(tx.Amount)
	}
	return sum
}
