// Package registry provides the generic in-memory store shared by the SMS,
// eSIM and proxy resources. Records are never removed; every read applies
// the record's time-driven transitions before returning it.
package registry

import (
	"errors"
	"sync"
	"time"
)

// ErrDuplicate is returned when inserting a record whose ID is already taken.
var ErrDuplicate = errors.New("registry: duplicate record id")

// Record is a stored resource with lazy, time-driven state.
type Record interface {
	// RecordID returns the record's unique key.
	RecordID() string

	// Refresh applies every transition due at now and reports whether the
	// record's status changed. It must be idempotent for a fixed now.
	Refresh(now time.Time) bool
}

// TransitionFunc observes a record whose status changed during a read.
type TransitionFunc[R Record] func(rec R)

// Registry is a keyed, insertion-ordered collection of records.
type Registry[R Record] struct {
	mu       sync.RWMutex
	items    map[string]R
	order    []string
	observed TransitionFunc[R]
}

// New returns an empty registry. onTransition may be nil.
func New[R Record](onTransition TransitionFunc[R]) *Registry[R] {
	return &Registry[R]{
		items:    make(map[string]R),
		observed: onTransition,
	}
}

// Insert stores rec under its ID.
func (r *Registry[R]) Insert(rec R) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rec.RecordID()
	if _, exists := r.items[key]; exists {
		return ErrDuplicate
	}
	r.items[key] = rec
	r.order = append(r.order, key)
	return nil
}

// Has reports whether a record with the given ID exists.
func (r *Registry[R]) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[key]
	return ok
}

// Lookup returns the record with the given ID after refreshing it at now.
func (r *Registry[R]) Lookup(key string, now time.Time) (R, bool) {
	r.mu.Lock()
	rec, ok := r.items[key]
	r.mu.Unlock()
	if !ok {
		var zero R
		return zero, false
	}

	r.refresh(rec, now)
	return rec, true
}

// All returns every record in insertion order, each refreshed at now.
func (r *Registry[R]) All(now time.Time) []R {
	r.mu.RLock()
	out := make([]R, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.items[key])
	}
	r.mu.RUnlock()

	for _, rec := range out {
		r.refresh(rec, now)
	}
	return out
}

// Len returns the number of stored records.
func (r *Registry[R]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry[R]) refresh(rec R, now time.Time) {
	if rec.Refresh(now) && r.observed != nil {
		r.observed(rec)
	}
}
