package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/sandbox/catalog"
	"github.com/xraph/sandbox/id"
	"github.com/xraph/sandbox/order"
	"github.com/xraph/sandbox/sms"
	"github.com/xraph/sandbox/types"
	"github.com/xraph/sandbox/wallet"
)

// MessagesResult is the outcome of reading a rental's inbox.
type MessagesResult struct {
	Rental *sms.Rental `json:"rental"`

	// Elapsed is the rental age at read time.
	Elapsed time.Duration `json:"elapsed"`

	// Delivered is set when this read produced the verification message.
	Delivered bool `json:"delivered"`
}

// CancelResult is the outcome of cancelling a rental.
type CancelResult struct {
	Rental  *sms.Rental `json:"rental"`
	Refund  types.Money `json:"refund"`
	Balance types.Money `json:"balance"`
}

// SearchServices lists SMS services matching query.
func (e *Engine) SearchServices(_ context.Context, query string) []catalog.Service {
	return e.catalog.SearchServices(query)
}

// ServicePrice returns the catalog entry of one SMS service.
func (e *Engine) ServicePrice(_ context.Context, serviceID string) (catalog.Service, error) {
	svc, ok := e.catalog.Service(serviceID)
	if !ok {
		return catalog.Service{}, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
	}
	return svc, nil
}

// RentNumber rents a US number for serviceID and charges the service price.
func (e *Engine) RentNumber(ctx context.Context, serviceID string) (*sms.Rental, error) {
	svc, ok := e.catalog.Service(serviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
	}

	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.settle(now)

	r, err := buy(e, purchase[*sms.Rental]{
		kind:        order.TypeSMS,
		txKind:      wallet.KindSMSRental,
		cost:        svc.Price,
		description: fmt.Sprintf("SMS rental: %s (%s)", svc.Name, sms.Country),
		registry:    e.rentals,
		mint: func(now time.Time) *sms.Rental {
			return sms.NewRental(e.gen.PhoneNumber(sms.Country), svc.ID, svc.Name, svc.Price, now)
		},
		project: func(r *sms.Rental, _ time.Time) order.Order { return order.FromRental(r) },
	}, now)
	if err != nil {
		return nil, err
	}

	return r.Clone(), nil
}

// Messages reads a rental's inbox. The first read at least five seconds after
// renting delivers exactly one verification code.
func (e *Engine) Messages(ctx context.Context, rentalID string) (*MessagesResult, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	r, err := e.lookupRental(rentalID, now)
	if err != nil {
		return nil, err
	}

	switch r.Status {
	case sms.StatusExpired:
		return nil, &StateError{Resource: "rental", ID: rentalID, Status: string(r.Status), Err: ErrRentalExpired}
	case sms.StatusCancelled:
		return nil, &StateError{Resource: "rental", ID: rentalID, Status: string(r.Status), Err: ErrRentalCancelled}
	}

	delivered := r.Deliver(e.gen.VerificationCode(), now)
	if delivered {
		msg := r.Messages[len(r.Messages)-1]
		snapshot := r.Clone()
		e.logger.Info("sms delivered", "rental_id", rentalID, "service", r.Service)
		e.enqueue(func(ctx context.Context) { e.plugins.EmitMessageDelivered(ctx, snapshot, msg) })
	} else {
		e.logger.Debug("sms inbox read", "rental_id", rentalID, "messages", len(r.Messages))
	}

	return &MessagesResult{
		Rental:    r.Clone(),
		Elapsed:   r.Elapsed(now),
		Delivered: delivered,
	}, nil
}

// CancelRental cancels an active rental. The price is refunded only when no
// message has arrived.
func (e *Engine) CancelRental(ctx context.Context, rentalID string) (*CancelResult, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.settle(now)

	r, err := e.lookupRental(rentalID, now)
	if err != nil {
		return nil, err
	}
	if r.Status != sms.StatusActive {
		return nil, &StateError{Resource: "rental", ID: rentalID, Status: string(r.Status), Err: ErrRentalNotActive}
	}

	refund := types.Zero(r.Price.Currency)
	if r.Refundable() {
		if _, ok := e.credit(r.Price, wallet.KindRefund, fmt.Sprintf("Refund: %s rental (%s)", r.Service, r.Country), now); ok {
			refund = r.Price
		}
	}
	r.Status = sms.StatusCancelled

	snapshot := r.Clone()
	e.logger.Info("rental cancelled", "rental_id", rentalID, "refund", refund.String())
	e.enqueue(func(ctx context.Context) { e.plugins.EmitRentalCanceled(ctx, snapshot, refund) })

	return &CancelResult{
		Rental:  r.Clone(),
		Refund:  refund,
		Balance: e.ledger.Balance(),
	}, nil
}

// Rental returns one rental with lazy expiry applied.
func (e *Engine) Rental(ctx context.Context, rentalID string) (*sms.Rental, error) {
	defer e.flush(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.lookupRental(rentalID, e.clock.Now())
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

func (e *Engine) lookupRental(rentalID string, now time.Time) (*sms.Rental, error) {
	if _, err := id.ParseRentalID(rentalID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRentalNotFound, rentalID)
	}
	r, ok := e.rentals.Lookup(rentalID, now)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRentalNotFound, rentalID)
	}
	return r, nil
}
