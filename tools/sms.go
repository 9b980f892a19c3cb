package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/sandbox"
	"github.com/xraph/sandbox/format"
)

type queryArgs struct {
	Query string `json:"query"`
}

type serviceArgs struct {
	Service string `json:"service"`
}

type rentalArgs struct {
	RentalID string `json:"rentalId"`
}

func (t *Toolbox) searchSMSServices(ctx context.Context, args queryArgs) (string, error) {
	results := t.engine.SearchServices(ctx, args.Query)
	if len(results) == 0 {
		return "", fail("No services found matching your criteria. Try a different search term.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d US non-VoIP SMS service(s):\n\n", len(results))
	for _, s := range results {
		fmt.Fprintf(&b, "  %s (%s)\n", s.Name, s.ID)
		fmt.Fprintf(&b, "    Category: %s\n", s.Category)
		b.WriteString("    Country:  US (non-VoIP)\n")
		fmt.Fprintf(&b, "    Price:    %s\n", s.Price)
		fmt.Fprintf(&b, "    Delivery: %s\n\n", s.EstimatedDelivery)
	}
	return b.String(), nil
}

func (t *Toolbox) getSMSPrice(ctx context.Context, args serviceArgs) (string, error) {
	svc, err := t.engine.ServicePrice(ctx, args.Service)
	if err != nil {
		return "", serviceError(err, args.Service)
	}

	return lines(
		svc.Name+" - US (non-VoIP)",
		"",
		"  Price:    "+svc.Price.String(),
		"  Delivery: "+svc.EstimatedDelivery,
	), nil
}

func (t *Toolbox) rentNumber(ctx context.Context, args serviceArgs) (string, error) {
	r, err := t.engine.RentNumber(ctx, args.Service)
	if err != nil {
		return "", serviceError(err, args.Service)
	}

	return lines(
		"Number rented!",
		"",
		"  Rental ID: "+r.ID.String(),
		"  Number:    "+r.Number,
		"  Service:   "+r.ServiceName,
		"  Country:   "+r.Country+" (non-VoIP)",
		"  Cost:      "+r.Price.String(),
		"  Expires:   "+format.TimeRemaining(r.CreatedAt, r.Expiry),
		"",
		"Use get_messages with the rental ID to check for incoming verification codes.",
	), nil
}

func (t *Toolbox) getMessages(ctx context.Context, args rentalArgs) (string, error) {
	res, err := t.engine.Messages(ctx, args.RentalID)
	switch {
	case errors.Is(err, sandbox.ErrRentalExpired):
		return "", fail("Rental %s has expired.", args.RentalID)
	case errors.Is(err, sandbox.ErrRentalCancelled):
		return "", fail("Rental %s has been cancelled.", args.RentalID)
	case err != nil:
		return "", rentalError(err, args.RentalID)
	}

	r := res.Rental
	if len(r.Messages) == 0 {
		return lines(
			fmt.Sprintf("No messages yet for %s (%s).", r.Number, r.Service),
			"",
			"Waiting for verification code... try again shortly.",
			fmt.Sprintf("Time since rental: %ds", int64(res.Elapsed.Seconds())),
		), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Messages for %s (%s):\n\n", r.Number, r.Service)
	for _, msg := range r.Messages {
		fmt.Fprintf(&b, "  [%s] From: %s\n", format.Clock(msg.ReceivedAt), msg.From)
		fmt.Fprintf(&b, "  %s\n\n", msg.Text)
	}
	return b.String(), nil
}

func (t *Toolbox) cancelRental(ctx context.Context, args rentalArgs) (string, error) {
	res, err := t.engine.CancelRental(ctx, args.RentalID)
	if err != nil {
		var se *sandbox.StateError
		if errors.As(err, &se) {
			return "", fail("Rental %s is %s and cannot be cancelled.", args.RentalID, se.Status)
		}
		return "", rentalError(err, args.RentalID)
	}

	if res.Rental.Refundable() {
		return lines(
			fmt.Sprintf("Rental %s cancelled.", args.RentalID),
			"",
			fmt.Sprintf("  Refund: %s (no messages received)", res.Refund),
			"  New balance: "+res.Balance.String(),
		), nil
	}
	return lines(
		fmt.Sprintf("Rental %s cancelled.", args.RentalID),
		"",
		"  No refund - messages were already received.",
	), nil
}

func serviceError(err error, service string) error {
	if sandbox.IsNotFound(err) {
		return fail("Service %q not found. Use search_sms_services to find available options.", service)
	}
	return err
}

func rentalError(err error, rentalID string) error {
	if sandbox.IsNotFound(err) {
		return fail("Rental not found: %s", rentalID)
	}
	return err
}
