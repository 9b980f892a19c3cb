// Package sms models rented phone numbers that receive verification codes.
package sms

import (
	"fmt"
	"time"

	"github.com/xraph/sandbox/id"
	"github.com/xraph/sandbox/types"
)

// RentalDuration is how long a number stays rented.
const RentalDuration = 5 * time.Minute

// DeliveryDelay is the minimum rental age before a code arrives.
const DeliveryDelay = 5 * time.Second

// Country is the only country numbers are rented in.
const Country = "US"

// Status is the lifecycle state of a rental.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Message is one SMS received by a rented number.
type Message struct {
	From       string    `json:"from"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// Rental is a phone number rented for one service.
type Rental struct {
	ID          id.RentalID `json:"id"`
	Number      string      `json:"number"`
	Service     string      `json:"service"`
	ServiceName string      `json:"service_name"`
	Country     string      `json:"country"`
	Status      Status      `json:"status"`
	Messages    []Message   `json:"messages"`
	Price       types.Money `json:"price"`
	Expiry      time.Time   `json:"expiry"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewRental mints an active rental created at now.
func NewRental(number, service, serviceName string, price types.Money, now time.Time) *Rental {
	return &Rental{
		ID:          id.NewRentalID(),
		Number:      number,
		Service:     service,
		ServiceName: serviceName,
		Country:     Country,
		Status:      StatusActive,
		Messages:    []Message{},
		Price:       price,
		Expiry:      now.Add(RentalDuration),
		CreatedAt:   now,
	}
}

// RecordID implements registry.Record.
func (r *Rental) RecordID() string { return r.ID.String() }

// Refresh expires an active rental once its expiry is reached.
func (r *Rental) Refresh(now time.Time) bool {
	if r.Status == StatusActive && !now.Before(r.Expiry) {
		r.Status = StatusExpired
		return true
	}
	return false
}

// Elapsed returns the rental age at now.
func (r *Rental) Elapsed(now time.Time) time.Duration {
	return now.Sub(r.CreatedAt)
}

// ReadyForDelivery reports whether a code should arrive on the next read.
func (r *Rental) ReadyForDelivery(now time.Time) bool {
	return r.Status == StatusActive && len(r.Messages) == 0 && r.Elapsed(now) >= DeliveryDelay
}

// Deliver appends the verification message when the rental is ready and
// reports whether one was added.
func (r *Rental) Deliver(code string, now time.Time) bool {
	if !r.ReadyForDelivery(now) {
		return false
	}
	r.Messages = append(r.Messages, Message{
		From:       r.Service,
		Text:       fmt.Sprintf("Your %s verification code is: %s", r.Service, code),
		ReceivedAt: now,
	})
	return true
}

// Refundable reports whether cancelling returns the full price.
func (r *Rental) Refundable() bool { return len(r.Messages) == 0 }

// Clone returns a deep copy safe to hand to callers.
func (r *Rental) Clone() *Rental {
	c := *r
	c.Messages = append([]Message(nil), r.Messages...)
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	return &c
}
