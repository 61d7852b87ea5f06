package order

import (
	"fmt"

	"ordercore/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It is a string-valued
// enum so the persisted form stays readable in the database and in event
// payloads.
//
// State transitions:
//
//	PENDING ──┬──> CONFIRMED ──┬──> PICKED ──> SHIPPED ──> DELIVERED
//	          │                │
//	          └──> CANCELED <──┘
//
// DELIVERED and CANCELED are terminal. Every transition is validated against
// the adjacency table below; anything not listed is rejected as a conflict,
// including self-transitions.
type Status string

const (
	// StatusPending is the initial status of every created order.
	StatusPending Status = "PENDING"

	// StatusConfirmed indicates the order has been accepted for fulfillment.
	StatusConfirmed Status = "CONFIRMED"

	// StatusPicked indicates the order's items have been picked from stock.
	StatusPicked Status = "PICKED"

	// StatusShipped indicates the order has left the warehouse.
	StatusShipped Status = "SHIPPED"

	// StatusDelivered indicates the order reached the customer. Terminal.
	StatusDelivered Status = "DELIVERED"

	// StatusCanceled indicates the order was canceled and its stock
	// released. Terminal.
	StatusCanceled Status = "CANCELED"
)

// validNext is the full transition table. A missing entry means the
// transition is illegal.
var validNext = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {StatusPicked, StatusCanceled},
	StatusPicked:    {StatusShipped},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCanceled:  {},
}

// CanTransition reports whether moving from one status to another is legal.
// Pure table lookup with no side effects.
func CanTransition(from, to Status) bool {
	for _, next := range validNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Validate checks that the Status is one of the defined enum values. Used
// when reconstructing orders from persistence or parsing API input.
func (s Status) Validate() error {
	if _, ok := validNext[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(validNext[s]) == 0 && s.Validate() == nil
}

// IsCancelable reports whether an order in this status may be canceled.
func (s Status) IsCancelable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// String returns the persisted form of the status.
func (s Status) String() string {
	return string(s)
}
