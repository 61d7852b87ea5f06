package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
	"ordercore/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents a request to cancel an order and release its
// reserved stock back to the catalog.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	canceledBy *kernel.UUID
	note       string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order. canceledBy
// identifies the acting user and is nil for system-initiated cancellations.
// An empty note defaults to "canceled" in the audit history.
func NewCancelOrderCommand(orderID kernel.UUID, canceledBy *kernel.UUID, note string) (CancelOrderCommand, error) {
	cancelCommand := CancelOrderCommand{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cancelCommand.setOrderID(orderID),
		cancelCommand.setCanceledBy(canceledBy),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CanceledBy returns the acting user, or nil for system-initiated
// cancellations.
func (c CancelOrderCommand) CanceledBy() *kernel.UUID {
	return c.canceledBy
}

// Note returns the free-form note recorded in the status history.
func (c CancelOrderCommand) Note() string {
	return c.note
}

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}

	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setCanceledBy(canceledBy *kernel.UUID) error {
	if canceledBy != nil {
		if err := canceledBy.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("canceledBy", err)
		}
	}

	c.canceledBy = canceledBy
	return nil
}
