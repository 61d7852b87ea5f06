package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/pkg/errs"
	"ordercore/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents a request to move an order to a new
// status. The transition is validated against the order state machine by the
// aggregate; the command only checks that the target status is a defined one.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	toStatus  order.Status
	changedBy *kernel.UUID
	note      string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a command to change an order's status.
// changedBy identifies the acting user and is nil for system-initiated
// changes.
func NewChangeOrderStatusCommand(orderID kernel.UUID, toStatus order.Status,
	changedBy *kernel.UUID, note string) (ChangeOrderStatusCommand, error) {
	statusCommand := ChangeOrderStatusCommand{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setToStatus(toStatus),
		statusCommand.setChangedBy(changedBy),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to change.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ToStatus returns the target status.
func (c ChangeOrderStatusCommand) ToStatus() order.Status {
	return c.toStatus
}

// ChangedBy returns the acting user, or nil for system-initiated changes.
func (c ChangeOrderStatusCommand) ChangedBy() *kernel.UUID {
	return c.changedBy
}

// Note returns the free-form note recorded in the status history.
func (c ChangeOrderStatusCommand) Note() string {
	return c.note
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setToStatus(toStatus order.Status) error {
	if err := toStatus.Validate(); err != nil {
		return err
	}

	c.toStatus = toStatus
	return nil
}

func (c *ChangeOrderStatusCommand) setChangedBy(changedBy *kernel.UUID) error {
	if changedBy != nil {
		if err := changedBy.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("changedBy", err)
		}
	}

	c.changedBy = changedBy
	return nil
}
