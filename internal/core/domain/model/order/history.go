package order

import (
	"errors"
	"time"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
	"ordercore/internal/pkg/guard"
)

var ErrStatusChangeIsNotConstructed = errs.NewValueIsRequiredError(
	"status change must be created via NewStatusChange or RestoreStatusChange")

// StatusChange is one audit record of an order's status history. Records are
// append-only: once written they are never updated or deleted. The first
// record of every order is PENDING -> PENDING with the creation note.
type StatusChange struct {
	guard.ConstructorGuard

	id         kernel.UUID
	orderID    kernel.UUID
	fromStatus Status
	toStatus   Status
	changedAt  time.Time
	changedBy  *kernel.UUID
	note       string
}

// NewStatusChange creates an audit record for a transition happening now.
// changedBy is nil for system-initiated changes.
func NewStatusChange(orderID kernel.UUID, from Status, to Status, changedBy *kernel.UUID, note string) (*StatusChange, error) {
	return RestoreStatusChange(kernel.NewUUID(), orderID, from, to, time.Now().UTC(), changedBy, note)
}

// RestoreStatusChange reconstructs an audit record from persistence.
func RestoreStatusChange(id kernel.UUID, orderID kernel.UUID, from Status, to Status,
	changedAt time.Time, changedBy *kernel.UUID, note string) (*StatusChange, error) {
	change := &StatusChange{
		ConstructorGuard: guard.NewConstructorGuard(),
	}

	err := errors.Join(
		change.setID(id),
		change.setOrderID(orderID),
		change.setFromStatus(from),
		change.setToStatus(to),
		change.setChangedAt(changedAt),
		change.setChangedBy(changedBy),
		change.setNote(note),
	)
	if err != nil {
		return nil, err
	}

	return change, nil
}

func (c *StatusChange) ID() kernel.UUID {
	return c.id
}

func (c *StatusChange) OrderID() kernel.UUID {
	return c.orderID
}

func (c *StatusChange) FromStatus() Status {
	return c.fromStatus
}

func (c *StatusChange) ToStatus() Status {
	return c.toStatus
}

func (c *StatusChange) ChangedAt() time.Time {
	return c.changedAt
}

// ChangedBy returns the actor that caused the change, or nil for
// system-initiated changes.
func (c *StatusChange) ChangedBy() *kernel.UUID {
	return c.changedBy
}

func (c *StatusChange) Note() string {
	return c.note
}

func (c *StatusChange) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	c.id = id
	return nil
}

func (c *StatusChange) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = orderID
	return nil
}

func (c *StatusChange) setFromStatus(from Status) error {
	if err := from.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("fromStatus", err)
	}
	c.fromStatus = from
	return nil
}

func (c *StatusChange) setToStatus(to Status) error {
	if err := to.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("toStatus", err)
	}
	c.toStatus = to
	return nil
}

func (c *StatusChange) setChangedAt(changedAt time.Time) error {
	if changedAt.IsZero() {
		return errs.NewValueIsRequiredError("changedAt")
	}
	c.changedAt = changedAt
	return nil
}

func (c *StatusChange) setChangedBy(changedBy *kernel.UUID) error {
	if changedBy != nil {
		if err := changedBy.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("changedBy", err)
		}
	}
	c.changedBy = changedBy
	return nil
}

func (c *StatusChange) setNote(note string) error {
	c.note = note
	return nil
}

// Validate checks that the StatusChange was built through a constructor.
func (c *StatusChange) Validate() error {
	return c.ConstructorGuard.Validate(ErrStatusChangeIsNotConstructed)
}
