package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/customer"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/product"
	"ordercore/internal/pkg/errs"
	"ordercore/internal/pkg/guard"
)

var ErrOrderIsNotConstructed = errs.NewValueIsRequiredError("order must be created via NewOrder or RestoreOrder")

const (
	maxIdempotencyKeyLength = 128

	creationNote = "order created"
	cancelNote   = "canceled"
)

// Order is the aggregate root of the ordering domain. It owns its items and
// the append-only history of status changes, and enforces the status state
// machine.
//
// Invariants:
//   - An order always has at least one item; totals equal the sum of item
//     subtotals with prices snapshotted at creation time.
//   - Status transitions follow the table in status.go; illegal transitions
//     fail without mutating the aggregate.
//   - Every transition, including creation, produces a StatusChange record.
//   - The (customerID, idempotencyKey) pair is unique per order; retries of
//     a creation return the original order.
//
// Status changes produced since the aggregate was loaded are staged in
// uncommittedHistory and drained by the repository on save, mirroring how
// the storage layer tracks aggregates per transaction.
type Order struct {
	guard.ConstructorGuard

	id             kernel.UUID
	customerID     kernel.UUID
	number         string
	status         Status
	total          decimal.Decimal
	observations   string
	idempotencyKey string
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time

	items   []*Item
	history []*StatusChange

	uncommittedHistory []*StatusChange
}

// NewOrder creates a PENDING order for an active customer. Items must be
// added afterwards via AddItem; the creation history record is staged here.
func NewOrder(aCustomer *customer.Customer, idempotencyKey string, observations string, now time.Time) (*Order, error) {
	if err := aCustomer.Validate(); err != nil {
		return nil, err
	}
	if !aCustomer.IsActive() {
		return nil, errs.NewConflictError(fmt.Sprintf("customer %s is inactive", aCustomer.ID()))
	}

	now = now.UTC()
	anOrder, err := RestoreOrder(kernel.NewUUID(), aCustomer.ID(), GenerateNumber(now), StatusPending,
		decimal.Zero, observations, idempotencyKey, now, now, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	created, err := NewStatusChange(anOrder.id, StatusPending, StatusPending, nil, creationNote)
	if err != nil {
		return nil, err
	}
	anOrder.appendHistory(created)

	return anOrder, nil
}

// RestoreOrder reconstructs an order from persistence. Items and history may
// be nil when the caller loads a partial view.
func RestoreOrder(id kernel.UUID, customerID kernel.UUID, number string, status Status,
	total decimal.Decimal, observations string, idempotencyKey string,
	createdAt time.Time, updatedAt time.Time, deletedAt *time.Time,
	items []*Item, history []*StatusChange) (*Order, error) {
	anOrder := &Order{
		ConstructorGuard: guard.NewConstructorGuard(),
	}

	err := errors.Join(
		anOrder.setID(id),
		anOrder.setCustomerID(customerID),
		anOrder.setNumber(number),
		anOrder.setStatus(status),
		anOrder.setTotal(total),
		anOrder.setIdempotencyKey(idempotencyKey),
		anOrder.setCreatedAt(createdAt),
		anOrder.setUpdatedAt(updatedAt),
	)
	if err != nil {
		return nil, err
	}

	anOrder.observations = observations
	anOrder.deletedAt = deletedAt
	anOrder.items = items
	anOrder.history = history

	return anOrder, nil
}

// AddItem reserves stock on the product and appends a line with the current
// product price. The product must be active and hold enough stock; on any
// failure neither the order nor the product is mutated.
func (o *Order) AddItem(aProduct *product.Product, quantity int) error {
	if err := aProduct.Validate(); err != nil {
		return err
	}
	if !aProduct.IsActive() {
		return errs.NewConflictError(fmt.Sprintf("product %s is inactive", aProduct.SKU()))
	}

	item, err := NewItem(aProduct.ID(), quantity, aProduct.Price())
	if err != nil {
		return err
	}

	if err := aProduct.DebitStock(quantity); err != nil {
		return err
	}

	o.items = append(o.items, item)
	o.total = o.total.Add(item.Subtotal())
	return nil
}

// ChangeStatus moves the order to a new status, recording the change in
// history. An illegal transition is a conflict and leaves the order intact.
// changedBy is nil for system-initiated changes.
func (o *Order) ChangeStatus(to Status, changedBy *kernel.UUID, note string) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !CanTransition(o.status, to) {
		return errs.NewConflictError(fmt.Sprintf(
			"invalid status transition %s -> %s for order %s", o.status, to, o.number))
	}

	change, err := NewStatusChange(o.id, o.status, to, changedBy, note)
	if err != nil {
		return err
	}

	o.status = to
	o.updatedAt = change.ChangedAt()
	o.appendHistory(change)
	return nil
}

// Cancel moves the order to CANCELED. Only PENDING and CONFIRMED orders may
// be canceled; the caller is responsible for crediting stock back to the
// products under the same transaction. An empty note defaults to "canceled".
func (o *Order) Cancel(changedBy *kernel.UUID, note string) error {
	if !o.status.IsCancelable() {
		return errs.NewConflictError(fmt.Sprintf(
			"order %s cannot be canceled in status %s", o.number, o.status))
	}
	if note == "" {
		note = cancelNote
	}
	return o.ChangeStatus(StatusCanceled, changedBy, note)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Total() decimal.Decimal {
	return o.total
}

func (o *Order) Observations() string {
	return o.observations
}

func (o *Order) IdempotencyKey() string {
	return o.idempotencyKey
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) DeletedAt() *time.Time {
	return o.deletedAt
}

func (o *Order) Items() []*Item {
	return o.items
}

// History returns the loaded status history, oldest first.
func (o *Order) History() []*StatusChange {
	return o.history
}

// UncommittedHistory returns status changes staged since the aggregate was
// created or loaded. The repository persists and clears them on save.
func (o *Order) UncommittedHistory() []*StatusChange {
	return o.uncommittedHistory
}

// ClearUncommittedHistory is called by the repository after the staged
// changes have been written.
func (o *Order) ClearUncommittedHistory() {
	o.uncommittedHistory = nil
}

func (o *Order) appendHistory(change *StatusChange) {
	o.history = append(o.history, change)
	o.uncommittedHistory = append(o.uncommittedHistory, change)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("number")
	}
	o.number = number
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setTotal(total decimal.Decimal) error {
	if total.IsNegative() {
		return errs.NewValueIsInvalidError("total")
	}
	o.total = total
	return nil
}

func (o *Order) setIdempotencyKey(idempotencyKey string) error {
	if idempotencyKey == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		return errs.NewValueIsOutOfRangeError("idempotencyKey", len(idempotencyKey), 1, maxIdempotencyKeyLength)
	}
	o.idempotencyKey = idempotencyKey
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}

func (o *Order) setUpdatedAt(updatedAt time.Time) error {
	if updatedAt.IsZero() {
		return errs.NewValueIsRequiredError("updatedAt")
	}
	o.updatedAt = updatedAt
	return nil
}

// Validate checks that the Order was built through a constructor.
func (o *Order) Validate() error {
	return o.ConstructorGuard.Validate(ErrOrderIsNotConstructed)
}
