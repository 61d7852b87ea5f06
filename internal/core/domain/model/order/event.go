package order

import (
	"encoding/json"
	"errors"
	"time"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
	"ordercore/internal/pkg/guard"
)

// EventTypeStatusChanged is emitted on every status transition, including the
// implicit creation transition.
const EventTypeStatusChanged = "ORDER_STATUS_CHANGED"

var ErrEventIsNotConstructed = errs.NewValueIsRequiredError(
	"domain event must be created via NewStatusChangedEvent or RestoreDomainEvent")

// ErrAlreadyExists signals that an order with the same customer and
// idempotency key was persisted concurrently. Repositories translate
// storage-level unique violations into this sentinel.
var ErrAlreadyExists = errors.New("order already exists")

// StatusChangedPayload is the JSON body of an ORDER_STATUS_CHANGED event.
type StatusChangedPayload struct {
	OrderID    string `json:"order_id"`
	Number     string `json:"number"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Note       string `json:"note"`
}

// DomainEvent is a durable record of something that happened to an order.
// Events are written in the same transaction as the change they describe and
// broadcast to the message bus afterwards; publishedAt is nil until the
// broadcast succeeds.
type DomainEvent struct {
	guard.ConstructorGuard

	id          kernel.UUID
	orderID     kernel.UUID
	eventType   string
	payload     json.RawMessage
	occurredAt  time.Time
	publishedAt *time.Time
}

// NewStatusChangedEvent builds an unpublished ORDER_STATUS_CHANGED event for
// the given transition.
func NewStatusChangedEvent(anOrder *Order, from Status, to Status, note string) (*DomainEvent, error) {
	if err := anOrder.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(StatusChangedPayload{
		OrderID:    anOrder.ID().String(),
		Number:     anOrder.Number(),
		FromStatus: from.String(),
		ToStatus:   to.String(),
		Note:       note,
	})
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	return RestoreDomainEvent(kernel.NewUUID(), anOrder.ID(), EventTypeStatusChanged, payload, time.Now().UTC(), nil)
}

// RestoreDomainEvent reconstructs an event from persistence.
func RestoreDomainEvent(id kernel.UUID, orderID kernel.UUID, eventType string,
	payload json.RawMessage, occurredAt time.Time, publishedAt *time.Time) (*DomainEvent, error) {
	event := &DomainEvent{
		ConstructorGuard: guard.NewConstructorGuard(),
	}

	err := errors.Join(
		event.setID(id),
		event.setOrderID(orderID),
		event.setEventType(eventType),
		event.setPayload(payload),
		event.setOccurredAt(occurredAt),
	)
	if err != nil {
		return nil, err
	}
	event.publishedAt = publishedAt

	return event, nil
}

func (e *DomainEvent) ID() kernel.UUID {
	return e.id
}

func (e *DomainEvent) OrderID() kernel.UUID {
	return e.orderID
}

func (e *DomainEvent) EventType() string {
	return e.eventType
}

func (e *DomainEvent) Payload() json.RawMessage {
	return e.payload
}

func (e *DomainEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// PublishedAt returns the broadcast timestamp, or nil if the event has not
// been delivered to the message bus yet.
func (e *DomainEvent) PublishedAt() *time.Time {
	return e.publishedAt
}

// MarkPublished records that the event was delivered to the message bus.
func (e *DomainEvent) MarkPublished(at time.Time) {
	published := at.UTC()
	e.publishedAt = &published
}

func (e *DomainEvent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	e.id = id
	return nil
}

func (e *DomainEvent) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	e.orderID = orderID
	return nil
}

func (e *DomainEvent) setEventType(eventType string) error {
	if eventType == "" {
		return errs.NewValueIsRequiredError("eventType")
	}
	e.eventType = eventType
	return nil
}

func (e *DomainEvent) setPayload(payload json.RawMessage) error {
	if len(payload) == 0 {
		return errs.NewValueIsRequiredError("payload")
	}
	e.payload = payload
	return nil
}

func (e *DomainEvent) setOccurredAt(occurredAt time.Time) error {
	if occurredAt.IsZero() {
		return errs.NewValueIsRequiredError("occurredAt")
	}
	e.occurredAt = occurredAt
	return nil
}

// Validate checks that the DomainEvent was built through a constructor.
func (e *DomainEvent) Validate() error {
	return e.ConstructorGuard.Validate(ErrEventIsNotConstructed)
}
