// Package eventrepo implements the domain event outbox persistence.
package eventrepo

import (
	"time"

	"github.com/google/uuid"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
)

// EventDTO represents the database structure for the order event outbox.
type EventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	EventType   string    `gorm:"size:64"`
	Payload     []byte    `gorm:"type:jsonb"`
	OccurredAt  time.Time
	PublishedAt *time.Time `gorm:"index"`
}

// TableName specifies the database table name for order events.
func (EventDTO) TableName() string {
	return "order_events"
}

func fromDomain(event *order.DomainEvent) EventDTO {
	return EventDTO{
		ID:          event.ID().Bytes(),
		OrderID:     event.OrderID().Bytes(),
		EventType:   event.EventType(),
		Payload:     event.Payload(),
		OccurredAt:  event.OccurredAt(),
		PublishedAt: event.PublishedAt(),
	}
}

func toDomain(dto EventDTO) (*order.DomainEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreDomainEvent(id, orderID, dto.EventType, dto.Payload, dto.OccurredAt, dto.PublishedAt)
}
