package ports

import (
	"context"

	"ordercore/internal/core/domain/model/order"
)

// EventBroadcaster delivers domain events to the message bus. Delivery is
// at-least-once: events that fail to broadcast stay unpublished in storage
// and are retried by the relay job.
type EventBroadcaster interface {
	// Broadcast delivers the events to the bus.
	Broadcast(ctx context.Context, events ...*order.DomainEvent) error
}
