package ports

import (
	"context"
	"time"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
)

// EventRepository defines the persistence contract for durable domain
// events. Events are written in the same transaction as the change they
// describe; the published marker is set only after a successful broadcast.
type EventRepository interface {
	// Add persists a new domain event.
	Add(ctx context.Context, event *order.DomainEvent) error

	// ListUnpublished returns events that have not been broadcast yet,
	// oldest first, up to limit.
	ListUnpublished(ctx context.Context, limit int) ([]*order.DomainEvent, error)

	// MarkPublished stamps the events with the broadcast time.
	MarkPublished(ctx context.Context, at time.Time, ids ...kernel.UUID) error
}
