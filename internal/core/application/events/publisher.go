// Package events implements transactional publishing of domain events.
// Events are written durably in the same transaction as the change they
// describe; the broadcast to the message bus runs only after the commit, so
// a rolled back transaction never leaks an event. Broadcast failures leave
// the event unpublished in storage for the relay job to retry.
package events

import (
	"context"
	"log/slog"
	"time"

	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/ports"
)

// Publisher stages domain events inside a transaction and broadcasts them
// after the commit succeeds. The marker repository is bound to the main
// connection, not the transaction, because the published marker is written
// after the transaction is gone.
type Publisher struct {
	broadcaster ports.EventBroadcaster
	marker      ports.EventRepository
	logger      *slog.Logger
}

// NewPublisher creates a Publisher. marker must be an event repository bound
// to the main database connection.
func NewPublisher(broadcaster ports.EventBroadcaster, marker ports.EventRepository, logger *slog.Logger) *Publisher {
	return &Publisher{
		broadcaster: broadcaster,
		marker:      marker,
		logger:      logger.With("component", "event_publisher"),
	}
}

// Stage persists the event through the transaction-bound repository and
// schedules its broadcast to run after the commit. Broadcast and marker
// failures are logged, never returned: the event stays unpublished and the
// relay job picks it up.
func (p *Publisher) Stage(ctx context.Context, txEvents ports.EventRepository,
	hooks ports.PostCommitHooks, event *order.DomainEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if err := txEvents.Add(ctx, event); err != nil {
		return err
	}

	hooks.RegisterPostCommit(func(ctx context.Context) {
		if err := p.broadcaster.Broadcast(ctx, event); err != nil {
			p.logger.Error("event broadcast failed, leaving unpublished for relay",
				"eventId", event.ID(), "orderId", event.OrderID(), "error", err)
			return
		}

		if err := p.marker.MarkPublished(ctx, time.Now().UTC(), event.ID()); err != nil {
			p.logger.Error("failed to mark event as published",
				"eventId", event.ID(), "error", err)
		}
	})

	return nil
}
