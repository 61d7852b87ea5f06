package events

import (
	"context"
	"log/slog"
	"time"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/ports"
	"ordercore/internal/pkg/errs"
)

// DefaultRelayBatchSize bounds how many events one relay pass re-broadcasts.
const DefaultRelayBatchSize = 100

// Relay re-broadcasts events that were committed but never delivered, for
// example when the bus was down during the post-commit broadcast or the
// process crashed between commit and broadcast.
type Relay struct {
	events      ports.EventRepository
	broadcaster ports.EventBroadcaster
	batchSize   int
	logger      *slog.Logger
}

// NewRelay creates a Relay over the main-connection event repository.
func NewRelay(events ports.EventRepository, broadcaster ports.EventBroadcaster,
	batchSize int, logger *slog.Logger) (*Relay, error) {
	if batchSize < 1 {
		return nil, errs.NewValueIsInvalidError("batchSize")
	}

	return &Relay{
		events:      events,
		broadcaster: broadcaster,
		batchSize:   batchSize,
		logger:      logger.With("component", "event_relay"),
	}, nil
}

// Run broadcasts one batch of unpublished events and marks them published.
// Returns the number of events delivered.
func (r *Relay) Run(ctx context.Context) (int, error) {
	pending, err := r.events.ListUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if err := r.broadcaster.Broadcast(ctx, pending...); err != nil {
		return 0, err
	}

	eventIDs := make([]kernel.UUID, 0, len(pending))
	for _, event := range pending {
		eventIDs = append(eventIDs, event.ID())
	}

	if err := r.events.MarkPublished(ctx, time.Now().UTC(), eventIDs...); err != nil {
		// The events were delivered; a failed marker means they will be
		// delivered again on the next pass. Consumers deduplicate by event id.
		r.logger.Warn("failed to mark relayed events as published", "count", len(pending), "error", err)
		return len(pending), err
	}

	r.logger.Info("relayed unpublished events", "count", len(pending))
	return len(pending), nil
}
