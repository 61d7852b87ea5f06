package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"ordercore/internal/core/application/events"
)

// EventRelayJob periodically re-broadcasts committed events that were never
// delivered to the bus, completing the at-least-once delivery guarantee.
type EventRelayJob struct {
	relay  *events.Relay
	cron   *cron.Cron
	logger *slog.Logger
}

// NewEventRelayJob creates a job that runs the outbox relay every five seconds.
func NewEventRelayJob(relay *events.Relay, logger *slog.Logger) *EventRelayJob {
	return &EventRelayJob{
		relay:  relay,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "event_relay_job"),
	}
}

// Start begins the relay schedule.
func (j *EventRelayJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()

		if _, err := j.relay.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Event relay job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Event relay job started (running every 5 seconds)")
	return nil
}

// Stop stops the relay schedule.
func (j *EventRelayJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Event relay job stopped")
}
