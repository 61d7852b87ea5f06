package jobs

import (
	"fmt"
	"log/slog"

	"ordercore/internal/core/application/events"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	eventRelayJob *EventRelayJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(relay *events.Relay, logger *slog.Logger) *JobManager {
	return &JobManager{
		eventRelayJob: NewEventRelayJob(relay, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.eventRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start event relay job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.eventRelayJob.Stop()
}
