// Package jobs provides scheduled background tasks for the order system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for reliable event delivery.
//
// # Available Jobs
//
// 1. EventRelayJob - Runs every five seconds to re-broadcast committed
// domain events that were never delivered to the message bus.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(relay, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Relay failures are logged and retried on the next tick; events stay
// unpublished in storage until a pass succeeds.
package jobs
