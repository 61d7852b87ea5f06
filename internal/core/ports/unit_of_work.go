package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// PostCommitHooks schedules side effects that must only happen after a
// successful commit, such as broadcasting domain events.
type PostCommitHooks interface {
	// RegisterPostCommit schedules fn to run after a successful Commit.
	// Hooks are discarded on Rollback.
	RegisterPostCommit(fn func(ctx context.Context))
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control, repositories bound to the transaction,
// and hooks that run only after a successful commit.
// Client code must explicitly manage the transaction lifecycle.
type UnitOfWork interface {
	PostCommitHooks

	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and then runs the registered
	// post-commit hooks. Hook failures do not fail the commit.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and discards any
	// registered post-commit hooks.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// ProductRepository returns a ProductRepository bound to the current transaction.
	ProductRepository() ProductRepository

	// CustomerRepository returns a CustomerRepository bound to the current transaction.
	CustomerRepository() CustomerRepository

	// EventRepository returns an EventRepository bound to the current transaction.
	EventRepository() EventRepository
}
