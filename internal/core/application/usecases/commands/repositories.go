// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends only on the repositories it actually touches.
type (
	// TxManager handles database transaction lifecycle and post-commit hooks.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		ports.PostCommitHooks

		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ProductRepoFactory provides access to the product repository within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// CustomerRepoFactory provides access to the customer repository within a transaction.
	CustomerRepoFactory interface {
		CustomerRepository() ports.CustomerRepository
	}

	// EventRepoFactory provides access to the event repository within a transaction.
	EventRepoFactory interface {
		EventRepository() ports.EventRepository
	}

	// CreateOrderUoW manages transactions for order creation: it reads the
	// customer, locks and debits products, and writes the order with its
	// creation event.
	CreateOrderUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
		CustomerRepoFactory
		EventRepoFactory
	}

	// CreateOrderUoWFactory creates new units of work for order creation.
	CreateOrderUoWFactory interface {
		Create() CreateOrderUoW
	}

	// ChangeStatusUoW manages transactions for status changes on a single
	// locked order.
	ChangeStatusUoW interface {
		TxManager
		OrderRepoFactory
		EventRepoFactory
	}

	// ChangeStatusUoWFactory creates new units of work for status changes.
	ChangeStatusUoWFactory interface {
		Create() ChangeStatusUoW
	}

	// CancelOrderUoW manages transactions for cancellation, which credits
	// stock back to products in addition to the status change.
	CancelOrderUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
		EventRepoFactory
	}

	// CancelOrderUoWFactory creates new units of work for cancellation.
	CancelOrderUoWFactory interface {
		Create() CancelOrderUoW
	}
)

// EventPublisher persists a domain event inside the current transaction and
// schedules its broadcast to run after the commit.
type EventPublisher interface {
	Stage(ctx context.Context, txEvents ports.EventRepository, hooks ports.PostCommitHooks, event *order.DomainEvent) error
}
