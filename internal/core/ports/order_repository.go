package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Implementations persist the order together with its items and any
// uncommitted status history, and translate storage-level unique violations
// on (customer, idempotency key) into order.ErrAlreadyExists.
type OrderRepository interface {
	// Add persists a new order aggregate with its items and staged history.
	// Returns order.ErrAlreadyExists if another order with the same customer
	// and idempotency key was persisted first.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate and appends
	// its staged history records.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items and full status history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order while holding a row lock for the
	// duration of the surrounding transaction. Used by status changes and
	// cancellation to serialize concurrent writers.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByIdempotencyKey retrieves the order previously created by the
	// same customer with the same idempotency key, if any.
	GetByIdempotencyKey(ctx context.Context, customerID kernel.UUID, key string) (*order.Order, error)
}
