package ports

import (
	"context"

	"ordercore/internal/core/domain/model/customer"
	"ordercore/internal/core/domain/model/kernel"
)

// CustomerRepository defines the read contract for customers.
type CustomerRepository interface {
	// Get retrieves a customer by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error)
}
