package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for catalog products.
type ProductRepository interface {
	// Get retrieves a product by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetForUpdate retrieves products while holding row locks for the
	// duration of the surrounding transaction. Rows are locked in a
	// deterministic order regardless of the order of ids, so concurrent
	// multi-product reservations never deadlock each other.
	GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error)

	// Update persists stock changes to existing products.
	Update(ctx context.Context, products ...*product.Product) error
}
