package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
)

// IdempotencyCache is a fast best-effort lookup from (customer, idempotency
// key) to a previously created order id. A cache miss is never authoritative;
// callers fall through to the durable store. Cache failures are reported as
// errors so callers can log them, but never abort the operation.
type IdempotencyCache interface {
	// Get returns the cached order id for the key, or (nil, nil) on a miss.
	Get(ctx context.Context, customerID kernel.UUID, key string) (*kernel.UUID, error)

	// Set records the order id for the key with the cache's TTL.
	Set(ctx context.Context, customerID kernel.UUID, key string, orderID kernel.UUID) error
}
