// Package redis implements the idempotency cache on Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// Idempotency lookup: idem:order:{customer_id}:{idempotency_key} -> order_id
const keyIdemOrder = "idem:order:%s:%s"

// TTLIdempotency bounds how long a create request is answered from the cache.
// The durable per-customer unique key remains authoritative after expiry.
var TTLIdempotency = 24 * time.Hour

// IdempotencyCache implements ports.IdempotencyCache backed by a Redis client.
type IdempotencyCache struct {
	client *redis.Client
}

// NewIdempotencyCache creates a Redis-backed idempotency cache.
func NewIdempotencyCache(client *redis.Client) (*IdempotencyCache, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	return &IdempotencyCache{client: client}, nil
}

// Get returns the cached order id for the key, or (nil, nil) on a miss.
func (c *IdempotencyCache) Get(ctx context.Context, customerID kernel.UUID, key string) (*kernel.UUID, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errs.NewValueIsRequiredError("key")
	}

	raw, err := c.client.Get(ctx, c.cacheKey(customerID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromString(raw)
	if err != nil {
		// A corrupt entry behaves like a miss so the durable lookup decides.
		return nil, err
	}
	return &orderID, nil
}

// Set records the order id for the key with the cache TTL.
func (c *IdempotencyCache) Set(ctx context.Context, customerID kernel.UUID, key string, orderID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	if key == "" {
		return errs.NewValueIsRequiredError("key")
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	return c.client.Set(ctx, c.cacheKey(customerID, key), orderID.String(), TTLIdempotency).Err()
}

func (c *IdempotencyCache) cacheKey(customerID kernel.UUID, key string) string {
	return fmt.Sprintf(keyIdemOrder, customerID.String(), key)
}
