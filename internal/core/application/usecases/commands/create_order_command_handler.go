package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/product"
	"ordercore/internal/core/ports"
	"ordercore/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order creation.
//
// Creation is idempotent per (customer, idempotency key): a repeated request
// returns the originally created order without touching stock again. The
// handler verifies the customer first, then consults the cache and the
// durable store, and only then creates the order, locking all requested
// products in one transaction so multi-item stock reservation is
// all-or-nothing. An inactive customer is a conflict even on a retry that
// would otherwise hit the idempotent path.
type CreateOrderCommandHandler struct {
	uowFactory CreateOrderUoWFactory
	cache      ports.IdempotencyCache
	publisher  EventPublisher
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory CreateOrderUoWFactory, cache ports.IdempotencyCache,
	publisher EventPublisher, logger *slog.Logger) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		publisher:  publisher,
		logger:     logger.With("component", "create_order_handler"),
	}
}

// Handle processes the order creation command. The returned bool is true
// when a new order was created and false when an existing order was found
// for the same idempotency key.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, bool, error) {
	if err := cmd.Validate(); err != nil {
		return nil, false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aCustomer, err := uow.CustomerRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return nil, false, err
	}
	if !aCustomer.IsActive() {
		return nil, false, errs.NewConflictError(fmt.Sprintf("customer %s is inactive", aCustomer.ID()))
	}

	if existing, err := h.findExisting(ctx, uow, cmd); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	anOrder, err := order.NewOrder(aCustomer, cmd.IdempotencyKey(), cmd.Observations(), time.Now())
	if err != nil {
		return nil, false, err
	}

	products, err := h.reserveStock(ctx, uow, anOrder, cmd.Items())
	if err != nil {
		return nil, false, err
	}

	if err = uow.OrderRepository().Add(ctx, anOrder); err != nil {
		if errors.Is(err, order.ErrAlreadyExists) {
			// Lost the race to a concurrent retry; the winner's order is
			// the canonical one.
			_ = uow.Rollback(ctx)
			return h.recoverWinner(ctx, cmd)
		}
		return nil, false, err
	}

	if err = uow.ProductRepository().Update(ctx, products...); err != nil {
		return nil, false, err
	}

	event, err := order.NewStatusChangedEvent(anOrder, order.StatusPending, order.StatusPending, "order created")
	if err != nil {
		return nil, false, err
	}
	if err = h.publisher.Stage(ctx, uow.EventRepository(), uow, event); err != nil {
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	if err = h.cache.Set(ctx, cmd.CustomerID(), cmd.IdempotencyKey(), anOrder.ID()); err != nil {
		h.logger.Warn("failed to cache idempotency key", "orderId", anOrder.ID(), "error", err)
	}

	return anOrder, true, nil
}

// findExisting checks the cache and then the durable store for an order
// already created with the same idempotency key. Cache failures are logged
// and ignored.
func (h *CreateOrderCommandHandler) findExisting(ctx context.Context, uow CreateOrderUoW,
	cmd CreateOrderCommand) (*order.Order, error) {
	orderID, err := h.cache.Get(ctx, cmd.CustomerID(), cmd.IdempotencyKey())
	if err != nil {
		h.logger.Warn("idempotency cache lookup failed", "customerId", cmd.CustomerID(), "error", err)
	}
	if orderID != nil {
		existing, err := uow.OrderRepository().Get(ctx, *orderID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
		// Stale cache entry; fall through to the durable lookup.
	}

	existing, err := uow.OrderRepository().GetByIdempotencyKey(ctx, cmd.CustomerID(), cmd.IdempotencyKey())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

// reserveStock locks all requested products and debits each line. Any
// inactive product or shortage fails the whole reservation. Repeated lines
// for the same product are legal and debit cumulatively; the product ids are
// deduplicated before locking.
func (h *CreateOrderCommandHandler) reserveStock(ctx context.Context, uow CreateOrderUoW,
	anOrder *order.Order, items []OrderItemInput) ([]*product.Product, error) {
	ids := make([]kernel.UUID, 0, len(items))
	seen := make(map[kernel.UUID]bool, len(items))
	for _, item := range items {
		if seen[item.ProductID()] {
			continue
		}
		seen[item.ProductID()] = true
		ids = append(ids, item.ProductID())
	}

	products, err := uow.ProductRepository().GetForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]*product.Product, len(products))
	for _, p := range products {
		byID[p.ID()] = p
	}

	for _, item := range items {
		aProduct, ok := byID[item.ProductID()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("productId", item.ProductID())
		}
		if err = anOrder.AddItem(aProduct, item.Quantity()); err != nil {
			return nil, err
		}
	}

	return products, nil
}

// recoverWinner loads the order persisted by the concurrent request that won
// the unique-key race. When no order exists for the idempotency key, the
// collision came from another unique index (the order number), and the
// request is retryable.
func (h *CreateOrderCommandHandler) recoverWinner(ctx context.Context, cmd CreateOrderCommand) (*order.Order, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	existing, err := uow.OrderRepository().GetByIdempotencyKey(ctx, cmd.CustomerID(), cmd.IdempotencyKey())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, false, errs.NewConflictErrorWithCause("order number collision, retry the request", err)
		}
		return nil, false, err
	}
	return existing, false, nil
}
