package commands

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/product"
	"ordercore/internal/pkg/errs"
)

// CancelOrderCommandHandler handles order cancellation. Cancellation is only
// allowed while the order is PENDING or CONFIRMED; the reserved stock is
// credited back to the products inside the same transaction, with both the
// order row and the product rows locked.
type CancelOrderCommandHandler struct {
	uowFactory CancelOrderUoWFactory
	publisher  EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory CancelOrderUoWFactory,
	publisher EventPublisher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle cancels the order, restores product stock, records the change in
// the audit history, and stages an ORDER_STATUS_CHANGED event for broadcast
// after commit. The canceled order is retained with its history.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	anOrder, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	fromStatus := anOrder.Status()
	if err = anOrder.Cancel(cmd.CanceledBy(), cmd.Note()); err != nil {
		return nil, err
	}

	if err = h.restoreStock(ctx, uow, anOrder); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, anOrder); err != nil {
		return nil, err
	}

	history := anOrder.History()
	note := history[len(history)-1].Note()
	event, err := order.NewStatusChangedEvent(anOrder, fromStatus, order.StatusCanceled, note)
	if err != nil {
		return nil, err
	}
	if err = h.publisher.Stage(ctx, uow.EventRepository(), uow, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return anOrder, nil
}

// restoreStock credits each item's quantity back to its product under row
// locks. Every item's product must resolve to a locked row; a missing row
// would otherwise silently lose its stock credit.
func (h *CancelOrderCommandHandler) restoreStock(ctx context.Context, uow CancelOrderUoW, anOrder *order.Order) error {
	items := anOrder.Items()
	if len(items) == 0 {
		return nil
	}

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
		return err
	}

	byID := make(map[kernel.UUID]*product.Product, len(products))
	for _, p := range products {
		byID[p.ID()] = p
	}

	for _, item := range items {
		aProduct, ok := byID[item.ProductID()]
		if !ok {
			return errs.NewObjectNotFoundError("productId", item.ProductID())
		}
		if err = aProduct.CreditStock(item.Quantity()); err != nil {
			return err
		}
	}

	return uow.ProductRepository().Update(ctx, products...)
}
