package commands

import (
	"context"

	"ordercore/internal/core/domain/model/order"
)

// ChangeOrderStatusCommandHandler handles status transitions on existing
// orders. The order row is locked for the duration of the transaction so
// concurrent transitions are serialized; the loser of the race re-reads a
// changed status and fails the state machine check.
type ChangeOrderStatusCommandHandler struct {
	uowFactory ChangeStatusUoWFactory
	publisher  EventPublisher
}

// NewChangeOrderStatusCommandHandler creates a handler for status changes.
func NewChangeOrderStatusCommandHandler(uowFactory ChangeStatusUoWFactory,
	publisher EventPublisher) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle moves the order to the requested status, records the change in the
// audit history, and stages an ORDER_STATUS_CHANGED event for broadcast
// after commit. Returns the updated order.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
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
	if err = anOrder.ChangeStatus(cmd.ToStatus(), cmd.ChangedBy(), cmd.Note()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, anOrder); err != nil {
		return nil, err
	}

	event, err := order.NewStatusChangedEvent(anOrder, fromStatus, cmd.ToStatus(), cmd.Note())
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
