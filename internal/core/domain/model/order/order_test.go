package order_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercore/internal/core/domain/model/customer"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/product"
	"ordercore/internal/pkg/errs"
)

func newTestCustomer(t *testing.T, active bool) *customer.Customer {
	t.Helper()
	id := kernel.NewUUID()
	aCustomer, err := customer.RestoreCustomer(id, "Acme Corp", "12345678000199", "orders@acme.test", active)
	require.NoError(t, err)
	return aCustomer
}

func newTestProduct(t *testing.T, price string, stock int, active bool) *product.Product {
	t.Helper()
	id := kernel.NewUUID()
	aProduct, err := product.RestoreProduct(id, "SKU-001", "Widget", decimal.RequireFromString(price), stock, active)
	require.NoError(t, err)
	return aProduct
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	anOrder, err := order.NewOrder(newTestCustomer(t, true), "key-123", "", time.Now())
	require.NoError(t, err)
	return anOrder
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order with creation history", func(t *testing.T) {
		now := time.Date(2026, 3, 15, 10, 30, 0, 123456000, time.UTC)

		anOrder, err := order.NewOrder(newTestCustomer(t, true), "key-123", "leave at the door", now)

		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, anOrder.Status())
		assert.Equal(t, "20260315103000123456", anOrder.Number())
		assert.Equal(t, "key-123", anOrder.IdempotencyKey())
		assert.Equal(t, "leave at the door", anOrder.Observations())
		assert.True(t, anOrder.Total().IsZero())
		assert.Nil(t, anOrder.DeletedAt())
		require.NoError(t, anOrder.Validate())

		history := anOrder.History()
		require.Len(t, history, 1)
		assert.Equal(t, order.StatusPending, history[0].FromStatus())
		assert.Equal(t, order.StatusPending, history[0].ToStatus())
		assert.Equal(t, "order created", history[0].Note())
		assert.Nil(t, history[0].ChangedBy())

		require.Len(t, anOrder.UncommittedHistory(), 1)
	})

	t.Run("should reject inactive customer", func(t *testing.T) {
		_, err := order.NewOrder(newTestCustomer(t, false), "key-123", "", time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "inactive")
	})

	t.Run("should reject empty idempotency key", func(t *testing.T) {
		_, err := order.NewOrder(newTestCustomer(t, true), "", "", time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject overly long idempotency key", func(t *testing.T) {
		longKey := make([]byte, 129)
		for i := range longKey {
			longKey[i] = 'k'
		}

		_, err := order.NewOrder(newTestCustomer(t, true), string(longKey), "", time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestGenerateNumber(t *testing.T) {
	t.Run("should format as UTC timestamp with microseconds", func(t *testing.T) {
		now := time.Date(2026, 1, 2, 3, 4, 5, 678901000, time.UTC)
		assert.Equal(t, "20260102030405678901", order.GenerateNumber(now))
	})

	t.Run("should convert local time to UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+3", 3*60*60)
		local := time.Date(2026, 1, 2, 6, 4, 5, 0, loc)
		assert.Equal(t, "20260102030405000000", order.GenerateNumber(local))
	})
}

func TestOrder_AddItem(t *testing.T) {
	t.Run("should debit stock and snapshot price", func(t *testing.T) {
		anOrder := newTestOrder(t)
		aProduct := newTestProduct(t, "19.90", 10, true)

		err := anOrder.AddItem(aProduct, 3)

		require.NoError(t, err)
		assert.Equal(t, 7, aProduct.StockQty())
		require.Len(t, anOrder.Items(), 1)

		item := anOrder.Items()[0]
		assert.True(t, item.ProductID().IsEqual(aProduct.ID()))
		assert.Equal(t, 3, item.Quantity())
		assert.True(t, item.UnitPrice().Equal(decimal.RequireFromString("19.90")))
		assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("59.70")))
		assert.True(t, anOrder.Total().Equal(decimal.RequireFromString("59.70")))
	})

	t.Run("should accumulate total across items", func(t *testing.T) {
		anOrder := newTestOrder(t)

		require.NoError(t, anOrder.AddItem(newTestProduct(t, "10.00", 5, true), 2))
		require.NoError(t, anOrder.AddItem(newTestProduct(t, "0.99", 100, true), 10))

		assert.True(t, anOrder.Total().Equal(decimal.RequireFromString("29.90")))
		assert.Len(t, anOrder.Items(), 2)
	})

	t.Run("should reject inactive product without mutation", func(t *testing.T) {
		anOrder := newTestOrder(t)
		aProduct := newTestProduct(t, "10.00", 5, false)

		err := anOrder.AddItem(aProduct, 1)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, 5, aProduct.StockQty())
		assert.Empty(t, anOrder.Items())
		assert.True(t, anOrder.Total().IsZero())
	})

	t.Run("should reject insufficient stock without mutation", func(t *testing.T) {
		anOrder := newTestOrder(t)
		aProduct := newTestProduct(t, "10.00", 2, true)

		err := anOrder.AddItem(aProduct, 3)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "insufficient stock")
		assert.Equal(t, 2, aProduct.StockQty())
		assert.Empty(t, anOrder.Items())
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		anOrder := newTestOrder(t)
		aProduct := newTestProduct(t, "10.00", 5, true)

		for _, qty := range []int{0, -1} {
			err := anOrder.AddItem(aProduct, qty)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}

		assert.Equal(t, 5, aProduct.StockQty())
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("should record history on valid transition", func(t *testing.T) {
		anOrder := newTestOrder(t)
		actor := kernel.NewUUID()

		err := anOrder.ChangeStatus(order.StatusConfirmed, &actor, "payment received")

		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, anOrder.Status())

		history := anOrder.History()
		require.Len(t, history, 2)
		last := history[len(history)-1]
		assert.Equal(t, order.StatusPending, last.FromStatus())
		assert.Equal(t, order.StatusConfirmed, last.ToStatus())
		assert.Equal(t, "payment received", last.Note())
		require.NotNil(t, last.ChangedBy())
		assert.True(t, last.ChangedBy().IsEqual(actor))
	})

	t.Run("should walk the full fulfillment path", func(t *testing.T) {
		anOrder := newTestOrder(t)

		for _, to := range []order.Status{
			order.StatusConfirmed,
			order.StatusPicked,
			order.StatusShipped,
			order.StatusDelivered,
		} {
			require.NoError(t, anOrder.ChangeStatus(to, nil, ""))
		}

		assert.Equal(t, order.StatusDelivered, anOrder.Status())
		assert.Len(t, anOrder.History(), 5)
		assert.Len(t, anOrder.UncommittedHistory(), 5)
	})

	t.Run("should reject illegal transition without mutation", func(t *testing.T) {
		anOrder := newTestOrder(t)

		err := anOrder.ChangeStatus(order.StatusShipped, nil, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "invalid status transition PENDING -> SHIPPED")
		assert.Equal(t, order.StatusPending, anOrder.Status())
		assert.Len(t, anOrder.History(), 1)
	})

	t.Run("should reject undefined target status", func(t *testing.T) {
		anOrder := newTestOrder(t)

		err := anOrder.ChangeStatus("UNKNOWN", nil, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.StatusPending, anOrder.Status())
	})

	t.Run("should reject transitions out of terminal statuses", func(t *testing.T) {
		anOrder := newTestOrder(t)
		require.NoError(t, anOrder.ChangeStatus(order.StatusCanceled, nil, ""))

		err := anOrder.ChangeStatus(order.StatusConfirmed, nil, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.StatusCanceled, anOrder.Status())
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel pending order with default note", func(t *testing.T) {
		anOrder := newTestOrder(t)

		err := anOrder.Cancel(nil, "")

		require.NoError(t, err)
		assert.Equal(t, order.StatusCanceled, anOrder.Status())

		history := anOrder.History()
		last := history[len(history)-1]
		assert.Equal(t, "canceled", last.Note())
	})

	t.Run("should cancel confirmed order with custom note", func(t *testing.T) {
		anOrder := newTestOrder(t)
		require.NoError(t, anOrder.ChangeStatus(order.StatusConfirmed, nil, ""))

		err := anOrder.Cancel(nil, "customer request")

		require.NoError(t, err)
		assert.Equal(t, order.StatusCanceled, anOrder.Status())
		history := anOrder.History()
		assert.Equal(t, "customer request", history[len(history)-1].Note())
	})

	t.Run("should reject cancel after picking", func(t *testing.T) {
		anOrder := newTestOrder(t)
		require.NoError(t, anOrder.ChangeStatus(order.StatusConfirmed, nil, ""))
		require.NoError(t, anOrder.ChangeStatus(order.StatusPicked, nil, ""))

		err := anOrder.Cancel(nil, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "cannot be canceled in status PICKED")
		assert.Equal(t, order.StatusPicked, anOrder.Status())
	})

	t.Run("should reject cancel of already canceled order", func(t *testing.T) {
		anOrder := newTestOrder(t)
		require.NoError(t, anOrder.Cancel(nil, ""))

		err := anOrder.Cancel(nil, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestOrder_UncommittedHistory(t *testing.T) {
	t.Run("should clear staged changes after save", func(t *testing.T) {
		anOrder := newTestOrder(t)
		require.Len(t, anOrder.UncommittedHistory(), 1)

		anOrder.ClearUncommittedHistory()

		assert.Empty(t, anOrder.UncommittedHistory())
		assert.Len(t, anOrder.History(), 1)

		require.NoError(t, anOrder.ChangeStatus(order.StatusConfirmed, nil, ""))
		require.Len(t, anOrder.UncommittedHistory(), 1)
		assert.Len(t, anOrder.History(), 2)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should reconstruct order from persistence", func(t *testing.T) {
		id := kernel.NewUUID()
		customerID := kernel.NewUUID()
		createdAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

		anOrder, err := order.RestoreOrder(id, customerID, "20260315100000000000",
			order.StatusConfirmed, decimal.RequireFromString("59.70"), "", "key-abc",
			createdAt, createdAt, nil, nil, nil)

		require.NoError(t, err)
		assert.True(t, anOrder.ID().IsEqual(id))
		assert.Equal(t, order.StatusConfirmed, anOrder.Status())
		assert.Empty(t, anOrder.UncommittedHistory())
		require.NoError(t, anOrder.Validate())
	})

	t.Run("should reject invalid stored status", func(t *testing.T) {
		id := kernel.NewUUID()
		customerID := kernel.NewUUID()
		now := time.Now()

		_, err := order.RestoreOrder(id, customerID, "20260315100000000000",
			"BOGUS", decimal.Zero, "", "key-abc", now, now, nil, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject negative total", func(t *testing.T) {
		id := kernel.NewUUID()
		customerID := kernel.NewUUID()
		now := time.Now()

		_, err := order.RestoreOrder(id, customerID, "20260315100000000000",
			order.StatusPending, decimal.RequireFromString("-1"), "", "key-abc", now, now, nil, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestNewStatusChangedEvent(t *testing.T) {
	t.Run("should build unpublished event with JSON payload", func(t *testing.T) {
		anOrder := newTestOrder(t)

		event, err := order.NewStatusChangedEvent(anOrder, order.StatusPending, order.StatusConfirmed, "payment received")

		require.NoError(t, err)
		assert.Equal(t, order.EventTypeStatusChanged, event.EventType())
		assert.True(t, event.OrderID().IsEqual(anOrder.ID()))
		assert.Nil(t, event.PublishedAt())

		assert.JSONEq(t, `{
			"order_id": "`+anOrder.ID().String()+`",
			"number": "`+anOrder.Number()+`",
			"from_status": "PENDING",
			"to_status": "CONFIRMED",
			"note": "payment received"
		}`, string(event.Payload()))
	})

	t.Run("should mark event as published", func(t *testing.T) {
		anOrder := newTestOrder(t)
		event, err := order.NewStatusChangedEvent(anOrder, order.StatusPending, order.StatusCanceled, "canceled")
		require.NoError(t, err)

		at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
		event.MarkPublished(at)

		require.NotNil(t, event.PublishedAt())
		assert.Equal(t, at, *event.PublishedAt())
	})
}
