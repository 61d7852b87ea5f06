package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/domain/model/customer"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/product"
	"ordercore/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIdempotencyKey(ctx context.Context, customerID kernel.UUID, key string) (*order.Order, error) {
	args := m.Called(ctx, customerID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, products ...*product.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Add(ctx context.Context, event *order.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) ListUnpublished(ctx context.Context, limit int) ([]*order.DomainEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.DomainEvent), args.Error(1)
}

func (m *MockEventRepository) MarkPublished(ctx context.Context, at time.Time, ids ...kernel.UUID) error {
	args := m.Called(ctx, at, ids)
	return args.Error(0)
}

type MockIdempotencyCache struct{ mock.Mock }

func (m *MockIdempotencyCache) Get(ctx context.Context, customerID kernel.UUID, key string) (*kernel.UUID, error) {
	args := m.Called(ctx, customerID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kernel.UUID), args.Error(1)
}

func (m *MockIdempotencyCache) Set(ctx context.Context, customerID kernel.UUID, key string, orderID kernel.UUID) error {
	args := m.Called(ctx, customerID, key, orderID)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Stage(ctx context.Context, txEvents ports.EventRepository,
	hooks ports.PostCommitHooks, event *order.DomainEvent) error {
	args := m.Called(ctx, txEvents, hooks, event)
	return args.Error(0)
}

// MockUoW satisfies every command unit of work interface. Post-commit hooks
// are recorded as plain state rather than mocked expectations.
type MockUoW struct {
	mock.Mock

	postCommitHooks []func(ctx context.Context)
}

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) RegisterPostCommit(fn func(ctx context.Context)) {
	m.postCommitHooks = append(m.postCommitHooks, fn)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

func (m *MockUoW) CustomerRepository() ports.CustomerRepository {
	args := m.Called()
	return args.Get(0).(ports.CustomerRepository)
}

func (m *MockUoW) EventRepository() ports.EventRepository {
	args := m.Called()
	return args.Get(0).(ports.EventRepository)
}

type MockCreateOrderUoWFactory struct{ mock.Mock }

func (m *MockCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	args := m.Called()
	return args.Get(0).(commands.CreateOrderUoW)
}

type MockChangeStatusUoWFactory struct{ mock.Mock }

func (m *MockChangeStatusUoWFactory) Create() commands.ChangeStatusUoW {
	args := m.Called()
	return args.Get(0).(commands.ChangeStatusUoW)
}

type MockCancelOrderUoWFactory struct{ mock.Mock }

func (m *MockCancelOrderUoWFactory) Create() commands.CancelOrderUoW {
	args := m.Called()
	return args.Get(0).(commands.CancelOrderUoW)
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func makeCustomer(t *testing.T, active bool) *customer.Customer {
	t.Helper()
	aCustomer, err := customer.RestoreCustomer(kernel.NewUUID(), "Acme Corp", "12345678000199", "orders@acme.test", active)
	require.NoError(t, err)
	return aCustomer
}

func makeProduct(t *testing.T, id kernel.UUID, price string, stock int, active bool) *product.Product {
	t.Helper()
	aProduct, err := product.RestoreProduct(id, "SKU-001", "Widget", decimal.RequireFromString(price), stock, active)
	require.NoError(t, err)
	return aProduct
}

func makeOrder(t *testing.T, aCustomer *customer.Customer, key string) *order.Order {
	t.Helper()
	anOrder, err := order.NewOrder(aCustomer, key, "", time.Now())
	require.NoError(t, err)
	return anOrder
}
