package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ordercore/internal/adapters/out/postgres/orderrepo"
	"ordercore/internal/core/domain/model/customer"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/product"
	"ordercore/internal/pkg/errs"
)

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.StatusChangeDTO{},
	))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(
		suite.db.Exec("TRUNCATE TABLE orders, order_items, order_status_changes").Error)

	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_PersistsItemsAndHistory() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("key-add-1")
	suite.Len(testOrder.UncommittedHistory(), 1)

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	// History written on Add is drained from the aggregate.
	suite.Empty(testOrder.UncommittedHistory())

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal(testOrder.CustomerID(), retrieved.CustomerID())
	suite.Equal(testOrder.Number(), retrieved.Number())
	suite.Equal(order.StatusPending, retrieved.Status())
	suite.Equal("key-add-1", retrieved.IdempotencyKey())
	suite.True(testOrder.Total().Equal(retrieved.Total()))

	suite.Require().Len(retrieved.Items(), 1)
	item := retrieved.Items()[0]
	suite.Equal(3, item.Quantity())
	suite.True(item.Subtotal().Equal(item.UnitPrice().Mul(decimal.NewFromInt(3))))

	suite.Require().Len(retrieved.History(), 1)
	change := retrieved.History()[0]
	suite.Equal(order.StatusPending, change.FromStatus())
	suite.Equal(order.StatusPending, change.ToStatus())
	suite.Equal("order created", change.Note())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateIdempotencyKey_ReturnsAlreadyExists() {
	ctx := context.Background()

	customerID := kernel.NewUUID()
	first := suite.createTestOrderForCustomer(customerID, "key-dup")
	suite.Require().NoError(suite.repository.Add(ctx, first))

	second := suite.createTestOrderForCustomer(customerID, "key-dup")
	err := suite.repository.Add(ctx, second)

	suite.Require().ErrorIs(err, order.ErrAlreadyExists)
	suite.assertOrderCount(1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_SameKeyDifferentCustomer_Succeeds() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Add(ctx,
		suite.createTestOrderForCustomer(kernel.NewUUID(), "shared-key")))
	suite.Require().NoError(suite.repository.Add(ctx,
		suite.createTestOrderForCustomer(kernel.NewUUID(), "shared-key")))

	suite.assertOrderCount(2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByIdempotencyKey_ReturnsMatchingOrder() {
	ctx := context.Background()

	customerID := kernel.NewUUID()
	testOrder := suite.createTestOrderForCustomer(customerID, "key-lookup")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.GetByIdempotencyKey(ctx, customerID, "key-lookup")
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())

	_, err = suite.repository.GetByIdempotencyKey(ctx, customerID, "other-key")
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	_, err = suite.repository.GetByIdempotencyKey(ctx, kernel.NewUUID(), "key-lookup")
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StatusChange_AppendsHistory() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("key-update")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	changedBy := kernel.NewUUID()
	suite.Require().NoError(testOrder.ChangeStatus(order.StatusConfirmed, &changedBy, "payment confirmed"))

	err := suite.repository.Update(ctx, testOrder)
	suite.Require().NoError(err)

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusConfirmed, retrieved.Status())

	suite.Require().Len(retrieved.History(), 2)
	last := retrieved.History()[1]
	suite.Equal(order.StatusPending, last.FromStatus())
	suite.Equal(order.StatusConfirmed, last.ToStatus())
	suite.Equal("payment confirmed", last.Note())
	suite.Require().NotNil(last.ChangedBy())
	suite.True(changedBy.IsEqual(*last.ChangedBy()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_CanceledOrder_RemainsRetrievable() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("key-cancel")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.Cancel(nil, ""))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusCanceled, retrieved.Status())
	suite.Require().Len(retrieved.History(), 2)
	suite.Equal("canceled", retrieved.History()[1].Note())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("key-missing")

	err := suite.repository.Update(ctx, testOrder)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_WithinTransaction_ReturnsOrder() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("key-lock")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	tx := suite.db.WithContext(ctx).Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()

	txRepo := orderrepo.NewGormOrderRepository(tx)
	retrieved, err := txRepo.GetForUpdate(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_InvalidUUID_ReturnsValidationError() {
	_, err := suite.repository.Get(context.Background(), kernel.UUID{})
	suite.Require().ErrorIs(err, errs.ErrValueIsRequired)
}

// createTestOrder creates a pending order with one item for a fresh customer.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(idempotencyKey string) *order.Order {
	return suite.createTestOrderForCustomer(kernel.NewUUID(), idempotencyKey)
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrderForCustomer(
	customerID kernel.UUID, idempotencyKey string,
) *order.Order {
	aCustomer, err := customer.RestoreCustomer(customerID, "Acme Corp", "12345678901", "billing@acme.test", true)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(aCustomer, idempotencyKey, "leave at the door", time.Now())
	suite.Require().NoError(err)

	aProduct, err := product.RestoreProduct(
		kernel.NewUUID(), "SKU-001", "Widget", decimal.NewFromFloat(9.99), 100, true)
	suite.Require().NoError(err)

	suite.Require().NoError(testOrder.AddItem(aProduct, 3))
	return testOrder
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
