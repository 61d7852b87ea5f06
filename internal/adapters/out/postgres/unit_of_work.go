// Package postgres provides a GORM-based implementation of the Unit of Work
// pattern. A unit of work scopes a business transaction: repositories obtained
// from it share a single database transaction, and callbacks registered via
// RegisterPostCommit run only after that transaction commits successfully.
//
// Basic usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
package postgres

import (
	"context"

	"gorm.io/gorm"

	"ordercore/internal/adapters/out/postgres/customerrepo"
	"ordercore/internal/adapters/out/postgres/eventrepo"
	"ordercore/internal/adapters/out/postgres/orderrepo"
	"ordercore/internal/adapters/out/postgres/pgerr"
	"ordercore/internal/adapters/out/postgres/productrepo"
	"ordercore/internal/core/ports"
)

// GormUnitOfWorkFactory creates UnitOfWork instances bound to a GORM database
// connection. Each business operation should get a fresh instance so that
// concurrent operations stay isolated from each other.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates a database transaction across the order, product,
// customer and event repositories. Post-commit callbacks registered during the
// transaction are executed after a successful Commit and discarded on Rollback.
type GormUnitOfWork struct {
	db              *gorm.DB
	tx              *gorm.DB
	postCommitHooks []func(ctx context.Context)
}

// Begin initiates a new database transaction. Repeated calls on the same
// instance are no-ops while a transaction is active.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the current transaction and, on success, runs the
// registered post-commit callbacks in registration order. Serialization
// failures and lock timeouts surfacing at commit time are translated to a
// retryable conflict, the same way the repositories translate them at
// statement time.
//
// Returns gorm.ErrInvalidTransaction when no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return pgerr.Translate(err)
	}

	hooks := uow.postCommitHooks
	uow.postCommitHooks = nil
	for _, hook := range hooks {
		hook(ctx)
	}

	return nil
}

// Rollback discards all changes made within the current transaction along
// with any registered post-commit callbacks.
//
// Returns gorm.ErrInvalidTransaction when no transaction is active.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.postCommitHooks = nil
	return err
}

// RegisterPostCommit schedules a callback to run after a successful Commit.
// Callbacks must not assume the transaction is still open.
func (uow *GormUnitOfWork) RegisterPostCommit(fn func(ctx context.Context)) {
	uow.postCommitHooks = append(uow.postCommitHooks, fn)
}

// OrderRepository provides order persistence within the unit of work.
// Operations execute within the current transaction if one is active,
// otherwise directly on the main connection.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db)
}

// ProductRepository provides product persistence within the unit of work.
func (uow *GormUnitOfWork) ProductRepository() ports.ProductRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return productrepo.NewGormProductRepository(db)
}

// CustomerRepository provides customer persistence within the unit of work.
func (uow *GormUnitOfWork) CustomerRepository() ports.CustomerRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return customerrepo.NewGormCustomerRepository(db)
}

// EventRepository provides outbox persistence within the unit of work.
func (uow *GormUnitOfWork) EventRepository() ports.EventRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return eventrepo.NewGormEventRepository(db)
}
