package orderrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ordercore/internal/adapters/out/postgres/pgerr"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/pkg/errs"
)

// GormOrderRepository implements OrderRepository using GORM. The order row,
// its items and its status history live in separate tables; items are
// written once at creation, history rows are appended from the aggregate's
// uncommitted changes on every save.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order with its items and staged history. A unique index
// violation on (customer_id, idempotency_key) is reported as
// order.ErrAlreadyExists.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return order.ErrAlreadyExists
		}
		return pgerr.Translate(err)
	}

	items := aggregate.Items()
	if len(items) > 0 {
		itemDTOs := make([]ItemDTO, 0, len(items))
		for _, item := range items {
			itemDTOs = append(itemDTOs, itemFromDomain(aggregate.ID(), item))
		}
		if err := r.db.WithContext(ctx).Create(&itemDTOs).Error; err != nil {
			return pgerr.Translate(err)
		}
	}

	if err := r.appendHistory(ctx, aggregate); err != nil {
		return err
	}

	aggregate.ClearUncommittedHistory()
	return nil
}

// Update saves changes to an existing order and appends its staged history.
// Items are immutable after creation and are not touched.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("Status", "Total", "Observations", "UpdatedAt", "DeletedAt").
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID())
	}

	if err := r.appendHistory(ctx, aggregate); err != nil {
		return err
	}

	aggregate.ClearUncommittedHistory()
	return nil
}

// Get retrieves an order with its items and full status history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND deleted_at IS NULL", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id)
		}
		return nil, pgerr.Translate(err)
	}

	return r.load(ctx, dto)
}

// GetForUpdate retrieves an order holding a FOR UPDATE row lock until the
// surrounding transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ? AND deleted_at IS NULL", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id)
		}
		return nil, pgerr.Translate(err)
	}

	return r.load(ctx, dto)
}

// GetByIdempotencyKey retrieves the order created by the customer with the
// given idempotency key.
func (r *GormOrderRepository) GetByIdempotencyKey(ctx context.Context, customerID kernel.UUID, key string) (*order.Order, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "customer_id = ? AND idempotency_key = ? AND deleted_at IS NULL",
			customerID.Bytes(), key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("idempotencyKey", key)
		}
		return nil, pgerr.Translate(err)
	}

	return r.load(ctx, dto)
}

func (r *GormOrderRepository) load(ctx context.Context, dto OrderDTO) (*order.Order, error) {
	var itemDTOs []ItemDTO
	if err := r.db.WithContext(ctx).
		Order("id").
		Find(&itemDTOs, "order_id = ?", dto.ID).Error; err != nil {
		return nil, pgerr.Translate(err)
	}

	var changeDTOs []StatusChangeDTO
	if err := r.db.WithContext(ctx).
		Order("changed_at, id").
		Find(&changeDTOs, "order_id = ?", dto.ID).Error; err != nil {
		return nil, pgerr.Translate(err)
	}

	return toDomain(dto, itemDTOs, changeDTOs)
}

func (r *GormOrderRepository) appendHistory(ctx context.Context, aggregate *order.Order) error {
	uncommitted := aggregate.UncommittedHistory()
	if len(uncommitted) == 0 {
		return nil
	}

	changeDTOs := make([]StatusChangeDTO, 0, len(uncommitted))
	for _, change := range uncommitted {
		changeDTOs = append(changeDTOs, changeFromDomain(change))
	}

	if err := r.db.WithContext(ctx).Create(&changeDTOs).Error; err != nil {
		return pgerr.Translate(err)
	}
	return nil
}
