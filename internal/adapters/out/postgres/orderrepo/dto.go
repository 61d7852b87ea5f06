// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The (customer_id, idempotency_key) pair carries a unique index so retried
// creations collide at the database level regardless of application races.
// DeletedAt marks soft deletion; core operations never set it.
type OrderDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_orders_customer_idem"`
	IdempotencyKey string          `gorm:"size:128;uniqueIndex:idx_orders_customer_idem"`
	Number         string          `gorm:"size:20;uniqueIndex"`
	Status         string          `gorm:"size:16;index"`
	Total          decimal.Decimal `gorm:"type:numeric(14,2)"`
	Observations   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one persisted order line.
type ItemDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;index"`
	Quantity  int
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2)"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(14,2)"`
}

// TableName specifies the database table name for order lines.
func (ItemDTO) TableName() string {
	return "order_items"
}

// StatusChangeDTO represents one persisted audit record of the status
// history. Rows are append-only.
type StatusChangeDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;index"`
	FromStatus string     `gorm:"size:16"`
	ToStatus   string     `gorm:"size:16"`
	ChangedAt  time.Time  `gorm:"index"`
	ChangedBy  *uuid.UUID `gorm:"type:uuid"`
	Note       string
}

// TableName specifies the database table name for status history records.
func (StatusChangeDTO) TableName() string {
	return "order_status_changes"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:             aggregate.ID().Bytes(),
		CustomerID:     aggregate.CustomerID().Bytes(),
		IdempotencyKey: aggregate.IdempotencyKey(),
		Number:         aggregate.Number(),
		Status:         aggregate.Status().String(),
		Total:          aggregate.Total(),
		Observations:   aggregate.Observations(),
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
		DeletedAt:      aggregate.DeletedAt(),
	}
}

func itemFromDomain(orderID kernel.UUID, item *order.Item) ItemDTO {
	return ItemDTO{
		ID:        item.ID().Bytes(),
		OrderID:   orderID.Bytes(),
		ProductID: item.ProductID().Bytes(),
		Quantity:  item.Quantity(),
		UnitPrice: item.UnitPrice(),
		Subtotal:  item.Subtotal(),
	}
}

func changeFromDomain(change *order.StatusChange) StatusChangeDTO {
	var changedBy *uuid.UUID
	if id := change.ChangedBy(); id != nil {
		raw := id.Bytes()
		changedBy = &raw
	}

	return StatusChangeDTO{
		ID:         change.ID().Bytes(),
		OrderID:    change.OrderID().Bytes(),
		FromStatus: change.FromStatus().String(),
		ToStatus:   change.ToStatus().String(),
		ChangedAt:  change.ChangedAt(),
		ChangedBy:  changedBy,
		Note:       change.Note(),
	}
}

func toDomain(dto OrderDTO, itemDTOs []ItemDTO, changeDTOs []StatusChangeDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]*order.StatusChange, 0, len(changeDTOs))
	for _, changeDTO := range changeDTOs {
		change, changeErr := changeToDomain(changeDTO)
		if changeErr != nil {
			return nil, changeErr
		}
		history = append(history, change)
	}

	return order.RestoreOrder(id, customerID, dto.Number, order.Status(dto.Status),
		dto.Total, dto.Observations, dto.IdempotencyKey,
		dto.CreatedAt, dto.UpdatedAt, dto.DeletedAt, items, history)
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreItem(id, productID, dto.Quantity, dto.UnitPrice, dto.Subtotal)
}

func changeToDomain(dto StatusChangeDTO) (*order.StatusChange, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var changedBy *kernel.UUID
	if dto.ChangedBy != nil {
		actor, actorErr := kernel.UUIDFromBytes((*dto.ChangedBy)[:])
		if actorErr != nil {
			return nil, actorErr
		}
		changedBy = &actor
	}

	return order.RestoreStatusChange(id, orderID, order.Status(dto.FromStatus),
		order.Status(dto.ToStatus), dto.ChangedAt, changedBy, dto.Note)
}
