// Package productrepo implements product persistence for the catalog.
package productrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/product"
)

// ProductDTO represents the database structure for catalog products.
// StockQty is only ever changed under a FOR UPDATE row lock.
type ProductDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SKU       string          `gorm:"size:64;uniqueIndex"`
	Name      string          `gorm:"size:255"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2)"`
	StockQty  int
	IsActive  bool `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for products.
func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(aggregate *product.Product) ProductDTO {
	return ProductDTO{
		ID:       aggregate.ID().Bytes(),
		SKU:      aggregate.SKU(),
		Name:     aggregate.Name(),
		Price:    aggregate.Price(),
		StockQty: aggregate.StockQty(),
		IsActive: aggregate.IsActive(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return product.RestoreProduct(id, dto.SKU, dto.Name, dto.Price, dto.StockQty, dto.IsActive)
}
