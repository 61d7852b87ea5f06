package productrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ordercore/internal/adapters/out/postgres/pgerr"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/product"
	"ordercore/internal/pkg/errs"
)

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Add saves a new catalog product.
func (r *GormProductRepository) Add(ctx context.Context, aProduct *product.Product) error {
	if err := aProduct.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aProduct)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Translate(err)
	}
	return nil
}

// Get retrieves a product by ID.
func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("productId", id)
		}
		return nil, pgerr.Translate(err)
	}

	return toDomain(dto)
}

// GetForUpdate retrieves the requested products holding FOR UPDATE row locks
// until the surrounding transaction ends. Rows are locked in primary key
// order regardless of the order of ids, so two reservations touching the
// same products always acquire their locks in the same sequence.
func (r *GormProductRepository) GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", raw).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Translate(err)
	}

	products := make([]*product.Product, 0, len(dtos))
	for _, dto := range dtos {
		aProduct, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		products = append(products, aProduct)
	}

	return products, nil
}

// Update persists stock changes to existing products.
func (r *GormProductRepository) Update(ctx context.Context, products ...*product.Product) error {
	for _, aProduct := range products {
		if err := aProduct.Validate(); err != nil {
			return err
		}

		dto := fromDomain(aProduct)
		result := r.db.WithContext(ctx).Model(&ProductDTO{}).
			Where("id = ?", dto.ID).
			Select("Price", "StockQty", "IsActive", "Name").
			Updates(&dto)
		if result.Error != nil {
			return pgerr.Translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("productId", aProduct.ID())
		}
	}

	return nil
}
