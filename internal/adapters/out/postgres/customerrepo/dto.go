// Package customerrepo implements customer persistence.
package customerrepo

import (
	"time"

	"github.com/google/uuid"

	"ordercore/internal/core/domain/model/customer"
	"ordercore/internal/core/domain/model/kernel"
)

// CustomerDTO represents the database structure for customers.
type CustomerDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255"`
	TaxID     string    `gorm:"size:32;uniqueIndex"`
	Email     string    `gorm:"size:255;uniqueIndex"`
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for customers.
func (CustomerDTO) TableName() string {
	return "customers"
}

func fromDomain(aggregate *customer.Customer) CustomerDTO {
	return CustomerDTO{
		ID:       aggregate.ID().Bytes(),
		Name:     aggregate.Name(),
		TaxID:    aggregate.TaxID(),
		Email:    aggregate.Email(),
		IsActive: aggregate.IsActive(),
	}
}

func toDomain(dto CustomerDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return customer.RestoreCustomer(id, dto.Name, dto.TaxID, dto.Email, dto.IsActive)
}
