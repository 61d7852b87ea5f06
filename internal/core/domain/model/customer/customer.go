package customer

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// ErrCustomerIsNotConstructed is returned when a Customer instance was not
// created through NewCustomer or RestoreCustomer.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer or RestoreCustomer")

// Customer represents a buyer in the catalog. The order core only ever reads
// customers: it verifies existence and the active flag before accepting an
// order, and never mutates them.
//
// Invariants:
//   - Must have a valid unique identifier
//   - Name, tax id and email must be non-empty (tax id and email are unique
//     at the storage level)
type Customer struct {
	id       kernel.UUID
	name     string
	taxID    string
	email    string
	isActive bool

	isConstructed bool
}

// NewCustomer creates a validated Customer in active state.
func NewCustomer(id kernel.UUID, name, taxID, email string) (*Customer, error) {
	return RestoreCustomer(id, name, taxID, email, true)
}

// RestoreCustomer reconstructs a Customer from persistence, including its
// active flag.
func RestoreCustomer(id kernel.UUID, name, taxID, email string, isActive bool) (*Customer, error) {
	c := &Customer{
		isActive:      isActive,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setTaxID(taxID),
		c.setEmail(email),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Customer instance was properly constructed.
func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

// ID returns the customer's unique identifier.
func (c *Customer) ID() kernel.UUID {
	return c.id
}

// Name returns the customer's display name.
func (c *Customer) Name() string {
	return c.name
}

// TaxID returns the customer's unique tax identifier.
func (c *Customer) TaxID() string {
	return c.taxID
}

// Email returns the customer's unique email address.
func (c *Customer) Email() string {
	return c.email
}

// IsActive reports whether the customer may place orders.
func (c *Customer) IsActive() bool {
	return c.isActive
}

func (c *Customer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Customer) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *Customer) setTaxID(taxID string) error {
	if taxID == "" {
		return errs.NewValueIsRequiredError("taxID")
	}
	c.taxID = taxID
	return nil
}

func (c *Customer) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	c.email = email
	return nil
}
