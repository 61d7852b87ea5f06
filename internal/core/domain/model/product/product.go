package product

import (
	"errors"
	"fmt"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrProductIsNotConstructed is returned when a Product instance was not
// created through NewProduct or RestoreProduct.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct")

// Product represents a stock-tracked catalog item. The order core mutates a
// product only under an exclusive row lock: stock is debited when an order is
// created and credited back when the order is canceled.
//
// Invariants:
//   - Must have a valid unique identifier and a non-empty unique SKU
//   - Price must be non-negative
//   - Stock quantity never goes below zero: debits exceeding the available
//     stock are rejected as conflicts before any mutation
type Product struct {
	id       kernel.UUID
	sku      string
	name     string
	price    decimal.Decimal
	stockQty int
	isActive bool

	isConstructed bool
}

// NewProduct creates a validated, active Product.
func NewProduct(id kernel.UUID, sku, name string, price decimal.Decimal, stockQty int) (*Product, error) {
	return RestoreProduct(id, sku, name, price, stockQty, true)
}

// RestoreProduct reconstructs a Product from persistence, including its
// active flag.
func RestoreProduct(id kernel.UUID, sku, name string, price decimal.Decimal, stockQty int, isActive bool) (*Product, error) {
	p := &Product{
		isActive:      isActive,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setSKU(sku),
		p.setName(name),
		p.setPrice(price),
		p.setStockQty(stockQty),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate ensures the Product instance was properly constructed.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// SKU returns the product's unique stock-keeping unit.
func (p *Product) SKU() string {
	return p.sku
}

// Name returns the product's display name.
func (p *Product) Name() string {
	return p.name
}

// Price returns the current unit price. Orders snapshot this value per item
// at creation time.
func (p *Product) Price() decimal.Decimal {
	return p.price
}

// StockQty returns the quantity currently available.
func (p *Product) StockQty() int {
	return p.stockQty
}

// IsActive reports whether the product may be ordered.
func (p *Product) IsActive() bool {
	return p.isActive
}

// DebitStock removes qty units from stock. The caller must hold an exclusive
// lock on the product row. Returns a conflict error when the available stock
// is insufficient, leaving the quantity untouched.
func (p *Product) DebitStock(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsOutOfRangeError("qty", qty, 1, p.stockQty)
	}
	if p.stockQty < qty {
		return errs.NewConflictError(fmt.Sprintf("insufficient stock for SKU %s: requested %d, available %d", p.sku, qty, p.stockQty))
	}

	p.stockQty -= qty
	return nil
}

// CreditStock returns qty units to stock, used when a canceled order releases
// its reservation.
func (p *Product) CreditStock(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsOutOfRangeError("qty", qty, 1, p.stockQty)
	}

	p.stockQty += qty
	return nil
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	p.sku = sku
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Product) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidError("price")
	}
	p.price = price
	return nil
}

func (p *Product) setStockQty(stockQty int) error {
	if stockQty < 0 {
		return errs.NewValueIsInvalidError("stockQty")
	}
	p.stockQty = stockQty
	return nil
}
