package order

import (
	"errors"

	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
	"ordercore/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errs.NewValueIsRequiredError("item must be created via NewItem or RestoreItem")

// Item is an order line. The unit price is snapshotted from the product at
// order creation time so later catalog price changes never affect existing
// orders. Subtotal is always unitPrice * quantity.
type Item struct {
	guard.ConstructorGuard

	id        kernel.UUID
	productID kernel.UUID
	quantity  int
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
}

// NewItem creates a line for the given product with the price captured at
// creation time.
func NewItem(productID kernel.UUID, quantity int, unitPrice decimal.Decimal) (*Item, error) {
	id := kernel.NewUUID()
	return RestoreItem(id, productID, quantity, unitPrice, unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// RestoreItem reconstructs a line from persistence.
func RestoreItem(id kernel.UUID, productID kernel.UUID, quantity int, unitPrice decimal.Decimal, subtotal decimal.Decimal) (*Item, error) {
	item := &Item{
		ConstructorGuard: guard.NewConstructorGuard(),
	}

	err := errors.Join(
		item.setID(id),
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
		item.setSubtotal(subtotal),
	)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (i *Item) ID() kernel.UUID {
	return i.id
}

func (i *Item) ProductID() kernel.UUID {
	return i.productID
}

func (i *Item) Quantity() int {
	return i.quantity
}

func (i *Item) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

func (i *Item) Subtotal() decimal.Decimal {
	return i.subtotal
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	i.id = id
	return nil
}

func (i *Item) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("productId", err)
	}
	i.productID = productID
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 || quantity > maxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, maxItemQuantity)
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return errs.NewValueIsInvalidError("unitPrice")
	}
	i.unitPrice = unitPrice
	return nil
}

func (i *Item) setSubtotal(subtotal decimal.Decimal) error {
	if subtotal.IsNegative() {
		return errs.NewValueIsInvalidError("subtotal")
	}
	i.subtotal = subtotal
	return nil
}

// Validate checks that the Item was built through a constructor.
func (i *Item) Validate() error {
	return i.ConstructorGuard.Validate(ErrItemIsNotConstructed)
}

const maxItemQuantity = 1_000_000
