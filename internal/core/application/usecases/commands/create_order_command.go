package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
	"ordercore/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

const (
	maxIdempotencyKeyLength = 128
	maxItemQuantity         = 1_000_000
)

// OrderItemInput is one requested order line: a product and a quantity.
type OrderItemInput struct {
	productID kernel.UUID
	quantity  int
}

// NewOrderItemInput creates a validated order line request.
func NewOrderItemInput(productID kernel.UUID, quantity int) (OrderItemInput, error) {
	if err := productID.Validate(); err != nil {
		return OrderItemInput{}, errs.NewValueIsRequiredErrorWithCause("productId", err)
	}
	if quantity <= 0 {
		return OrderItemInput{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, maxItemQuantity)
	}
	return OrderItemInput{productID: productID, quantity: quantity}, nil
}

// ProductID returns the requested product.
func (i OrderItemInput) ProductID() kernel.UUID {
	return i.productID
}

// Quantity returns the requested quantity.
func (i OrderItemInput) Quantity() int {
	return i.quantity
}

// CreateOrderCommand represents a request to create a new order for a
// customer. The idempotency key makes retries of the same logical request
// safe: repeats return the originally created order.
//
// Example:
//
//	item, _ := NewOrderItemInput(productID, 2)
//	cmd, err := NewCreateOrderCommand(customerID, "req-42", "leave at the door", []OrderItemInput{item})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID     kernel.UUID
	idempotencyKey string
	observations   string
	items          []OrderItemInput

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the customer ID is valid, the idempotency key is present
// and within bounds, and that at least one item is requested. Repeated
// lines for the same product are accepted and debit stock cumulatively.
func NewCreateOrderCommand(customerID kernel.UUID, idempotencyKey string,
	observations string, items []OrderItemInput) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		observations: observations,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setCustomerID(customerID),
		orderCommand.setIdempotencyKey(idempotencyKey),
		orderCommand.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// CustomerID returns the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// IdempotencyKey returns the caller-supplied retry key.
func (c CreateOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

// Observations returns free-form notes attached to the order.
func (c CreateOrderCommand) Observations() string {
	return c.observations
}

// Items returns the requested order lines.
func (c CreateOrderCommand) Items() []OrderItemInput {
	return c.items
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setIdempotencyKey(idempotencyKey string) error {
	if idempotencyKey == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		return errs.NewValueIsOutOfRangeError("idempotencyKey", len(idempotencyKey), 1, maxIdempotencyKeyLength)
	}

	c.idempotencyKey = idempotencyKey
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	for _, item := range items {
		if item.quantity <= 0 {
			return errs.NewValueIsOutOfRangeError("quantity", item.quantity, 1, maxItemQuantity)
		}
	}

	c.items = items
	return nil
}
