// Package order provides domain entities and business logic for order
// management. It implements the Order aggregate root with item lines,
// append-only status history and domain events.
//
// The package includes:
//   - Order: the aggregate root owning items, totals and lifecycle
//   - Item: an order line with the unit price snapshotted at creation
//   - Status: a state machine enforcing valid status transitions
//   - StatusChange: one audit record of the status history
//   - DomainEvent: a durable ORDER_STATUS_CHANGED record for the message bus
//
// Key business rules:
//   - Creating an order reserves stock for every item atomically
//   - Prices are captured at creation; catalog changes never affect orders
//   - Illegal status transitions are conflicts and leave the order intact
//   - Canceling is only possible from PENDING or CONFIRMED and credits
//     stock back
package order
