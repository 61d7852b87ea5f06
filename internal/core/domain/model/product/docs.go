// Package product contains the Product entity: a stock-tracked catalog item
// with a snapshot-able price. Stock moves only through DebitStock and
// CreditStock, which the order service calls while holding the product's
// exclusive row lock.
package product
