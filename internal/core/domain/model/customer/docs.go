// Package customer contains the Customer entity. Within the order core the
// customer is a read-only collaborator: the service checks existence and the
// active flag, and records the customer reference on created orders.
package customer
