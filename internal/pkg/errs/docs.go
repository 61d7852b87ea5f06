// Package errs provides the standardized error types for the order-management
// core. It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package defines one error type per failure class:
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError:
//     malformed input, rejected before any storage mutation
//   - ObjectNotFoundError: an entity referenced by the caller does not exist
//   - ConflictError: the request cannot be applied to current state (inactive
//     entity, insufficient stock, illegal status transition, write contention)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type with fields for error details and an optional Cause
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is can classify against the sentinel
//
// The sentinels are the machine-checkable error kinds of the service surface;
// the HTTP adapter maps them to transport status codes (400/404/409).
package errs
