// Package kernel provides the core domain primitives shared by the order
// management model.
//
// It currently contains a single building block:
//   - UUID: a value object for entity identifiers with validation and
//     comparison behavior, wrapping github.com/google/uuid
//
// Kernel types are immutable and safe for concurrent use. They enforce their
// own invariants so the entities built on top of them cannot hold malformed
// identifiers.
package kernel
