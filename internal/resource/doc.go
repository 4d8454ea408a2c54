// Package resource implements the write semantics shared by every resource
// collection in the API: create, read, PUT-as-upsert, PATCH with no-op
// detection, and the bulk collection operations.
//
// The engine is deliberately kind-agnostic. A resource kind (user, address,
// decision, project, support) contributes only a Repository implementation
// and a decoded field set; the decision logic (when to insert, when to
// update, when to report UNCHANGED without touching the store) lives here
// exactly once.
//
// Key contracts:
//
//   - Replace is idempotent: replaying the same field set against the same
//     id yields CREATED the first time and UNCHANGED every time after.
//   - Patch never creates. An absent id is NOT_FOUND, not an insert.
//   - UNCHANGED outcomes issue zero mutating statements.
//   - The read-compare-write sequence is two store statements, not one
//     transaction. A concurrent writer between the two can be overwritten
//     (last write wins); the store serializes writers on a single
//     connection, which narrows but does not close the window.
package resource
