// Package persist provides the durable key-value storage the state store
// mirrors selected fields into.
//
// # Port
//
// The store depends only on the Port interface: Get, Set and Delete on plain
// string keys holding serialized text. Absence of a key means "use default".
// Writes are synchronous and best-effort from the caller's point of view;
// nothing here rolls back in-memory state.
//
// # Implementations
//
//   - Memory: map-backed, for tests; can be told to fail writes
//   - SQLite: file-backed single-table store
//
// # Database Configuration
//
//   - WAL mode: readers do not block the writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Schema changes are tracked with PRAGMA user_version.
package persist
