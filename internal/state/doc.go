// Package state implements the client state store.
//
// The store is the single owner of UI-visible state: current view, product
// catalog and its derived filtered view, search query, filter criteria,
// authenticated user, session token and cart. It accepts discrete actions and
// replaces its snapshot on each one.
//
// ARCHITECTURE:
//
// Actions are a closed set of struct types implementing Action. Each carries
// only its own payload and implements the reducer for itself, so the set of
// handled kinds is checked by the compiler rather than by a switch.
//
// Reduce is pure: (Snapshot, Action) -> (Snapshot, []Write). The Store wraps
// it, applying the resulting writes to the persistence port synchronously
// inside Dispatch and then notifying subscribers.
//
// INVARIANTS:
//   - Filtered is always catalog.Apply(Products, Query, Filters); it is
//     recomputed by every action that changes one of the three inputs
//   - no cart line has Quantity < 1
//   - a snapshot handed out is never mutated afterwards; reducers replace
//     slices instead of editing them
//
// FAILURE SEMANTICS:
//
// Dispatch never returns an error. Unknown views are accepted as-is (use
// ResolveView when rendering). Storage write failures are logged and leave
// the in-memory snapshot untouched. Corrupt persisted data is discarded
// wholesale when the store is created.
package state
