// Package state holds the session catalog shared by the terminal UI and the
// HTML view.
//
// # Overview
//
// The remote store is the system of record across sessions; within one
// session the Store is. Fetch, create and update results are written here, and
// every reader works from a Snapshot copy.
//
// # Concurrency Model
//
// The Store uses a readers-writer lock:
//
//   - Load/Upsert/UpsertAt/ReplaceExisting/Overlay: write lock
//   - Snapshot/Find/FindByTitle/Len: read lock
//
// The terminal UI mutates the store from Bubble Tea commands while `serve`
// reads it from HTTP handlers. The lock is held only while copying, never
// during network I/O or rendering.
//
// # Load Semantics
//
//	// Success: replace the catalog
//	store.Load(products, nil)
//	→ snapshot.Products = products
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Failure: the session continues with an empty catalog
//	store.Load(nil, err)
//	→ snapshot.Products = <empty>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// A load also forgets every unsynced mark, since the server copy replaces
// whatever was overlaid locally.
//
// # Unsynced Records
//
// Overlay applies a degraded update (the payload fields written onto the
// local product when the server rejected the write or could not be reached)
// and marks the id unsynced. Upsert, UpsertAt and ReplaceExisting record a
// server-confirmed write and clear the mark.
//
// # Defensive Copying
//
// Products, their image lists and the unsynced set are cloned on the way in
// and on the way out. Callers may mutate what they receive.
package state
