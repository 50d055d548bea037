// ABOUTME: Package documentation for the POS document store
// ABOUTME: Describes the state graph, persistence model, and error contract

// Package store is the system of record for the POS: an in-memory object
// graph of catalog items, staff, settings, and tickets, persisted to a
// single JSON file.
//
// # Architecture
//
// One Store instance owns all mutable state for the process lifetime.
// Construct it with Open and pass the handle to consumers; operations are
// safe for concurrent use behind an internal RWMutex, which gives the Go
// rendition the mutation atomicity the system design assumes of its single
// writer.
//
// Mutations validate input, update the graph, invalidate the analytics
// caches, and schedule a debounced persist: bursts of writes inside the
// debounce window (2s by default) collapse into one disk write. The write
// itself is atomic — serialize to a .tmp sibling, fsync, rename — so the
// store file is always a complete state, old or new. Close drains the
// dirty flag synchronously; call it before exit.
//
// # File format
//
// The persisted JSON has three top-level keys: data (entity collections),
// idCounters (next id per kind), settings. Older files using the legacy
// nextIds key or a top-level single-admin adminPin field are upgraded on
// load; plaintext PINs are hashed during the same migration. A file that
// fails to parse is copied verbatim to <path>.corrupt.<timestamp> and the
// store reseeds with sample data.
//
// # Errors
//
//   - ErrNotFound: referenced id does not exist
//   - ErrValidation: malformed caller input (wrapped with detail)
//   - ErrLastAdmin: delete would empty the administrator collection
//   - ErrIncorrectPIN: any failed PIN check
//
// Background flush failures are logged, never raised: the in-memory state
// stays correct and a later flush can succeed.
package store
