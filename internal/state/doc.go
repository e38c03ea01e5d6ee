// Package state holds the view state behind Shelf's product listings.
//
// # Overview
//
// Two kinds of state live here:
//
//   - Coordinator: observable state of one listing view (phase, loading
//     flag, error message, page counters, items, categories). The terminal
//     UI subscribes to it and re-renders on change.
//   - CatalogStore: a mutex-guarded snapshot of the full catalog that the
//     HTTP frontend's background poller keeps fresh.
//
// # Coordinator Lifecycle
//
//	idle ──LoadItems──> loading ──ok──> ready
//	                       │
//	                       └──err──> errored
//
// Any phase may go back to loading when a new LoadItems starts. Loading is
// cleared on both outcomes. LoadCategories runs independently: its failure
// sets Error but never touches Phase, Loading or Items.
//
// # Initialization
//
// Initialize checks the shared cache.Cache first. A non-empty cached list
// is reused as-is (phase ready, no request); otherwise page 1 is loaded.
// Categories are fetched either way.
//
// # Concurrency
//
// Observable fields are safe for concurrent use. Loads are not cancelled
// when a newer one begins, so two overlapping LoadItems calls for different
// pages finish in whatever order the network allows and the later
// completion wins.
//
// # CatalogStore
//
// Update replaces the snapshot on success. On failure the previous catalog
// is kept, LastError is recorded and ConsecutiveFailures grows; IsStale
// reports two or more failures in a row.
package state
