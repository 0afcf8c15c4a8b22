// Package superhero provides a client-side entity store for a remote hero
// collection, with reactive derived state and a debounced search pipeline.
//
// The store holds a working set of heroes synchronized with a paginated
// collection endpoint and exposes always-consistent derived views: the
// materialized list, the current selection, loading and error status, the
// active filters, and the server-reported total.
//
// # Quick Start
//
// Create a store pointed at a collection service and load the first page:
//
//	store, _ := superhero.New(superhero.WithBaseURL("http://localhost:3000"))
//	defer store.Close()
//
//	store.LoadHeroes(ctx)
//	if msg := store.Err(); msg != "" {
//	    // the operation failed; the store stays usable
//	}
//	for _, hero := range store.Heroes() {
//	    fmt.Println(hero.Name)
//	}
//
// # Operations
//
// The five collection operations ([Store.LoadHeroes], [Store.LoadHeroByID],
// [Store.CreateHero], [Store.UpdateHero], [Store.DeleteHero]) all follow
// the same protocol: loading is set before the remote call, and the terminal
// update either merges the result into state or captures the failure into
// the error field. Remote errors are never returned to the caller; read
// [Store.Err] or subscribe to snapshots instead.
//
// # Search
//
// [Store.SetSearchTerm] feeds raw keystroke text into a debounced,
// deduplicated pipeline. A term that survives the quiet window (300ms by
// default) and differs from the previous emission triggers a list reload on
// page 1 with the term merged into the name filter.
//
// # Subscriptions
//
// [Store.Subscribe] returns a buffered channel receiving a state snapshot
// after every completed update, so notification sinks and busy indicators
// can react without polling. Slow subscribers miss updates rather than
// blocking the store.
//
// # Architecture
//
// The package is built on a few internal layers:
//
//   - internal/state: versioned reactive cell and lazy memoized selectors
//   - internal/search: timer-based debounce/dedupe pipeline
//   - internal/api: HTTP client for the collection endpoint
//   - internal/heroserver: SQLite-backed dev server implementing the
//     collection contract (used by the CLI's serve command)
//
// The internal packages are not part of the public API and may change
// without notice.
package superhero
