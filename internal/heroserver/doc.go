// Package heroserver implements a development server for the hero
// collection API.
//
// The server speaks the same wire contract the store's client expects:
// a paginated /heroes collection with server-side substring name filtering,
// JSON error payloads, and server-assigned ids and timestamps. Persistence
// is a SQLite repository (pure Go driver), either in-memory or file-backed,
// so local development survives restarts when pointed at a file.
//
// This package backs the CLI's serve command and the runnable example; it
// is not part of the public API.
package heroserver
