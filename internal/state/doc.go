// Package state provides the reactive primitives the hero store is built
// on: a versioned single-value cell with push-based change notification,
// and lazy memoized selectors derived from it.
//
// A Cell owns exactly one value. All mutation goes through Update, which
// applies a transform atomically and bumps a version counter; readers only
// ever observe completed updates. Watchers registered via Watch are invoked
// after each update, outside the value lock. Selectors project the cell's
// value through a pure function and cache the result keyed on the cell
// version, so repeated reads between updates are free.
//
// The package is generic and knows nothing about heroes; the root package
// instantiates it with its own state record.
package state
