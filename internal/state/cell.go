package state

import (
	"sort"
	"sync"
)

// Cell is a thread-safe container for a single value of type T.
//
// The cell holds the authoritative copy of the value; every change goes
// through [Cell.Update], which replaces the value atomically. A monotonic
// version counter increments on every update, allowing derived layers
// (see [Selector]) to detect staleness without comparing values.
//
// Watchers receive the new value after each completed update. They are
// called synchronously on the updating goroutine, outside the value lock,
// so a watcher may read the cell but must not call Update (that would
// re-enter the notification path).
type Cell[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64

	watchMu  sync.RWMutex
	watchers map[int]func(T)
	nextID   int
}

// NewCell creates a [Cell] holding the given initial value at version 1.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		value:    initial,
		version:  1,
		watchers: make(map[int]func(T)),
	}
}

// Get returns the current value.
//
// The returned value is the result of the most recently completed update;
// a torn or partially applied state is never observable.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Version returns the current version counter.
//
// The version increments by one on every completed update and never
// decreases.
func (c *Cell[T]) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Snapshot returns the current value together with its version.
//
// Both are read under the same lock, so the pair is always consistent.
// Selectors use this to cache a projection against the version it was
// computed from.
func (c *Cell[T]) Snapshot() (T, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.version
}

// Update applies the transform to the current value and stores the result.
//
// The transform runs under the value lock, so it must be quick and must not
// touch the cell itself. The replacement is atomic: concurrent Get calls
// see either the old or the new value, never an intermediate. After the
// value is swapped, all watchers are notified with the new value.
//
// Update returns the new value.
func (c *Cell[T]) Update(fn func(T) T) T {
	c.mu.Lock()
	c.value = fn(c.value)
	c.version++
	next := c.value
	c.mu.Unlock()

	c.notifyWatchers(next)
	return next
}

// Watch registers a callback invoked after every completed update.
//
// The callback receives the value that resulted from the update. Callbacks
// for a single update run sequentially in registration order; callbacks for
// successive updates are never reordered.
//
// The returned cancel function removes the watcher. It is idempotent and
// safe to call concurrently with updates; after cancel returns, the watcher
// will not be invoked for any later update.
func (c *Cell[T]) Watch(fn func(T)) (cancel func()) {
	c.watchMu.Lock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = fn
	c.watchMu.Unlock()

	return func() {
		c.watchMu.Lock()
		delete(c.watchers, id)
		c.watchMu.Unlock()
	}
}

// notifyWatchers calls each registered watcher with the new value.
//
// Runs outside the value lock so watchers may read the cell. Watchers
// registered while a notification is in flight only see later updates.
func (c *Cell[T]) notifyWatchers(value T) {
	c.watchMu.RLock()
	ids := make([]int, 0, len(c.watchers))
	for id := range c.watchers {
		ids = append(ids, id)
	}
	// map iteration order is random; sort by registration id for a
	// deterministic callback order
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.watchers[id])
	}
	c.watchMu.RUnlock()

	for _, fn := range fns {
		fn(value)
	}
}
