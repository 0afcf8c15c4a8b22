package state

import (
	"sync"
)

// Selector is a lazy, memoized projection of a [Cell].
//
// The projection function must be pure: same input value, same result, no
// side effects, and no writes back to the cell. The selector recomputes
// only when it is read after the cell has changed; reads between updates
// return the cached value without invoking the projection again.
//
// Value stability is guaranteed between updates. Referential stability is
// not a goal: after a cell update the projection runs again even if the
// projected value happens to be equal.
type Selector[T, R any] struct {
	cell    *Cell[T]
	project func(T) R

	mu     sync.Mutex
	seen   uint64
	valid  bool
	cached R
}

// NewSelector creates a [Selector] over the cell with the given projection.
//
// The projection is not invoked until the first [Selector.Get].
func NewSelector[T, R any](cell *Cell[T], project func(T) R) *Selector[T, R] {
	return &Selector[T, R]{
		cell:    cell,
		project: project,
	}
}

// Get returns the projected value, recomputing it only if the cell has
// changed since the last read.
func (s *Selector[T, R]) Get() R {
	value, version := s.cell.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid && s.seen == version {
		return s.cached
	}

	s.cached = s.project(value)
	s.seen = version
	s.valid = true
	return s.cached
}
