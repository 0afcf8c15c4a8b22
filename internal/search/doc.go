// Package search implements the debounced, deduplicated input pipeline
// that turns raw keystroke text into at most one downstream dispatch per
// quiet window.
//
// The pipeline is a timer-based coalescing queue: each new value cancels
// any pending timer and starts a fresh one, so only the last value seen
// within the window survives. A surviving value then passes through an
// adjacent-value gate that suppresses it if it equals the previously
// emitted value, avoiding redundant dispatches for identical repeated
// text.
package search
