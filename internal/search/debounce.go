package search

import (
	"sync"
	"time"
)

// Debouncer coalesces a stream of string values into debounced, deduplicated
// emissions.
//
// Values arrive via [Debouncer.Set], which may be called arbitrarily fast
// from any goroutine. A value is emitted only after the quiet window has
// elapsed with no newer value arriving, and only if it differs from the
// immediately preceding emission. Emissions run the callback on the timer
// goroutine, one at a time per surviving value.
//
// The debouncer is bound to its owner's lifetime: [Debouncer.Stop] cancels
// any pending timer and drops all later values. Stop is idempotent.
type Debouncer struct {
	window time.Duration
	emit   func(string)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending string
	last    string
	primed  bool
	stopped bool
}

// NewDebouncer creates a [Debouncer] with the given quiet window and emit
// callback.
//
// The seed value primes the dedupe gate: setting a value equal to seed
// before anything else has been emitted is suppressed. Pass the owner's
// initial term so that re-submitting it does not fire a redundant dispatch.
func NewDebouncer(window time.Duration, seed string, emit func(string)) *Debouncer {
	return &Debouncer{
		window: window,
		emit:   emit,
		last:   seed,
		primed: true,
	}
}

// Set submits a new raw value.
//
// Any pending timer is cancelled and restarted, so only the last value seen
// within the quiet window can be emitted. Calls after [Debouncer.Stop] are
// dropped.
func (d *Debouncer) Set(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending = value
	if d.timer != nil {
		d.timer.Stop()
	}
	// Stop cannot unschedule a timer whose callback has already started;
	// the generation lets such a callback detect it was superseded
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// fire runs when a quiet window elapses uncancelled. It applies the dedupe
// gate and invokes the emit callback outside the lock. A callback whose
// generation is no longer current was replaced by a newer Set (or a Reset)
// and must not emit; the replacement runs its own full quiet window.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}

	value := d.pending
	d.timer = nil

	if d.primed && value == d.last {
		// identical to the previous emission, suppress
		d.mu.Unlock()
		return
	}
	d.last = value
	d.primed = true
	d.mu.Unlock()

	d.emit(value)
}

// Reset cancels any pending emission and re-primes the dedupe gate with the
// given seed, as if the debouncer had just been created.
func (d *Debouncer) Reset(seed string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.last = seed
	d.primed = true
}

// Stop cancels any pending emission and drops all later values.
//
// Stop is idempotent. A timer callback that has already passed the stopped
// check may still complete its emission concurrently with Stop; owners that
// need a hard boundary must gate the emit callback on their own lifecycle
// flag.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
