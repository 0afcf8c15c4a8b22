package search

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

const testWindow = 40 * time.Millisecond

// collector records emissions for assertions.
type collector struct {
	mu     sync.Mutex
	values []string
}

func (c *collector) emit(v string) {
	c.mu.Lock()
	c.values = append(c.values, v)
	c.mu.Unlock()
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.values))
	copy(out, c.values)
	return out
}

func (c *collector) waitFor(t *testing.T, want int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := c.snapshot(); len(got) >= want {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d emissions, got %v", want, c.snapshot())
	return nil
}

func TestSet_EmitsAfterQuietWindow(t *testing.T) {
	var c collector
	d := NewDebouncer(testWindow, "", c.emit)
	defer d.Stop()

	d.Set("spider")

	got := c.waitFor(t, 1)
	if got[0] != "spider" {
		t.Errorf("emitted %q, want %q", got[0], "spider")
	}
}

// TestSet_RapidValuesCollapseToLast verifies the debounce contract: values
// arriving inside each other's quiet window produce a single emission
// carrying the last value.
func TestSet_RapidValuesCollapseToLast(t *testing.T) {
	var c collector
	d := NewDebouncer(testWindow, "", c.emit)
	defer d.Stop()

	d.Set("s")
	time.Sleep(testWindow / 4)
	d.Set("sp")
	time.Sleep(testWindow / 4)
	d.Set("spider")

	got := c.waitFor(t, 1)
	// allow the window to lapse again to prove nothing else fires
	time.Sleep(2 * testWindow)

	if final := c.snapshot(); len(final) != 1 {
		t.Fatalf("got %d emissions %v, want 1", len(final), final)
	}
	if got[0] != "spider" {
		t.Errorf("emitted %q, want %q", got[0], "spider")
	}
}

func TestSet_DistinctValuesEachEmit(t *testing.T) {
	var c collector
	d := NewDebouncer(testWindow, "", c.emit)
	defer d.Stop()

	d.Set("bat")
	c.waitFor(t, 1)
	d.Set("super")
	got := c.waitFor(t, 2)

	if got[0] != "bat" || got[1] != "super" {
		t.Errorf("emissions = %v, want [bat super]", got)
	}
}

// TestSet_DuplicateValueSuppressed verifies the dedupe gate: a value equal to
// the previous emission never fires again.
func TestSet_DuplicateValueSuppressed(t *testing.T) {
	var c collector
	d := NewDebouncer(testWindow, "", c.emit)
	defer d.Stop()

	d.Set("flash")
	c.waitFor(t, 1)

	d.Set("flash")
	time.Sleep(3 * testWindow)

	if got := c.snapshot(); len(got) != 1 {
		t.Errorf("got %d emissions %v, want 1", len(got), got)
	}
}

func TestSet_SeedSuppressesInitialValue(t *testing.T) {
	var c collector
	d := NewDebouncer(testWindow, "seeded", c.emit)
	defer d.Stop()

	d.Set("seeded")
	time.Sleep(3 * testWindow)

	if got := c.snapshot(); len(got) != 0 {
		t.Errorf("got emissions %v, want none", got)
	}
}

func TestReset_RePrimesDedupeGate(t *testing.T) {
	var c collector
	d := NewDebouncer(testWindow, "", c.emit)
	defer d.Stop()

	d.Set("hulk")
	c.waitFor(t, 1)

	d.Reset("")

	// after Reset the gate holds "" again, so the old term fires anew and
	// the empty term is suppressed
	d.Set("")
	time.Sleep(3 * testWindow)
	if got := c.snapshot(); len(got) != 1 {
		t.Fatalf("empty term after Reset emitted, got %v", got)
	}

	d.Set("hulk")
	got := c.waitFor(t, 2)
	if got[1] != "hulk" {
		t.Errorf("emitted %q, want %q", got[1], "hulk")
	}
}

func TestReset_CancelsPendingEmission(t *testing.T) {
	var c collector
	d := NewDebouncer(testWindow, "", c.emit)
	defer d.Stop()

	d.Set("doomed")
	d.Reset("")

	time.Sleep(3 * testWindow)
	if got := c.snapshot(); len(got) != 0 {
		t.Errorf("got emissions %v, want none", got)
	}
}

// TestSet_ReplacementGetsFullQuietWindow lands Set calls right on the timer
// boundary of the previous value: even when the old timer's callback has
// already started, the new value must not be emitted before its own quiet
// window has elapsed.
func TestSet_ReplacementGetsFullQuietWindow(t *testing.T) {
	const window = 25 * time.Millisecond

	var (
		mu      sync.Mutex
		emitted = map[string]time.Time{}
	)
	d := NewDebouncer(window, "", func(v string) {
		mu.Lock()
		emitted[v] = time.Now()
		mu.Unlock()
	})
	defer d.Stop()

	lookup := func(v string) (time.Time, bool) {
		mu.Lock()
		defer mu.Unlock()
		at, ok := emitted[v]
		return at, ok
	}

	for i := 0; i < 20; i++ {
		d.Set(fmt.Sprintf("old-%d", i))
		time.Sleep(window) // lands near the pending timer's boundary

		value := fmt.Sprintf("new-%d", i)
		setAt := time.Now()
		d.Set(value)

		deadline := time.Now().Add(2 * time.Second)
		for {
			if at, ok := lookup(value); ok {
				if elapsed := at.Sub(setAt); elapsed < window {
					t.Fatalf("%s emitted %v after Set, want at least %v", value, elapsed, window)
				}
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("timed out waiting for %s", value)
			}
			time.Sleep(time.Millisecond)
		}
	}
}

func TestStop_DropsPendingAndLaterValues(t *testing.T) {
	var c collector
	d := NewDebouncer(testWindow, "", c.emit)

	d.Set("pending")
	d.Stop()
	d.Set("after")

	time.Sleep(3 * testWindow)
	if got := c.snapshot(); len(got) != 0 {
		t.Errorf("got emissions %v, want none", got)
	}

	// Stop is idempotent
	d.Stop()
}

func TestSet_ConcurrentCallers(t *testing.T) {
	var c collector
	d := NewDebouncer(testWindow, "", c.emit)
	defer d.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Set("racer")
		}()
	}
	wg.Wait()

	got := c.waitFor(t, 1)
	time.Sleep(2 * testWindow)
	if final := c.snapshot(); len(final) != 1 {
		t.Fatalf("got %d emissions %v, want 1", len(final), final)
	}
	if got[0] != "racer" {
		t.Errorf("emitted %q, want %q", got[0], "racer")
	}
}
