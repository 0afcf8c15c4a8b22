package state

import (
	"sync"
	"testing"
)

func TestNewCell_InitialValue(t *testing.T) {
	c := NewCell(42)

	if got := c.Get(); got != 42 {
		t.Errorf("Get() = %v, want %v", got, 42)
	}
	if got := c.Version(); got != 1 {
		t.Errorf("Version() = %v, want %v", got, 1)
	}
}

func TestUpdate_ReplacesValueAndBumpsVersion(t *testing.T) {
	c := NewCell(1)

	next := c.Update(func(v int) int { return v + 10 })

	if next != 11 {
		t.Errorf("Update() = %v, want %v", next, 11)
	}
	if got := c.Get(); got != 11 {
		t.Errorf("Get() = %v, want %v", got, 11)
	}
	if got := c.Version(); got != 2 {
		t.Errorf("Version() = %v, want %v", got, 2)
	}
}

func TestSnapshot_ValueAndVersionConsistent(t *testing.T) {
	c := NewCell("a")
	c.Update(func(string) string { return "b" })

	value, version := c.Snapshot()
	if value != "b" {
		t.Errorf("Snapshot() value = %v, want %v", value, "b")
	}
	if version != 2 {
		t.Errorf("Snapshot() version = %v, want %v", version, 2)
	}
}

// TestUpdate_ConcurrentIncrements verifies that updates are atomic: with N
// concurrent increments no update is lost and the version advances exactly N
// times.
func TestUpdate_ConcurrentIncrements(t *testing.T) {
	const n = 100
	c := NewCell(0)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()

	if got := c.Get(); got != n {
		t.Errorf("Get() = %v, want %v", got, n)
	}
	if got := c.Version(); got != n+1 {
		t.Errorf("Version() = %v, want %v", got, n+1)
	}
}

func TestWatch_ReceivesEveryUpdate(t *testing.T) {
	c := NewCell(0)

	var seen []int
	c.Watch(func(v int) { seen = append(seen, v) })

	c.Update(func(int) int { return 1 })
	c.Update(func(int) int { return 2 })
	c.Update(func(int) int { return 3 })

	want := []int{1, 2, 3}
	if len(seen) != len(want) {
		t.Fatalf("watcher saw %d updates, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestWatch_CancelStopsNotifications(t *testing.T) {
	c := NewCell(0)

	calls := 0
	cancel := c.Watch(func(int) { calls++ })

	c.Update(func(int) int { return 1 })
	cancel()
	c.Update(func(int) int { return 2 })

	if calls != 1 {
		t.Errorf("watcher called %d times, want 1", calls)
	}

	// cancel is idempotent
	cancel()
}

func TestWatch_MultipleWatchersRegistrationOrder(t *testing.T) {
	c := NewCell(0)

	var order []string
	c.Watch(func(int) { order = append(order, "first") })
	c.Watch(func(int) { order = append(order, "second") })

	c.Update(func(int) int { return 1 })

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("notification order = %v, want [first second]", order)
	}
}

// TestWatch_CallbackMayReadCell verifies watchers run outside the value lock.
func TestWatch_CallbackMayReadCell(t *testing.T) {
	c := NewCell(0)

	var observed int
	c.Watch(func(int) { observed = c.Get() })

	c.Update(func(int) int { return 7 })

	if observed != 7 {
		t.Errorf("watcher read %v, want %v", observed, 7)
	}
}
