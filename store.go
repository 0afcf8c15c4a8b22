package superhero

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/DirtdiverIV/SuperHero/internal/search"
	"github.com/DirtdiverIV/SuperHero/internal/state"
)

// subscriberBuffer is the channel buffer for state subscribers. Updates to
// a subscriber whose buffer is full are dropped rather than blocking the
// update path.
const subscriberBuffer = 100

// State is a snapshot of everything the store knows.
//
// Snapshots are produced by completed updates only; a consumer never sees a
// torn state. The Heroes slice in a snapshot handed to subscribers or
// selectors must be treated as read-only.
type State struct {
	// Heroes is the currently materialized page of the collection (or the
	// current search result set).
	Heroes []Hero

	// Selected is the hero loaded by the last LoadHeroByID, or nil.
	Selected *Hero

	// Loading is true while any store operation is in flight.
	Loading bool

	// Err is the message of the most recent failed operation, empty when
	// the last operation succeeded. It is cleared by the next successful
	// operation, not by the next attempt.
	Err string

	// Filters is the criteria of the last successful list load, persisted
	// so a reload with the same filters is always possible.
	Filters Filters

	// Total is the server-reported count matching the current filters.
	Total int

	// SearchTerm is the raw search text that survived the debounce
	// pipeline most recently.
	SearchTerm string
}

// Store holds the client-side working set of heroes and keeps it
// synchronized with the remote collection service.
//
// All state lives in a single reactive cell; operations follow a fixed
// three-phase protocol (mark loading, call the service, merge the result or
// capture the failure). Operation methods block the calling goroutine until
// the terminal state update has been applied, but never return the remote
// error: consumers observe failures through [Store.Err] or a subscription.
//
// A Store is safe for concurrent use. Overlapping list loads apply in
// response-arrival order, so the last response wins regardless of issue
// order; callers that need strict ordering must serialize their calls.
// Overlapping mutations against the same id are the caller's
// responsibility.
//
// Call [Store.Close] when done. After Close the search pipeline stops
// dispatching, subscribers are closed, and results of still-in-flight calls
// are discarded.
type Store struct {
	client    Client
	ownClient *apiClient
	logger    *slog.Logger
	initial   State

	cell *state.Cell[State]

	heroes     *state.Selector[State, []Hero]
	selected   *state.Selector[State, *Hero]
	loading    *state.Selector[State, bool]
	lastErr    *state.Selector[State, string]
	filters    *state.Selector[State, Filters]
	total      *state.Selector[State, int]
	searchTerm *state.Selector[State, string]

	search *search.Debouncer

	closed    atomic.Bool
	closeOnce sync.Once

	subMu       sync.Mutex
	subscribers map[<-chan State]*subscriber
}

// subscriber pairs a snapshot channel with its cell watcher. The mutex makes
// the watcher's send and the teardown's close mutually exclusive: a watcher
// notification already in flight when the subscription is torn down sees the
// closed flag instead of sending on a closed channel.
type subscriber struct {
	ch     chan State
	cancel func()

	mu     sync.Mutex
	closed bool
}

// closeDown detaches the watcher and closes the channel. Blocks until any
// in-flight notification for this subscriber has finished.
func (sub *subscriber) closeDown() {
	if sub.cancel != nil {
		sub.cancel()
	}
	sub.mu.Lock()
	sub.closed = true
	sub.mu.Unlock()
	close(sub.ch)
}

// New creates a [Store] with the given options.
//
// A remote collection service must be configured via [WithBaseURL] or
// [WithClient]. Other options have sensible defaults:
//   - Page size: 10
//   - Debounce window: 300ms
//   - Request timeout: 10 seconds
//   - Logger: slog.Default()
//
// Returns an error if no service is configured or any option is invalid.
//
// Example:
//
//	store, err := superhero.New(
//	    superhero.WithBaseURL("http://localhost:3000"),
//	    superhero.WithDefaultPageSize(20),
//	)
func New(opts ...Option) (*Store, error) {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	client := cfg.client
	var owned *apiClient
	if client == nil {
		if cfg.baseURL == "" {
			return nil, fmt.Errorf("a collection service is required: use WithBaseURL or WithClient")
		}
		owned = &apiClient{inner: newHTTPClient(cfg)}
		client = owned
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	initial := State{
		Heroes: []Hero{},
		Filters: Filters{
			Page:     1,
			PageSize: cfg.pageSize,
		},
	}

	s := &Store{
		client:      client,
		ownClient:   owned,
		logger:      logger,
		initial:     initial,
		cell:        state.NewCell(initial),
		subscribers: make(map[<-chan State]*subscriber),
	}

	s.heroes = state.NewSelector(s.cell, func(st State) []Hero { return st.Heroes })
	s.selected = state.NewSelector(s.cell, func(st State) *Hero { return st.Selected })
	s.loading = state.NewSelector(s.cell, func(st State) bool { return st.Loading })
	s.lastErr = state.NewSelector(s.cell, func(st State) string { return st.Err })
	s.filters = state.NewSelector(s.cell, func(st State) Filters { return st.Filters })
	s.total = state.NewSelector(s.cell, func(st State) int { return st.Total })
	s.searchTerm = state.NewSelector(s.cell, func(st State) string { return st.SearchTerm })

	s.search = search.NewDebouncer(cfg.debounce, initial.SearchTerm, s.onSearch)

	return s, nil
}

// Heroes returns the currently materialized hero list.
//
// The slice is shared with the store's snapshot and must not be modified.
func (s *Store) Heroes() []Hero { return s.heroes.Get() }

// SelectedHero returns the hero loaded by the last [Store.LoadHeroByID],
// or nil when nothing is selected.
func (s *Store) SelectedHero() *Hero { return s.selected.Get() }

// Loading reports whether any store operation is currently in flight.
func (s *Store) Loading() bool { return s.loading.Get() }

// Err returns the message of the most recent failed operation, or the
// empty string when the last operation succeeded.
func (s *Store) Err() string { return s.lastErr.Get() }

// CurrentFilters returns the filters of the last successful list load.
func (s *Store) CurrentFilters() Filters { return s.filters.Get() }

// Total returns the server-reported count matching the current filters.
func (s *Store) Total() int { return s.total.Get() }

// SearchTerm returns the search text that most recently survived the
// debounce pipeline.
func (s *Store) SearchTerm() string { return s.searchTerm.Get() }

// Snapshot returns the full current state.
func (s *Store) Snapshot() State { return s.cell.Get() }

// Subscribe returns a channel that receives a state snapshot after every
// completed update.
//
// The channel has a buffer of 100 snapshots; updates to a slow subscriber
// are dropped rather than blocking the store. Call [Store.Unsubscribe]
// when done. Subscribing to a closed store returns a closed channel.
func (s *Store) Subscribe() <-chan State {
	sub := &subscriber{ch: make(chan State, subscriberBuffer)}

	if s.closed.Load() {
		close(sub.ch)
		return sub.ch
	}

	sub.cancel = s.cell.Watch(func(st State) {
		sub.mu.Lock()
		defer sub.mu.Unlock()
		if sub.closed {
			return
		}
		select {
		case sub.ch <- snapshotCopy(st):
		default:
			// subscriber is slow, drop the update
		}
	})

	s.subMu.Lock()
	if s.closed.Load() {
		// Close ran between the first check and registration
		s.subMu.Unlock()
		sub.closeDown()
		return sub.ch
	}
	s.subscribers[sub.ch] = sub
	s.subMu.Unlock()
	return sub.ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call with a channel that was already unsubscribed.
func (s *Store) Unsubscribe(ch <-chan State) {
	s.subMu.Lock()
	sub, ok := s.subscribers[ch]
	if ok {
		delete(s.subscribers, ch)
	}
	s.subMu.Unlock()

	if ok {
		sub.closeDown()
	}
}

// LoadHeroes loads one page of the collection and replaces the cached list.
//
// The options are merged onto the current filters, the current search term
// is merged into the outgoing name filter, and on success the merged
// filters are persisted along with the page contents and total. An invalid
// option makes the whole call a no-op (logged, never surfaced as an error).
//
// There is no request-generation guard: when loads overlap, whichever
// response arrives last wins, regardless of issue order.
func (s *Store) LoadHeroes(ctx context.Context, opts ...FilterOption) {
	merged := s.cell.Get().Filters
	for _, opt := range opts {
		if err := opt(&merged); err != nil {
			s.logger.Warn("ignoring list load with invalid filters", "error", err)
			return
		}
	}
	merged.Name = s.cell.Get().SearchTerm

	s.loadList(ctx, merged)
}

// loadList runs the list operation against fully resolved filters.
func (s *Store) loadList(ctx context.Context, filters Filters) {
	s.begin()

	page, err := s.client.List(ctx, filters)
	if err != nil {
		s.fail("list", err)
		return
	}

	s.apply(func(st State) State {
		st.Heroes = page.Heroes
		st.Total = page.Total
		st.Filters = filters
		st.Loading = false
		st.Err = ""
		return st
	})
}

// LoadHeroByID loads a single hero and replaces the selection.
//
// The cached list is not touched.
func (s *Store) LoadHeroByID(ctx context.Context, id string) {
	s.begin()

	hero, err := s.client.Get(ctx, id)
	if err != nil {
		s.fail("get", err)
		return
	}

	s.apply(func(st State) State {
		st.Selected = &hero
		st.Loading = false
		st.Err = ""
		return st
	})
}

// CreateHero creates a new hero and appends the server's result (with its
// assigned id and timestamps) after the existing cached heroes.
func (s *Store) CreateHero(ctx context.Context, draft HeroDraft) {
	s.begin()

	hero, err := s.client.Create(ctx, draft)
	if err != nil {
		s.fail("create", err)
		return
	}

	s.apply(func(st State) State {
		st.Heroes = appendHero(st.Heroes, hero)
		st.Loading = false
		st.Err = ""
		return st
	})
}

// UpdateHero applies a partial update and replaces the matching cached
// element in place.
//
// If the id is not in the cached list, the list is left as-is; no error is
// raised. The selection is replaced too when it holds the same id.
func (s *Store) UpdateHero(ctx context.Context, id string, patch HeroPatch) {
	s.begin()

	hero, err := s.client.Update(ctx, id, patch)
	if err != nil {
		s.fail("update", err)
		return
	}

	s.apply(func(st State) State {
		st.Heroes = replaceHero(st.Heroes, id, hero)
		if st.Selected != nil && st.Selected.ID == id {
			st.Selected = &hero
		}
		st.Loading = false
		st.Err = ""
		return st
	})
}

// DeleteHero deletes a hero and removes the matching cached element.
//
// The selection and total are not adjusted automatically; the caller is
// responsible for consistency after a delete (typically by reloading).
func (s *Store) DeleteHero(ctx context.Context, id string) {
	s.begin()

	if err := s.client.Delete(ctx, id); err != nil {
		s.fail("delete", err)
		return
	}

	s.apply(func(st State) State {
		st.Heroes = removeHero(st.Heroes, id)
		st.Loading = false
		st.Err = ""
		return st
	})
}

// SetSearchTerm feeds a raw search value into the debounce pipeline.
//
// A value that survives the quiet window and differs from the previous
// emission updates the search term and triggers a list reload on page 1
// with the term merged into the name filter. An empty term reloads the
// unfiltered list.
//
// A nil term is the absent value and is a complete no-op: the search term
// is not overwritten and no reload is triggered.
func (s *Store) SetSearchTerm(term *string) {
	if term == nil {
		return
	}
	s.search.Set(*term)
}

// onSearch is the debounce pipeline's effect: record the surviving term and
// reload the list from page 1.
func (s *Store) onSearch(term string) {
	if s.closed.Load() {
		return
	}

	s.apply(func(st State) State {
		st.SearchTerm = term
		return st
	})

	filters := s.cell.Get().Filters
	filters.Page = 1
	filters.Name = term

	s.loadList(context.Background(), filters)
}

// ClearSelected drops the current selection without touching anything else.
func (s *Store) ClearSelected() {
	s.apply(func(st State) State {
		st.Selected = nil
		return st
	})
}

// Reset restores the state to its initial shape atomically: empty list, no
// selection, not loading, no error, page 1 with the configured default page
// size, zero total, empty search term. The debounce pipeline's dedupe gate
// is re-primed as well, so the initial term behaves as it did on a fresh
// store.
func (s *Store) Reset() {
	s.search.Reset(s.initial.SearchTerm)
	s.apply(func(State) State {
		return s.initial
	})
}

// Close tears the store down.
//
// The search pipeline stops dispatching (input arriving after Close is
// dropped), all subscriber channels are closed, and state updates from
// still-in-flight operations are discarded when they land. In-flight calls
// themselves are not cancelled; pass a cancellable context to the operation
// if that is needed.
//
// Close is idempotent.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.search.Stop()

		s.subMu.Lock()
		subs := make([]*subscriber, 0, len(s.subscribers))
		for ch, sub := range s.subscribers {
			subs = append(subs, sub)
			delete(s.subscribers, ch)
		}
		s.subMu.Unlock()
		for _, sub := range subs {
			sub.closeDown()
		}

		if s.ownClient != nil {
			s.ownClient.close()
		}
	})
}

// begin marks an operation as dispatched. The error field is deliberately
// left alone: it is cleared by the next success, not the next attempt.
func (s *Store) begin() {
	s.apply(func(st State) State {
		st.Loading = true
		return st
	})
}

// fail records a terminal failure. Entities and selection stay untouched;
// the store remains usable for subsequent operations.
func (s *Store) fail(op string, err error) {
	s.logger.Warn("operation failed", "op", op, "error", err)
	s.apply(func(st State) State {
		st.Loading = false
		st.Err = err.Error()
		return st
	})
}

// apply runs a state transform through the cell unless the store has been
// closed. A transform that panics is captured into the error field instead
// of escaping the cell.
func (s *Store) apply(fn func(State) State) {
	if s.closed.Load() {
		return
	}

	s.cell.Update(func(st State) State {
		next, err := runTransform(fn, st)
		if err != nil {
			s.logger.Error("state transform failed", "error", err)
			st.Loading = false
			st.Err = err.Error()
			return st
		}
		return next
	})
}

// runTransform invokes the transform with panic recovery.
func runTransform(fn func(State) State, st State) (out State, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("state transform panic: %v", r)
		}
	}()
	return fn(st), nil
}

// appendHero adds a hero after the existing ones, building a fresh slice so
// earlier snapshots are never mutated. If the id is already cached the
// element is replaced in place instead, preserving the no-duplicate-id
// invariant.
func appendHero(heroes []Hero, hero Hero) []Hero {
	for i := range heroes {
		if heroes[i].ID == hero.ID {
			return replaceHero(heroes, hero.ID, hero)
		}
	}
	out := make([]Hero, 0, len(heroes)+1)
	out = append(out, heroes...)
	return append(out, hero)
}

// replaceHero swaps the element with the given id, returning a fresh slice.
// If the id is absent the original slice is returned unchanged.
func replaceHero(heroes []Hero, id string, hero Hero) []Hero {
	for i := range heroes {
		if heroes[i].ID == id {
			out := make([]Hero, len(heroes))
			copy(out, heroes)
			out[i] = hero
			return out
		}
	}
	return heroes
}

// removeHero filters out the element with the given id, returning a fresh
// slice. If the id is absent the original slice is returned unchanged.
func removeHero(heroes []Hero, id string) []Hero {
	for i := range heroes {
		if heroes[i].ID == id {
			out := make([]Hero, 0, len(heroes)-1)
			out = append(out, heroes[:i]...)
			return append(out, heroes[i+1:]...)
		}
	}
	return heroes
}

// snapshotCopy returns a subscriber-safe copy of a state snapshot: the
// heroes slice is duplicated so a subscriber cannot mutate store state.
func snapshotCopy(st State) State {
	heroes := make([]Hero, len(st.Heroes))
	copy(heroes, st.Heroes)
	st.Heroes = heroes
	return st
}
