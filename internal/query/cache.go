package query

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/catalogview/internal/logging"
)

// FetchFunc loads the value for one key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// State is the observable state of one key.
type State[T any] struct {
	Data T
	// IsLoading is true while a fetch is outstanding and there is no data to show.
	IsLoading bool
	// IsFetching is true while any fetch is outstanding, including background refreshes.
	IsFetching bool
	IsFetched  bool
	IsError    bool
	Err        error
	UpdatedAt  time.Time
}

// ResultMsg carries a finished fetch back to the Update loop.
type ResultMsg[T any] struct {
	Cache *Cache[T]
	Key   string
	Gen   uint64
	Data  T
	Err   error
}

// Config tunes a Cache. The zero value is usable.
type Config struct {
	// StaleAfter is how old a successful result may get before re-activating
	// its key triggers a background refetch. Zero disables staleness.
	StaleAfter time.Duration
	// Context is the parent context for fetches. Defaults to context.Background.
	Context context.Context
	Logger  zerolog.Logger
	// Now overrides the clock in tests.
	Now func() time.Time
}

type entry[T any] struct {
	data      T
	hasData   bool
	fetched   bool
	inFlight  bool
	err       error
	updatedAt time.Time
	gen       uint64
	active    bool
}

// Cache is a keyed query cache.
type Cache[T any] struct {
	name    string
	entries map[string]*entry[T]
	nextGen uint64

	staleAfter time.Duration
	ctx        context.Context
	logger     zerolog.Logger
	now        func() time.Time
}

// NewCache creates an empty cache. name only appears in log lines.
func NewCache[T any](name string, cfg Config) *Cache[T] {
	c := &Cache[T]{
		name:       name,
		entries:    make(map[string]*entry[T]),
		staleAfter: cfg.StaleAfter,
		ctx:        cfg.Context,
		logger:     logging.ComponentLogger(cfg.Logger, "query").With().Str("cache", name).Logger(),
		now:        cfg.Now,
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Query returns the state for key and, when a fetch has to start, the command
// that runs it.
//
// A disabled query never fetches and never reports loading; it still returns
// whatever was cached. An enabled query fetches when the key has never been
// fetched, or when the key becomes active again after being disabled and its
// last result was an error or is stale. A key with a fetch in flight never
// starts a second one.
func (c *Cache[T]) Query(key string, enabled bool, fetch FetchFunc[T]) (State[T], tea.Cmd) {
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{}
		c.entries[key] = e
	}

	if !enabled {
		e.active = false
		st := e.state()
		st.IsLoading = false
		return st, nil
	}

	reactivated := !e.active
	e.active = true

	if e.inFlight || fetch == nil {
		return e.state(), nil
	}

	switch {
	case !e.fetched:
	case reactivated && e.err != nil:
		// Retry: drop the failed result so the caller shows loading again.
		var zero T
		e.data, e.hasData, e.err, e.fetched = zero, false, nil, false
	case reactivated && c.isStale(e):
	default:
		return e.state(), nil
	}

	cmd := c.start(key, e, fetch)
	return e.state(), cmd
}

// Peek returns the cached state for key without touching activity or fetching.
func (c *Cache[T]) Peek(key string) (State[T], bool) {
	e, ok := c.entries[key]
	if !ok {
		return State[T]{}, false
	}
	return e.state(), true
}

// Handle applies a finished fetch. It reports whether msg was applied; results
// for another cache, an unknown key, or a superseded generation are ignored.
func (c *Cache[T]) Handle(msg ResultMsg[T]) bool {
	if msg.Cache != c {
		return false
	}
	e, ok := c.entries[msg.Key]
	if !ok || !e.inFlight || e.gen != msg.Gen {
		c.logger.Debug().Str("key", msg.Key).Uint64("gen", msg.Gen).Msg("discarding superseded result")
		return false
	}

	e.inFlight = false
	e.fetched = true
	e.updatedAt = c.now()
	if msg.Err != nil {
		e.err = msg.Err
		c.logger.Debug().Str("key", msg.Key).Err(msg.Err).Msg("fetch failed")
		return true
	}
	e.data, e.hasData, e.err = msg.Data, true, nil
	c.logger.Debug().Str("key", msg.Key).Uint64("gen", msg.Gen).Msg("fetch finished")
	return true
}

// Invalidate forgets key. A fetch still in flight for it will be discarded.
func (c *Cache[T]) Invalidate(key string) {
	delete(c.entries, key)
}

// Clear forgets every key.
func (c *Cache[T]) Clear() {
	c.entries = make(map[string]*entry[T])
}

// Len returns the number of known keys.
func (c *Cache[T]) Len() int {
	return len(c.entries)
}

func (c *Cache[T]) isStale(e *entry[T]) bool {
	if c.staleAfter <= 0 || !e.fetched {
		return false
	}
	return c.now().Sub(e.updatedAt) >= c.staleAfter
}

func (c *Cache[T]) start(key string, e *entry[T], fetch FetchFunc[T]) tea.Cmd {
	c.nextGen++
	gen := c.nextGen
	e.gen = gen
	e.inFlight = true

	ctx := logging.ContextWithTraceID(c.ctx, logging.NewTraceID())
	logger := c.logger
	logger.Debug().Str("key", key).Uint64("gen", gen).Str("trace_id", logging.TraceIDFromContext(ctx)).
		Msg("fetch started")

	return func() tea.Msg {
		data, err := fetch(ctx)
		return ResultMsg[T]{Cache: c, Key: key, Gen: gen, Data: data, Err: err}
	}
}

func (e *entry[T]) state() State[T] {
	return State[T]{
		Data:       e.data,
		IsLoading:  e.inFlight && !e.hasData,
		IsFetching: e.inFlight,
		IsFetched:  e.fetched,
		IsError:    e.err != nil,
		Err:        e.err,
		UpdatedAt:  e.updatedAt,
	}
}
