package query

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Fetcher loads the value for a key
type Fetcher[T any] func(ctx context.Context, key Key) (T, error)

// Options tunes fetch and freshness behaviour
type Options struct {
	// Retry is the number of automatic retries after a failed fetch
	Retry int
	// RetryDelay is the pause before each retry
	RetryDelay time.Duration
	// StaleTime is how long a successful result counts as fresh. Zero means
	// every new observation of a key revalidates it.
	StaleTime time.Duration
	// Timeout bounds a single fetch attempt (0 = no limit)
	Timeout time.Duration

	Logger *slog.Logger
	Clock  func() time.Time
}

// State is a point-in-time copy of a cache entry
type State[T any] struct {
	Data      T
	HasData   bool
	Err       error
	Fetching  bool
	Stale     bool
	UpdatedAt time.Time
	Failures  int
}

// Ticket authorizes one fetch for a key. Only the newest ticket per key may
// store its result.
type Ticket struct {
	Key Key
	Seq uint64
}

// Outcome reports how a fetch ended
type Outcome struct {
	Key    Key
	Seq    uint64
	Err    error
	Stored bool // false when the result was superseded and discarded
}

type entry[T any] struct {
	data       T
	hasData    bool
	err        error
	fetching   bool
	stale      bool
	updatedAt  time.Time
	observedAt time.Time
	seq        uint64
	failures   int
}

// Cache is a process-wide keyed store of fetched results. It is safe for use
// from Bubble Tea commands and from Update concurrently.
type Cache[T any] struct {
	mu        sync.Mutex
	entries   map[Key]*entry[T]
	fetch     Fetcher[T]
	opts      Options
	logger    *slog.Logger
	now       func() time.Time
	seq       uint64
	listeners []Listener
}

// New creates a cache backed by fetch
func New[T any](fetch Fetcher[T], opts Options) *Cache[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	if opts.Retry < 0 {
		opts.Retry = 0
	}
	return &Cache[T]{
		entries: make(map[Key]*entry[T]),
		fetch:   fetch,
		opts:    opts,
		logger:  logger,
		now:     now,
	}
}

// Subscribe registers l for invalidation events
func (c *Cache[T]) Subscribe(l Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// Peek returns a copy of the entry for key
func (c *Cache[T]) Peek(key Key) (State[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return State[T]{}, false
	}
	return State[T]{
		Data:      e.data,
		HasData:   e.hasData,
		Err:       e.err,
		Fetching:  e.fetching,
		Stale:     c.isStale(e),
		UpdatedAt: e.updatedAt,
		Failures:  e.failures,
	}, true
}

// Len returns the number of entries held
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Begin marks key as fetching and issues a ticket, unless a request is already
// in flight or the entry holds fresh data.
func (c *Cache[T]) Begin(key Key) (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{}
		c.entries[key] = e
	}
	e.observedAt = c.now()

	if e.fetching {
		return Ticket{}, false
	}
	if e.hasData && e.err == nil && !c.isStale(e) {
		return Ticket{}, false
	}

	c.seq++
	e.seq = c.seq
	e.fetching = true
	e.stale = false
	if !e.hasData {
		// Never succeeded: go back to pending rather than keep the old error
		e.err = nil
	}

	c.logger.Debug("query fetch started", "key", key.String(), "seq", e.seq)
	return Ticket{Key: key, Seq: e.seq}, true
}

// Run performs the fetch for t, retrying as configured, and stores the result
// if t is still the current ticket for its key.
func (c *Cache[T]) Run(ctx context.Context, t Ticket) Outcome {
	data, err := c.fetchWithRetry(ctx, t.Key)
	stored := c.resolve(t, data, err)
	return Outcome{Key: t.Key, Seq: t.Seq, Err: err, Stored: stored}
}

func (c *Cache[T]) fetchWithRetry(ctx context.Context, key Key) (T, error) {
	var (
		data T
		err  error
	)
	attempts := c.opts.Retry + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		data, err = c.fetchOnce(ctx, key)
		if err == nil {
			return data, nil
		}
		if attempt == attempts {
			break
		}

		c.logger.Warn("query fetch failed, retrying", "key", key.String(), "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return data, ctx.Err()
		case <-time.After(c.opts.RetryDelay):
		}
	}
	return data, err
}

func (c *Cache[T]) fetchOnce(ctx context.Context, key Key) (T, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	return c.fetch(ctx, key)
}

func (c *Cache[T]) resolve(t Ticket, data T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[t.Key]
	if !ok || e.seq != t.Seq {
		c.logger.Debug("query result discarded", "key", t.Key.String(), "seq", t.Seq)
		return false
	}

	e.fetching = false
	if err != nil {
		e.err = err
		e.failures++
		c.logger.Error("query fetch failed", "key", t.Key.String(), "error", err)
		return true
	}

	e.data = data
	e.hasData = true
	e.err = nil
	e.stale = false
	e.failures = 0
	e.updatedAt = c.now()
	return true
}

// Invalidate marks every entry whose key starts with prefix as stale and
// notifies listeners. In-flight requests for those keys are abandoned so that
// their results, which predate the invalidation, are never stored.
func (c *Cache[T]) Invalidate(prefix ...string) []Key {
	c.mu.Lock()
	var keys []Key
	for k, e := range c.entries {
		if !k.HasPrefix(prefix...) {
			continue
		}
		e.stale = true
		if e.fetching {
			e.fetching = false
			e.seq = 0
		}
		keys = append(keys, k)
	}
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	c.logger.Debug("query cache invalidated", "prefix", prefix, "keys", len(keys))

	ev := Event{Prefix: prefix, Keys: keys}
	for _, l := range listeners {
		l.OnInvalidate(ev)
	}
	return keys
}

// Prune drops entries that are idle and unobserved for longer than maxAge.
// Keys listed in keep are never dropped.
func (c *Cache[T]) Prune(maxAge time.Duration, keep ...Key) int {
	if maxAge <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
outer:
	for k, e := range c.entries {
		for _, kk := range keep {
			if k == kk {
				continue outer
			}
		}
		if e.fetching {
			continue
		}
		last := e.observedAt
		if e.updatedAt.After(last) {
			last = e.updatedAt
		}
		if now.Sub(last) > maxAge {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *Cache[T]) isStale(e *entry[T]) bool {
	if e.stale || !e.hasData {
		return true
	}
	if c.opts.StaleTime <= 0 {
		return true
	}
	return c.now().Sub(e.updatedAt) >= c.opts.StaleTime
}
