package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// countingFetcher returns "<search>#<page>" and records every call
type countingFetcher struct {
	mu    sync.Mutex
	calls map[Key]int
	fail  map[Key]int // remaining failures per key
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{calls: make(map[Key]int), fail: make(map[Key]int)}
}

func (f *countingFetcher) Fetch(_ context.Context, key Key) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
	if f.fail[key] > 0 {
		f.fail[key]--
		return "", errors.New("request failed with status code 500")
	}
	return key.Search + "#" + key.Parts()[2], nil
}

func (f *countingFetcher) Calls(key Key) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func newTestCache(f *countingFetcher, clock *fakeClock, staleTime time.Duration) *Cache[string] {
	return New[string](f.Fetch, Options{
		Retry:     1,
		StaleTime: staleTime,
		Clock:     clock.Now,
	})
}

func fetchKey(t *testing.T, c *Cache[string], key Key) Outcome {
	t.Helper()
	ticket, ok := c.Begin(key)
	require.True(t, ok, "expected a fetch to start for %s", key)
	return c.Run(context.Background(), ticket)
}

func TestBeginStartsOnlyOneFetchPerKey(t *testing.T) {
	c := newTestCache(newCountingFetcher(), newFakeClock(), time.Minute)
	key := NotesKey("", 1)

	_, ok := c.Begin(key)
	require.True(t, ok)

	_, ok = c.Begin(key)
	assert.False(t, ok, "second Begin must not start another request while one is in flight")

	st, found := c.Peek(key)
	require.True(t, found)
	assert.True(t, st.Fetching)
}

func TestFreshEntryIsNotRefetched(t *testing.T) {
	f := newCountingFetcher()
	clock := newFakeClock()
	c := newTestCache(f, clock, time.Minute)
	key := NotesKey("", 1)

	out := fetchKey(t, c, key)
	require.NoError(t, out.Err)
	assert.True(t, out.Stored)

	_, ok := c.Begin(key)
	assert.False(t, ok, "fresh data must not refetch")

	clock.Advance(time.Minute)
	_, ok = c.Begin(key)
	assert.True(t, ok, "expired data must refetch")
}

func TestZeroStaleTimeAlwaysRevalidates(t *testing.T) {
	c := newTestCache(newCountingFetcher(), newFakeClock(), 0)
	key := NotesKey("", 1)

	fetchKey(t, c, key)
	_, ok := c.Begin(key)
	assert.True(t, ok)
}

func TestFailedFetchIsRetriedOnce(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCache(f, newFakeClock(), time.Minute)
	key := NotesKey("bad", 1)
	f.fail[key] = 5

	out := fetchKey(t, c, key)
	require.Error(t, out.Err)
	assert.Equal(t, 2, f.Calls(key), "one attempt plus one retry")

	st, _ := c.Peek(key)
	assert.False(t, st.Fetching)
	assert.False(t, st.HasData)
	assert.EqualError(t, st.Err, "request failed with status code 500")
	assert.Equal(t, 1, st.Failures)
}

func TestRetrySucceeds(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCache(f, newFakeClock(), time.Minute)
	key := NotesKey("flaky", 1)
	f.fail[key] = 1

	out := fetchKey(t, c, key)
	require.NoError(t, out.Err)
	assert.Equal(t, 2, f.Calls(key))

	st, _ := c.Peek(key)
	assert.Equal(t, "flaky#1", st.Data)
	assert.NoError(t, st.Err)
}

func TestRetryStopsWhenContextDone(t *testing.T) {
	f := newCountingFetcher()
	c := New[string](f.Fetch, Options{Retry: 1, RetryDelay: time.Hour})
	key := NotesKey("bad", 1)
	f.fail[key] = 5

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ticket, ok := c.Begin(key)
	require.True(t, ok)
	out := c.Run(ctx, ticket)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Equal(t, 1, f.Calls(key))
}

func TestErroredKeyRefetchesOnNextBegin(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCache(f, newFakeClock(), time.Minute)
	key := NotesKey("bad", 1)
	f.fail[key] = 2

	fetchKey(t, c, key)

	ticket, ok := c.Begin(key)
	require.True(t, ok)
	st, _ := c.Peek(key)
	assert.NoError(t, st.Err, "a never-successful key goes back to pending")

	out := c.Run(context.Background(), ticket)
	require.NoError(t, out.Err)
}

func TestResultsLandUnderTheirOwnKey(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCache(f, newFakeClock(), time.Minute)
	k1 := NotesKey("a", 1)
	k2 := NotesKey("ab", 1)

	t1, ok := c.Begin(k1)
	require.True(t, ok)
	t2, ok := c.Begin(k2)
	require.True(t, ok)

	// K2 resolves first, then the older K1
	c.Run(context.Background(), t2)
	c.Run(context.Background(), t1)

	st1, _ := c.Peek(k1)
	st2, _ := c.Peek(k2)
	assert.Equal(t, "a#1", st1.Data)
	assert.Equal(t, "ab#1", st2.Data)
}

func TestInvalidateMarksPrefixStale(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCache(f, newFakeClock(), time.Hour)

	p1 := NotesKey("", 1)
	p2 := NotesKey("", 2)
	other := Key{Namespace: "tags", Page: 1}
	for _, k := range []Key{p1, p2, other} {
		fetchKey(t, c, k)
	}

	keys := c.Invalidate(NotesNamespace)
	assert.ElementsMatch(t, []Key{p1, p2}, keys)

	for _, k := range []Key{p1, p2} {
		st, _ := c.Peek(k)
		assert.True(t, st.Stale, "%s should be stale", k)
		assert.True(t, st.HasData, "invalidation keeps data for display")

		_, ok := c.Begin(k)
		assert.True(t, ok, "%s should refetch when observed", k)
	}

	st, _ := c.Peek(other)
	assert.False(t, st.Stale)
	_, ok := c.Begin(other)
	assert.False(t, ok)
}

func TestInvalidateAbandonsInFlightRequest(t *testing.T) {
	f := newCountingFetcher()
	c := newTestCache(f, newFakeClock(), time.Hour)
	key := NotesKey("", 1)

	old, ok := c.Begin(key)
	require.True(t, ok)

	c.Invalidate(NotesNamespace)

	fresh, ok := c.Begin(key)
	require.True(t, ok, "invalidation must allow a new request")
	assert.NotEqual(t, old.Seq, fresh.Seq)

	out := c.Run(context.Background(), old)
	assert.False(t, out.Stored, "pre-invalidation result must be discarded")

	st, _ := c.Peek(key)
	assert.True(t, st.Fetching)
	assert.False(t, st.HasData)

	out = c.Run(context.Background(), fresh)
	assert.True(t, out.Stored)
}

type recordingListener struct {
	events []Event
}

func (l *recordingListener) OnInvalidate(ev Event) {
	l.events = append(l.events, ev)
}

func TestInvalidateNotifiesListeners(t *testing.T) {
	c := newTestCache(newCountingFetcher(), newFakeClock(), time.Hour)
	key := NotesKey("", 1)
	fetchKey(t, c, key)

	l := &recordingListener{}
	c.Subscribe(l)
	c.Invalidate(NotesNamespace)

	require.Len(t, l.events, 1)
	assert.Equal(t, []string{NotesNamespace}, l.events[0].Prefix)
	assert.True(t, l.events[0].Contains(key))
	assert.False(t, l.events[0].Contains(NotesKey("", 2)))
}

func TestPruneDropsIdleEntries(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(newCountingFetcher(), clock, time.Hour)

	active := NotesKey("", 1)
	idle := NotesKey("", 2)
	fetchKey(t, c, active)
	fetchKey(t, c, idle)

	clock.Advance(10 * time.Minute)
	removed := c.Prune(5*time.Minute, active)

	assert.Equal(t, 1, removed)
	_, ok := c.Peek(idle)
	assert.False(t, ok)
	_, ok = c.Peek(active)
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}
