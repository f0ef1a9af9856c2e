package query

// Event describes an invalidation
type Event struct {
	Prefix []string
	Keys   []Key
}

// Contains reports whether key was among the invalidated keys
func (e Event) Contains(key Key) bool {
	for _, k := range e.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Listener receives invalidation events. OnInvalidate is called from the
// goroutine that invalidated and must not block.
type Listener interface {
	OnInvalidate(ev Event)
}

// Result is what a consumer renders for its active key
type Result[T any] struct {
	Data    T
	HasData bool
	// IsPlaceholderData is set when Data belongs to a previously observed key
	// and is shown while the active key has nothing yet.
	IsPlaceholderData bool
	// IsLoading is set while the first request for the active key is in flight
	IsLoading  bool
	IsFetching bool
	IsError    bool
	Err        error
	IsStale    bool
}

// Observer tracks one active key and keeps the last data it saw so that a key
// switch does not flash to empty while the new key loads.
type Observer[T any] struct {
	cache          *Cache[T]
	key            Key
	placeholder    T
	hasPlaceholder bool
}

// Observe creates an observer bound to key
func (c *Cache[T]) Observe(key Key) *Observer[T] {
	return &Observer[T]{cache: c, key: key}
}

// Key returns the active key
func (o *Observer[T]) Key() Key {
	return o.key
}

// SetKey switches the active key and reports whether it changed. Data of the
// outgoing key, if any, becomes the placeholder for the incoming one.
func (o *Observer[T]) SetKey(key Key) bool {
	if key == o.key {
		return false
	}
	if st, ok := o.cache.Peek(o.key); ok && st.HasData {
		o.placeholder = st.Data
		o.hasPlaceholder = true
	}
	o.key = key
	return true
}

// Begin starts a fetch for the active key if one is needed
func (o *Observer[T]) Begin() (Ticket, bool) {
	return o.cache.Begin(o.key)
}

// Result derives the render state for the active key
func (o *Observer[T]) Result() Result[T] {
	st, _ := o.cache.Peek(o.key)

	r := Result[T]{
		IsFetching: st.Fetching,
		IsLoading:  st.Fetching && !st.HasData,
		IsStale:    st.Stale,
	}
	if st.HasData {
		r.Data = st.Data
		r.HasData = true
		o.placeholder = st.Data
		o.hasPlaceholder = true
	}
	if st.Err != nil {
		r.IsError = true
		r.Err = st.Err
	}
	if !r.HasData && !r.IsError && o.hasPlaceholder {
		r.Data = o.placeholder
		r.HasData = true
		r.IsPlaceholderData = true
	}
	return r
}
