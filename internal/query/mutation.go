package query

import (
	"context"
	"time"
)

// Mutation wraps a write against the server. Callbacks run on the goroutine
// that calls Run. Mutations are never retried.
type Mutation[V, R any] struct {
	Fn        func(ctx context.Context, v V) (R, error)
	OnSuccess func(v V, r R)
	OnError   func(v V, err error)
	Timeout   time.Duration
}

// Run executes the mutation and dispatches to OnSuccess or OnError
func (m Mutation[V, R]) Run(ctx context.Context, v V) (R, error) {
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	r, err := m.Fn(ctx, v)
	if err != nil {
		if m.OnError != nil {
			m.OnError(v, err)
		}
		return r, err
	}
	if m.OnSuccess != nil {
		m.OnSuccess(v, r)
	}
	return r, nil
}
