package tui

import "github.com/mmcdole/notehub/internal/query"

// ChannelObserver adapts query.Listener to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- query.Event
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- query.Event) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnInvalidate sends the event to the channel (non-blocking if full).
func (o *ChannelObserver) OnInvalidate(ev query.Event) {
	select {
	case o.ch <- ev:
	default: // Non-blocking if channel full
	}
}
