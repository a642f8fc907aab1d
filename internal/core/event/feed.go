package event

import (
	"sync"

	"github.com/google/uuid"
)

// Feed is a synchronous, ordered subscriber list. Publish calls every handler
// inline, in subscription order, before returning. Handlers subscribed or
// cancelled during a Publish take effect on the next Publish.
type Feed[T any] struct {
	mu       sync.Mutex // only protects handler registration
	handlers []*Subscription[T]
}

// Subscription is the token returned by Subscribe.
type Subscription[T any] struct {
	id   string
	fn   func(T)
	feed *Feed[T]
}

func (s *Subscription[T]) ID() string { return s.id }

// Cancel removes the handler. Cancelling twice is a no-op.
func (s *Subscription[T]) Cancel() {
	if s == nil || s.feed == nil {
		return
	}
	f := s.feed
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, h := range f.handlers {
		if h == s {
			next := make([]*Subscription[T], 0, len(f.handlers)-1)
			next = append(next, f.handlers[:i]...)
			next = append(next, f.handlers[i+1:]...)
			f.handlers = next
			break
		}
	}
	s.feed = nil
}

// Subscribe registers fn and returns its subscription token.
func (f *Feed[T]) Subscribe(fn func(T)) *Subscription[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &Subscription[T]{id: uuid.NewString(), fn: fn, feed: f}
	f.handlers = append(f.handlers, s)
	return s
}

// Publish delivers ev to all handlers registered at the time of the call.
func (f *Feed[T]) Publish(ev T) {
	f.mu.Lock()
	handlers := f.handlers
	f.mu.Unlock()

	for _, h := range handlers {
		h.fn(ev)
	}
}

func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}
