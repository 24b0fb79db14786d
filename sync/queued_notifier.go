package sync

import "context"

type Token struct {
	t chan struct{}
}

// A struct that facilitates one-to-many broadcast notifications. All listeners are guaranteed
// to be notified of every change, and once you've registered, you won't miss any changes.
//
// St is a buffered channel that acts as a mutex for the notifier's state. The state is a map
// from unique tokens to queues. The queues grow without bound, so a slow listener never
// blocks NotifyChange, at the cost of memory.
//
// The channel is wrapped in a Token struct to hide its implementation details. No values are
// ever sent on the channel, it's just used as a unique value.
type QueuedNotifier[T any] struct {
	st chan map[chan struct{}]*queue[T]
}

func NewQueuedNotifier[T any]() *QueuedNotifier[T] {
	state := make(chan map[chan struct{}]*queue[T], 1)
	state <- make(map[chan struct{}]*queue[T])

	return &QueuedNotifier[T]{
		st: state,
	}
}

func (n *QueuedNotifier[T]) Register() Token {
	q := newQueue[T]()
	t := make(chan struct{})

	st := <-n.st
	st[t] = q
	n.st <- st

	return Token{t}
}

// Unregister stops queueing values for t. A pending AwaitChange for t returns
// false.
func (n *QueuedNotifier[T]) Unregister(t Token) {
	st := <-n.st
	q := st[t.t]
	delete(st, t.t)
	n.st <- st

	if q != nil {
		q.close()
	}
}

func (n *QueuedNotifier[T]) NotifyChange(v T) {
	st := <-n.st
	for _, q := range st {
		q.put(v)
	}
	n.st <- st
}

// AwaitChange returns the next value queued for t. It returns false if t isn't
// registered, is unregistered while waiting, or ctx is done before a value
// arrives.
func (n *QueuedNotifier[T]) AwaitChange(ctx context.Context, t Token) (T, bool) {
	st := <-n.st
	q := st[t.t]
	n.st <- st

	if q == nil {
		var zero T
		return zero, false
	}

	v, err := q.get(ctx)
	if err != nil {
		return v, false
	}

	return v, true
}
