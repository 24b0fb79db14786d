package sync

import "context"

// Taken from the slides for "Rethinking Classical Concurrency Patterns" by Bryan C. Mills.

type state[T any] struct {
	value   T
	seq     int64
	changed chan struct{} // closed upon notify
}

// A struct that facilitates one-to-many broadcast of the latest value of T. All
// listeners are guaranteed to see the most recent value, but if you spend too long
// between calls to AwaitChange(), you can miss intermediate values.
//
// Calling AwaitChange() with an out of date sequence number returns the current value
// immediately.
type Notifier[T any] struct {
	st chan state[T]
}

func NewNotifier[T any](initial T) *Notifier[T] {
	st := make(chan state[T], 1)
	st <- state[T]{
		value:   initial,
		seq:     0,
		changed: make(chan struct{}),
	}
	return &Notifier[T]{st: st}
}

func (n *Notifier[T]) NotifyChange(v T) {
	st := <-n.st
	close(st.changed)
	n.st <- state[T]{
		value:   v,
		seq:     st.seq + 1,
		changed: make(chan struct{}),
	}
}

func (n *Notifier[T]) LastChange() (T, int64) {
	st := <-n.st
	n.st <- st

	return st.value, st.seq
}

// If you call AwaitChange() with a wrong seq, it'll immediately return the current
// value and seq. If ctx is done first, it returns the value you already have a seq for.
func (n *Notifier[T]) AwaitChange(ctx context.Context, seq int64) (T, int64) {
	st := <-n.st
	n.st <- st

	if st.seq != seq {
		return st.value, st.seq
	}

	select {
	case <-ctx.Done():
		return st.value, seq
	case <-st.changed:
		return n.LastChange()
	}
}
