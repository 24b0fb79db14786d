package sync

import (
	"context"
	"errors"
)

var errQueueClosed = errors.New("queue closed")

type queueState[T any] struct {
	items  []T
	closed bool
}

// queue is an unbounded FIFO with a context-aware get.
//
// st is a buffered channel acting as a mutex for the state. ready holds a
// value whenever there are items to get or the queue is closed, so get can
// wait on it alongside ctx.
type queue[T any] struct {
	st    chan *queueState[T]
	ready chan struct{}
}

func newQueue[T any]() *queue[T] {
	q := &queue[T]{
		st:    make(chan *queueState[T], 1),
		ready: make(chan struct{}, 1),
	}
	q.st <- &queueState[T]{}

	return q
}

func (q *queue[T]) signal(s *queueState[T]) {
	if len(s.items) == 0 && !s.closed {
		return
	}

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *queue[T]) put(v T) {
	s := <-q.st
	if !s.closed {
		s.items = append(s.items, v)
	}
	q.signal(s)
	q.st <- s
}

// close drops any pending items and wakes every waiting get.
func (q *queue[T]) close() {
	s := <-q.st
	s.closed = true
	s.items = nil
	q.signal(s)
	q.st <- s
}

func (q *queue[T]) get(ctx context.Context) (T, error) {
	var zero T

	for {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.ready:
		}

		s := <-q.st

		if s.closed {
			q.signal(s)
			q.st <- s
			return zero, errQueueClosed
		}

		if len(s.items) == 0 {
			q.st <- s
			continue
		}

		v := s.items[0]
		s.items[0] = zero
		s.items = s.items[1:]

		q.signal(s)
		q.st <- s

		return v, nil
	}
}
