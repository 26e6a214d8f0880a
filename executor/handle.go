package executor

import (
	"sync"

	"github.com/viant/taskly/future"
)

// Handle is the caller's side of a spawned task. It is itself a future
// yielding whatever the task's future produced, so it can be driven with
// block.On or polled from inside another task.
//
// The result is delivered exactly once; polling a handle after completion
// keeps returning the same result. Resolutions arriving after the first,
// for example from a racing shutdown, are discarded.
type Handle[T any] struct {
	cell *cell[T]
}

// cell is the synchronised rendezvous between the worker resolving a task
// and the consumer polling its handle.
type cell[T any] struct {
	mu    sync.Mutex
	done  bool
	value T
	err   error
	waker future.Waker
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{cell: &cell[T]{}}
}

// resolve stores the result and fires the waker from the most recent poll.
func (c *cell[T]) resolve(value T, err error) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.value, c.err, c.done = value, err, true
	waker := c.waker
	c.waker = nil
	c.mu.Unlock()

	if waker != nil {
		waker.Wake()
	}
}

// Poll implements future.Future.
func (h *Handle[T]) Poll(waker future.Waker) future.Poll[T] {
	c := h.cell
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		if c.err != nil {
			return future.Fail[T](c.err)
		}
		return future.Ready(c.value)
	}
	c.waker = waker
	return future.Pending[T]()
}

var _ future.Future[any] = (*Handle[any])(nil)
