package executor

import (
	"sync"
	"time"

	"github.com/viant/taskly/future"
)

// task is the executor's unit of scheduling: a type-erased future plus the
// handle receiving its result. The task is its own waker – waking pushes the
// task back onto the service queue for another poll.
type task struct {
	service *Service
	id      string
	spawned time.Time

	mu   sync.Mutex
	done bool
	// run polls the wrapped future once, resolving the handle when ready.
	run func(waker future.Waker) (ready bool, err error)
	// fail resolves the handle with err when the executor abandons the task.
	fail func(err error)
}

var _ future.Waker = (*task)(nil)

// Wake re-enqueues the task. A full queue makes Wake block until space frees
// up, so wake-ups are never dropped while the executor runs; a wake arriving
// after shutdown is logged and discarded since Shutdown fails the task
// anyway.
func (t *task) Wake() {
	s := t.service
	if s.closed.Load() {
		s.errorLog("taskly: dropped wake-up for task %v after shutdown", t.id)
		return
	}
	select {
	case s.queue <- t:
	case <-s.quit:
		s.errorLog("taskly: dropped wake-up for task %v after shutdown", t.id)
	}
}
