package executor

import (
	"context"
	"fmt"

	"github.com/viant/taskly/future"
	"github.com/viant/taskly/internal/clock"
	"github.com/viant/taskly/internal/idgen"
)

// Spawn hands f to the executor and returns the handle delivering its
// result. When the queue is full Spawn fails fast with ErrQueueFull; use
// SpawnContext with a wait policy to block instead.
func Spawn[T any](s *Service, f future.Future[T]) (*Handle[T], error) {
	return SpawnContext(context.Background(), s, f)
}

// SpawnContext spawns f honouring the admission policy carried by ctx: with
// policy mode "wait" a spawn into a full queue blocks until space frees up,
// the executor shuts down or ctx ends.
func SpawnContext[T any](ctx context.Context, s *Service, f future.Future[T]) (*Handle[T], error) {
	if s == nil {
		return nil, fmt.Errorf("executor service was nil")
	}
	if f == nil {
		return nil, fmt.Errorf("future was nil")
	}
	handle := newHandle[T]()
	t := &task{service: s, id: idgen.New(), spawned: clock.Now()}
	t.run = func(waker future.Waker) (bool, error) {
		p := f.Poll(waker)
		if p.Ready {
			handle.cell.resolve(p.Value, p.Err)
		}
		return p.Ready, p.Err
	}
	t.fail = func(err error) {
		var zero T
		handle.cell.resolve(zero, err)
	}
	if err := s.admit(ctx, t); err != nil {
		return nil, err
	}
	return handle, nil
}
