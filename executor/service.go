// Package executor runs futures to completion on a single worker goroutine.
//
// Spawned tasks enter a bounded queue and re-enter it every time their waker
// fires; the worker drains the queue one task at a time and polls each task
// once per pass. A single worker means task polls never overlap, so futures
// spawned here need no internal locking of their own. Spawn returns a
// Handle, itself a future, that delivers the task's result.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/viant/taskly/event"
	"github.com/viant/taskly/internal/clock"
	"github.com/viant/taskly/policy"
	"github.com/viant/taskly/stats"
)

var (
	// ErrQueueFull is returned by spawn when the task queue is at capacity
	// and the admission policy rejects waiting.
	ErrQueueFull = errors.New("task queue is full")

	// ErrShutdown is returned by spawn after Shutdown and delivered through
	// the handles of tasks the executor abandoned.
	ErrShutdown = errors.New("executor is shut down")
)

// Config holds executor settings.
type Config struct {
	// Name identifies the executor in events and spans.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// QueueCapacity bounds the number of queued task wake-ups.
	QueueCapacity int `json:"queueCapacity,omitempty" yaml:"queueCapacity,omitempty"`
}

// DefaultConfig returns the default executor settings.
func DefaultConfig() Config {
	return Config{Name: "executor", QueueCapacity: 10000}
}

// Validate checks config consistency.
func (c *Config) Validate() error {
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queueCapacity must be positive, got %v", c.QueueCapacity)
	}
	return nil
}

// Listener observes every lifecycle event the executor emits, synchronously
// on the goroutine that produced it. Register an event.Service instead when
// delivery must not slow the worker down.
type Listener func(e *event.Event)

// Service owns the task queue, the worker goroutine and the set of live
// tasks.
type Service struct {
	config   Config
	queue    chan *task
	quit     chan struct{}
	done     chan struct{}
	closed   atomic.Bool
	stats    *stats.Stats
	events   *event.Service
	listener Listener
	errorLog func(format string, args ...interface{})

	mu   sync.Mutex
	live map[*task]struct{}

	shutdownOnce sync.Once
}

// New returns a started executor.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:   DefaultConfig(),
		stats:    &stats.Stats{},
		errorLog: log.Printf,
		live:     map[*task]struct{}{},
	}
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	s.queue = make(chan *task, s.config.QueueCapacity)
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	go s.worker()
	return s, nil
}

// Name returns the executor name.
func (s *Service) Name() string { return s.config.Name }

// Stats returns a snapshot of the task counters.
func (s *Service) Stats() stats.Snapshot { return s.stats.Snapshot() }

// Pending returns the number of live tasks: admitted but neither completed
// nor abandoned yet.
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func (s *Service) register(t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[t] = struct{}{}
}

func (s *Service) unregister(t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, t)
}

// admit registers t and queues its first poll, honouring the admission
// policy carried by ctx when the queue is full. The task mutex is held
// across the enqueue so the worker's first poll waits for the admission
// bookkeeping; a task's spawned event therefore always precedes its
// terminal one.
func (s *Service) admit(ctx context.Context, t *task) error {
	if s.closed.Load() {
		return ErrShutdown
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s.register(t)
	select {
	case s.queue <- t:
	default:
		if !policy.FromContext(ctx).Waits() {
			s.unregister(t)
			s.stats.Update(stats.Delta{Rejected: 1})
			s.observeTask(event.KindTaskRejected, t, ErrQueueFull)
			return ErrQueueFull
		}
		select {
		case s.queue <- t:
		case <-s.quit:
			s.unregister(t)
			return ErrShutdown
		case <-ctx.Done():
			s.unregister(t)
			return ctx.Err()
		}
	}
	s.stats.Update(stats.Delta{Spawned: 1})
	s.observeTask(event.KindTaskSpawned, t, nil)
	return nil
}

// worker is the single goroutine that polls tasks.
func (s *Service) worker() {
	defer close(s.done)
	for {
		select {
		case t := <-s.queue:
			s.runTask(t)
		case <-s.quit:
			return
		}
	}
}

// runTask polls t once. The task mutex serialises the poll against wakes of
// the same task, and the done flag turns polls of a completed task into
// no-ops, so duplicate queue entries are harmless.
func (s *Service) runTask(t *task) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	ready, err := t.run(t)
	if !ready {
		return
	}
	t.done = true
	s.unregister(t)
	if err != nil {
		s.stats.Update(stats.Delta{Failed: 1})
		s.observeTask(event.KindTaskFailed, t, err)
		return
	}
	s.stats.Update(stats.Delta{Completed: 1})
	s.observeTask(event.KindTaskCompleted, t, nil)
}

// observeTask builds the lifecycle event for t and hands it to the listener
// and the event service.
func (s *Service) observeTask(kind event.Kind, t *task, err error) {
	if s.listener == nil && s.events == nil {
		return
	}
	e := event.NewEvent(kind)
	e.Source = s.config.Name
	e.TaskID = t.id
	e.ElapsedMs = clock.ElapsedMillis(t.spawned)
	if err != nil {
		e.Error = err.Error()
	}
	if s.listener != nil {
		s.listener(e)
	}
	if s.events != nil {
		s.events.Publish(e)
	}
}

// Shutdown stops the worker and fails every live task with ErrShutdown so
// that no handle blocks forever. It returns once the worker exited or ctx
// ended. Shutdown is idempotent; spawn calls made afterwards return
// ErrShutdown.
func (s *Service) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.closed.Store(true)
		close(s.quit)
	})
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	abandoned := make([]*task, 0, len(s.live))
	for t := range s.live {
		abandoned = append(abandoned, t)
	}
	s.live = map[*task]struct{}{}
	s.mu.Unlock()

	for _, t := range abandoned {
		t.fail(ErrShutdown)
		s.stats.Update(stats.Delta{Abandoned: 1})
		s.observeTask(event.KindTaskAbandoned, t, ErrShutdown)
	}
	return nil
}
