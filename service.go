package taskly

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/taskly/block"
	"github.com/viant/taskly/event"
	"github.com/viant/taskly/executor"
	"github.com/viant/taskly/future"
	"github.com/viant/taskly/internal/idgen"
	"github.com/viant/taskly/stats"
	"github.com/viant/taskly/tracing"
)

// Service is the runtime façade: an executor wired to event delivery,
// optional journaling and tracing.
type Service struct {
	id              string
	config          *Config
	executor        *executor.Service
	executorOptions []executor.Option
	events          *event.Service
	ownsEvents      bool
	journal         *event.Journal
	listener        executor.Listener

	shutdownOnce sync.Once
	shutdownErr  error
}

// New builds and starts a runtime service.
func New(options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig(), ownsEvents: true}
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) init() error {
	s.id = "taskly-" + idgen.New()
	if s.events == nil {
		s.events = event.New(s.config.Events)
		s.ownsEvents = true
	}
	if s.config.Journal.BaseURL != "" {
		s.journal = event.NewJournal(s.config.Journal.BaseURL, s.config.Journal.Codec)
		s.events.AddListener(s.journal.Listener())
	}

	options := []executor.Option{
		executor.WithConfig(s.config.Executor),
		executor.WithEvents(s.events),
	}
	if s.listener != nil {
		options = append(options, executor.WithListener(s.listener))
	}
	options = append(options, s.executorOptions...)
	exec, err := executor.New(options...)
	if err != nil {
		return fmt.Errorf("failed to start executor: %w", err)
	}
	s.executor = exec

	started := event.NewEvent(event.KindRuntimeStarted)
	started.Source = s.id
	s.events.Publish(started)
	return nil
}

// ID returns the unique runtime instance identifier.
func (s *Service) ID() string { return s.id }

// Executor exposes the underlying executor service.
func (s *Service) Executor() *executor.Service { return s.executor }

// Events exposes the runtime event service.
func (s *Service) Events() *event.Service { return s.events }

// Journal returns the configured event journal, nil when journaling is off.
func (s *Service) Journal() *event.Journal { return s.journal }

// Stats returns a snapshot of the executor task counters.
func (s *Service) Stats() stats.Snapshot { return s.executor.Stats() }

// Shutdown stops the executor, failing every outstanding handle, publishes
// the shutdown event and closes the event service when the runtime owns it.
// Shutdown is idempotent and returns the error of the first invocation.
func (s *Service) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		ctx, span := tracing.StartSpan(ctx, "taskly.shutdown", "INTERNAL")
		s.shutdownErr = s.executor.Shutdown(ctx)
		stopped := event.NewEvent(event.KindRuntimeShutdown)
		stopped.Source = s.id
		s.events.Publish(stopped)
		if s.ownsEvents {
			s.events.Close()
		}
		tracing.EndSpan(span, s.shutdownErr)
	})
	return s.shutdownErr
}

// Spawn hands f to the runtime's executor, recording a span around the
// submission. The admission policy carried by ctx applies when the queue is
// full.
func Spawn[T any](ctx context.Context, s *Service, f future.Future[T]) (*executor.Handle[T], error) {
	if s == nil {
		return nil, fmt.Errorf("runtime service was nil")
	}
	ctx, span := tracing.StartSpan(ctx, "taskly.spawn", "INTERNAL")
	span.WithAttributes(map[string]string{"executor": s.executor.Name()})
	handle, err := executor.SpawnContext(ctx, s.executor, f)
	tracing.EndSpan(span, err)
	return handle, err
}

// BlockOn drives f to completion on the calling goroutine.
func BlockOn[T any](f future.Future[T]) (T, error) {
	return block.On(f)
}
