package executor

import (
	"github.com/viant/taskly/event"
	"github.com/viant/taskly/stats"
)

// Option customises the executor service.
type Option func(*Service)

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithName sets the executor name used in events and spans.
func WithName(name string) Option {
	return func(s *Service) {
		s.config.Name = name
	}
}

// WithQueueCapacity bounds the task queue.
func WithQueueCapacity(capacity int) Option {
	return func(s *Service) {
		s.config.QueueCapacity = capacity
	}
}

// WithListener registers a synchronous lifecycle listener.
func WithListener(listener Listener) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithEvents publishes lifecycle events to the supplied service.
func WithEvents(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithStats shares an externally owned counter set, for example one tracked
// across several executors.
func WithStats(st *stats.Stats) Option {
	return func(s *Service) {
		if st != nil {
			s.stats = st
		}
	}
}

// WithErrorLog redirects executor error logging; log.Printf by default.
func WithErrorLog(logf func(format string, args ...interface{})) Option {
	return func(s *Service) {
		if logf != nil {
			s.errorLog = logf
		}
	}
}
