package event

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Listener consumes events on the dispatch goroutine. A slow listener delays
// later events, not the publishers.
type Listener func(e *Event)

// Config holds event service settings.
type Config struct {
	// QueueBuffer bounds the number of undelivered events; publishing into a
	// full buffer drops the event.
	QueueBuffer int `json:"queueBuffer,omitempty" yaml:"queueBuffer,omitempty"`
}

// DefaultConfig returns the default event service settings.
func DefaultConfig() Config {
	return Config{QueueBuffer: 256}
}

// Validate checks config consistency.
func (c *Config) Validate() error {
	if c.QueueBuffer <= 0 {
		return fmt.Errorf("queueBuffer must be positive, got %v", c.QueueBuffer)
	}
	return nil
}

// Service fans events out to registered listeners. Publish never blocks:
// events that do not fit the buffer are counted as dropped and discarded, so
// an unobserved or backlogged service cannot stall the runtime.
type Service struct {
	mu        sync.RWMutex
	listeners []Listener

	queue     chan *Event
	quit      chan struct{}
	done      chan struct{}
	dropped   atomic.Uint64
	closeOnce sync.Once
}

// New returns a started event service.
func New(config Config) *Service {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	s := &Service{
		queue: make(chan *Event, config.QueueBuffer),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// AddListener registers a listener for all subsequently delivered events.
func (s *Service) AddListener(listener Listener) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Publish enqueues an event for delivery and reports whether it was
// accepted. Events published after Close, or while the buffer is full, are
// dropped and counted.
func (s *Service) Publish(e *Event) bool {
	if e == nil {
		return false
	}
	select {
	case <-s.quit:
		s.dropped.Add(1)
		return false
	default:
	}
	select {
	case s.queue <- e:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// Dropped returns the number of events discarded because the buffer was full
// or the service was closed.
func (s *Service) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Service) deliver(e *Event) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	for _, listener := range listeners {
		listener(e)
	}
}

func (s *Service) dispatch() {
	defer close(s.done)
	for {
		select {
		case e := <-s.queue:
			s.deliver(e)
		case <-s.quit:
			// flush events accepted before the close
			for {
				select {
				case e := <-s.queue:
					s.deliver(e)
				default:
					return
				}
			}
		}
	}
}

// Close stops the dispatch goroutine after delivering the events accepted so
// far. Close is idempotent and waits for the last delivery to finish.
func (s *Service) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.done
}
