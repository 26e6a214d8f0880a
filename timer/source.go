// Package timer delivers wake-ups at wall-clock instants. A Timer is a
// future that completes once its instant passed; Timeout wraps any future
// with a deadline.
//
// One process-wide goroutine owns the schedule. It starts lazily on the
// first registration and never exits: it sleeps until the earliest deadline,
// fires every due entry in deadline order and goes back to sleep, parking
// indefinitely while the schedule is empty. Entries at the same instant fire
// in registration order.
package timer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/taskly/future"
	"github.com/viant/taskly/internal/clock"
	"github.com/viant/taskly/internal/idgen"
	"github.com/viant/taskly/internal/park"
	"github.com/viant/taskly/store"
)

// deadlineKey orders schedule entries by instant first and by registration
// sequence second, so that two timers due at the very same instant fire in
// the order they were registered.
type deadlineKey struct {
	when time.Time
	id   idgen.ID[Timer]
}

func compareKeys(a, b deadlineKey) int {
	switch {
	case a.when.Before(b.when):
		return -1
	case a.when.After(b.when):
		return 1
	case a.id < b.id:
		return -1
	case a.id > b.id:
		return 1
	default:
		return 0
	}
}

// scheduledWaker is the schedule's side of a timer registration. The fired
// flag is shared with the timer so that a poll racing the firing pass still
// observes completion.
type scheduledWaker struct {
	waker future.Waker
	fired *atomic.Bool
}

func (s *scheduledWaker) fire() {
	s.fired.Store(true)
	s.waker.Wake()
}

// registration is the timer's side: the identity it needs to update or
// withdraw its schedule entry, plus the shared completion flag.
type registration struct {
	id    idgen.ID[Timer]
	fired *atomic.Bool
}

// eventSource is the shared schedule. Every mutation unparks the goroutine
// so it can re-evaluate the earliest deadline.
type eventSource struct {
	ids       idgen.Generator[Timer]
	scheduled *store.Ordered[deadlineKey, *scheduledWaker]
	unparker  park.Unparker
}

var (
	sourceOnce sync.Once
	source     *eventSource
)

// sharedSource returns the process-wide schedule, starting its goroutine on
// first use.
func sharedSource() *eventSource {
	sourceOnce.Do(func() {
		parker, unparker := park.Pair()
		source = &eventSource{
			scheduled: store.NewOrdered[deadlineKey, *scheduledWaker](compareKeys),
			unparker:  unparker,
		}
		go source.run(parker)
	})
	return source
}

// register adds a new schedule entry and returns the registration the timer
// keeps for subsequent polls.
func (s *eventSource) register(when time.Time, waker future.Waker) *registration {
	id := s.ids.Next()
	fired := &atomic.Bool{}
	s.scheduled.Put(deadlineKey{when: when, id: id}, &scheduledWaker{waker: waker, fired: fired})
	s.unparker.Unpark()
	return &registration{id: id, fired: fired}
}

// update replaces the waker stored for an existing entry, keeping its
// position in the schedule. Updating an entry that already fired is a no-op;
// the shared flag already records completion.
func (s *eventSource) update(id idgen.ID[Timer], when time.Time, waker future.Waker) {
	s.scheduled.Update(deadlineKey{when: when, id: id}, func(current *scheduledWaker) *scheduledWaker {
		return &scheduledWaker{waker: waker, fired: current.fired}
	})
	s.unparker.Unpark()
}

// deregister withdraws an entry before it fired. Withdrawing an entry that
// fired or was never present is a no-op.
func (s *eventSource) deregister(id idgen.ID[Timer], when time.Time) {
	s.scheduled.Delete(deadlineKey{when: when, id: id})
	s.unparker.Unpark()
}

// run is the schedule goroutine. Parking rather than polling keeps an idle
// schedule free: the goroutine only runs when a deadline passed or the
// schedule changed.
func (s *eventSource) run(parker *park.Parker) {
	for {
		now := clock.Now()
		next, ok := s.scheduled.FirstKey()
		if !ok {
			parker.Park()
			continue
		}
		if next.when.After(now) {
			parker.ParkUntil(next.when)
			continue
		}
		due := func(key deadlineKey) bool { return !key.when.After(now) }
		for {
			_, scheduled, ok := s.scheduled.PopFirstIf(due)
			if !ok {
				break
			}
			scheduled.fire()
		}
	}
}
