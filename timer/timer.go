package timer

import (
	"time"

	"github.com/viant/taskly/future"
	"github.com/viant/taskly/internal/clock"
)

// Timer is a future that completes once a fixed instant passed. Create
// timers with At or After; the zero value has no deadline and is not usable.
//
// A timer registers with the shared schedule on its first poll and therefore
// must not be copied afterwards – keep timers behind pointers. Polls are
// serialised by the timer's owner, as with any future.
type Timer struct {
	noCopy future.NoCopy
	when   time.Time
	reg    *registration
}

// At returns a timer that completes at the given instant. Instants in the
// past complete on the schedule goroutine's next pass, which is almost
// immediately.
func At(when time.Time) *Timer {
	return &Timer{when: when}
}

// After returns a timer that completes d from now.
func After(d time.Duration) *Timer {
	return At(clock.Now().Add(d))
}

// When returns the instant the timer completes at.
func (t *Timer) When() time.Time { return t.when }

// Poll implements future.Future. The first poll registers the timer with the
// shared schedule; later polls replace the stored waker so that the wake-up
// always reaches whoever polled most recently.
func (t *Timer) Poll(waker future.Waker) future.Poll[struct{}] {
	source := sharedSource()
	if t.reg == nil {
		t.reg = source.register(t.when, waker)
	} else if !t.reg.fired.Load() {
		source.update(t.reg.id, t.when, waker)
	}
	if t.reg.fired.Load() {
		return future.Ready(struct{}{})
	}
	return future.Pending[struct{}]()
}

// Stop withdraws the timer's schedule entry. A timer that is dropped before
// completion must be stopped, otherwise its entry lives until the deadline
// passes. Stopping a timer that already fired, or was never polled, is a
// no-op. After Stop the timer must not be polled again.
//
// A timer stopped concurrently with its own deadline may still fire its
// waker once; wakers tolerate such spurious wakes.
func (t *Timer) Stop() {
	if t.reg == nil {
		return
	}
	sharedSource().deregister(t.reg.id, t.when)
	t.reg = nil
}
