package timer

import (
	"errors"
	"time"

	"github.com/viant/taskly/future"
	"github.com/viant/taskly/internal/clock"
)

// ErrDeadlineExceeded is the failure delivered by Timeout when the deadline
// passes before the wrapped future completes.
var ErrDeadlineExceeded = errors.New("deadline exceeded")

// Timeout requires f to complete before when. The returned future yields f's
// result when f wins and fails with ErrDeadlineExceeded when the deadline
// fires first; in that case f is abandoned without being polled again. When
// f wins the deadline's schedule entry is withdrawn.
//
// f is polled before the deadline on every pass, so a future that is ready
// exactly at the deadline still wins.
func Timeout[T any](f future.Future[T], when time.Time) future.Future[T] {
	deadline := At(when)
	return future.Func[T](func(waker future.Waker) future.Poll[T] {
		if p := f.Poll(waker); p.Ready {
			deadline.Stop()
			return p
		}
		if p := deadline.Poll(waker); p.Ready {
			return future.Fail[T](ErrDeadlineExceeded)
		}
		return future.Pending[T]()
	})
}

// TimeoutAfter requires f to complete within d from now.
func TimeoutAfter[T any](f future.Future[T], d time.Duration) future.Future[T] {
	return Timeout(f, clock.Now().Add(d))
}
