// Package block bridges asynchronous futures into synchronous code: On
// drives a future to completion on the calling goroutine, parking the
// goroutine between polls instead of spinning.
package block

import (
	"github.com/viant/taskly/future"
	"github.com/viant/taskly/internal/park"
)

// On polls f until it completes, parking the calling goroutine whenever the
// future is not ready and resuming when the future's waker fires. A spurious
// wake merely costs an extra poll. On failure the zero value of T is
// returned alongside the error.
//
// On owns f for the duration of the call; no other goroutine may poll it
// concurrently.
func On[T any](f future.Future[T]) (T, error) {
	parker, unparker := park.Pair()
	waker := future.WakerFunc(unparker.Unpark)
	for {
		if p := f.Poll(waker); p.Ready {
			return p.Value, p.Err
		}
		parker.Park()
	}
}
