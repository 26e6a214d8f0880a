// Package future defines the polling contract shared by every asynchronous
// value in the runtime.
//
// A future makes progress only while being polled. Each poll either returns
// a terminal result or stores the supplied waker and reports pending; the
// waker is the future's only way to request another poll, so a future that
// reports pending without arranging a wake-up stalls its task. Every poll
// hands in a fresh waker and the future must keep only the most recent one –
// an earlier waker may belong to a context that no longer exists.
package future

// Waker asks for the future it was handed to to be polled again. A waker
// must be safe for concurrent use and must tolerate firing after the future
// already completed; such wakes are spurious and at worst cost one redundant
// poll.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to the Waker interface.
type WakerFunc func()

// Wake implements Waker.
func (f WakerFunc) Wake() { f() }

// Nop returns a waker that does nothing, for polling a future once without
// arranging a wake-up.
func Nop() Waker { return nopWaker{} }

type nopWaker struct{}

func (nopWaker) Wake() {}

// Poll is the outcome of a single poll. When Ready is false the future has
// stored the waker and Value and Err carry no meaning. When Ready is true
// the future completed with Value, or failed when Err is non nil.
type Poll[T any] struct {
	Value T
	Err   error
	Ready bool
}

// Ready returns a completed poll carrying value.
func Ready[T any](value T) Poll[T] {
	return Poll[T]{Value: value, Ready: true}
}

// Fail returns a completed poll carrying err.
func Fail[T any](err error) Poll[T] {
	return Poll[T]{Err: err, Ready: true}
}

// Pending returns a poll indicating the future is not ready yet.
func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

// Future is an asynchronous computation producing a value of type T.
//
// Poll is never invoked concurrently for the same future; whoever owns the
// future serialises polls. Once a poll returned a ready result the future is
// complete; implementations should keep answering with the same result when
// polled again.
type Future[T any] interface {
	Poll(waker Waker) Poll[T]
}

// Func adapts a polling function to the Future interface.
type Func[T any] func(waker Waker) Poll[T]

// Poll implements Future.
func (f Func[T]) Poll(waker Waker) Poll[T] { return f(waker) }

// Value returns a future that completes immediately with value.
func Value[T any](value T) Future[T] {
	return Func[T](func(Waker) Poll[T] { return Ready(value) })
}

// Failed returns a future that fails immediately with err.
func Failed[T any](err error) Future[T] {
	return Func[T](func(Waker) Poll[T] { return Fail[T](err) })
}
