package future

// Then returns a future that completes with fn applied to f's result. When f
// fails the error propagates and fn is not invoked.
func Then[T, U any](f Future[T], fn func(T) U) Future[U] {
	return Func[U](func(waker Waker) Poll[U] {
		p := f.Poll(waker)
		if !p.Ready {
			return Pending[U]()
		}
		if p.Err != nil {
			return Fail[U](p.Err)
		}
		return Ready(fn(p.Value))
	})
}

// First returns a future that completes with the result of whichever of the
// supplied futures completes first, polling them in argument order on every
// pass. Once a winner is found the losers are never polled again; the caller
// remains responsible for releasing any external registrations they hold,
// such as stopping a losing timer.
func First[T any](futures ...Future[T]) Future[T] {
	return Func[T](func(waker Waker) Poll[T] {
		for _, f := range futures {
			if p := f.Poll(waker); p.Ready {
				return p
			}
		}
		return Pending[T]()
	})
}
