// Package park implements the one-token parking primitive the runtime uses
// to put a goroutine to sleep until another goroutine wakes it. It lives
// under `internal` because callers should go through block.On or the timer
// rather than parking goroutines directly.
package park

import "time"

// Parker blocks the goroutine that owns it until the paired Unparker
// supplies a token. The pair shares a single token slot, so any number of
// unparks delivered while the owner is awake collapse into a single
// immediate return from the next Park.
type Parker struct {
	token chan struct{}
}

// Unparker wakes the goroutine parked on the paired Parker. It is safe to
// share across goroutines and to invoke repeatedly; redundant tokens are
// discarded.
type Unparker struct {
	token chan struct{}
}

// Pair returns a connected Parker/Unparker pair.
func Pair() (*Parker, Unparker) {
	token := make(chan struct{}, 1)
	return &Parker{token: token}, Unparker{token: token}
}

// Park blocks until a token becomes available and consumes it.
func (p *Parker) Park() {
	<-p.token
}

// ParkUntil blocks until a token becomes available or deadline passes. It
// returns true when a token was consumed and false on timeout. A deadline in
// the past still consumes an already pending token.
func (p *Parker) ParkUntil(deadline time.Time) bool {
	wait := time.Until(deadline)
	if wait <= 0 {
		select {
		case <-p.token:
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-p.token:
		return true
	case <-timer.C:
		return false
	}
}

// Unpark deposits the wake-up token unless one is already pending.
func (u Unparker) Unpark() {
	select {
	case u.token <- struct{}{}:
	default:
	}
}
