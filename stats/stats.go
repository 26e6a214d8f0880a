package stats

import "sync"

// Delta represents an incremental counter change emitted by the executor.
// The fields are signed and therefore can be either positive (increment) or
// negative (decrement).
type Delta struct {
	Spawned   int
	Completed int
	Failed    int
	Rejected  int
	Abandoned int
}

// Snapshot is a point-in-time copy of the counters, safe to retain and
// inspect without further locking.
type Snapshot struct {
	// Spawned counts tasks the executor admitted.
	Spawned int `json:"spawned"`
	// Completed counts tasks whose future finished with a value.
	Completed int `json:"completed"`
	// Failed counts tasks whose future finished with an error.
	Failed int `json:"failed"`
	// Rejected counts spawn attempts refused on a full queue.
	Rejected int `json:"rejected"`
	// Abandoned counts admitted tasks failed by a shutdown.
	Abandoned int `json:"abandoned"`
}

// InFlight returns the number of admitted tasks that have not reached a
// terminal state yet.
func (s Snapshot) InFlight() int {
	return s.Spawned - s.Completed - s.Failed - s.Abandoned
}

// Stats accumulates counters. The zero value is ready to use and safe for
// concurrent callers.
type Stats struct {
	mu       sync.Mutex
	snapshot Snapshot
	onChange func(Snapshot)
}

// Update applies the supplied delta. If an onChange callback is registered
// it is invoked with a copy of the updated counters outside the critical
// section, so the callback can perform slow operations (JSON encoding, I/O)
// without blocking the executor.
func (s *Stats) Update(delta Delta) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.snapshot.Spawned += delta.Spawned
	s.snapshot.Completed += delta.Completed
	s.snapshot.Failed += delta.Failed
	s.snapshot.Rejected += delta.Rejected
	s.snapshot.Abandoned += delta.Abandoned
	snapshot := s.snapshot
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables the callback. Only one callback can be active; subsequent calls
// overwrite the previous value.
func (s *Stats) OnChange(onChange func(Snapshot)) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.onChange = onChange
	s.mu.Unlock()
}
