package idgen

import "sync/atomic"

// ID is a strictly increasing numeric identifier. The type parameter ties an
// identifier to the resource it names so that identifiers minted for one
// resource cannot be mixed up with identifiers for another.
type ID[T any] uint64

// Generator hands out IDs starting at 1. The zero value is ready to use and
// never hands out the same identifier twice, even under concurrent callers.
type Generator[T any] struct {
	next atomic.Uint64
}

// Next returns the next identifier in the sequence.
func (g *Generator[T]) Next() ID[T] {
	return ID[T](g.next.Add(1))
}
