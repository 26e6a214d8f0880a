// Package store provides the small set of concurrency-safe containers the
// runtime is built on.
package store

import (
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// Ordered is a concurrency-safe map whose entries stay sorted by key
// according to the comparator supplied at construction. All operations take
// the internal lock, so composite read-modify steps such as PopFirstIf are
// atomic with respect to concurrent writers.
type Ordered[K any, V any] struct {
	mu   sync.RWMutex
	tree *redblacktree.Tree
}

// NewOrdered returns an empty ordered map. The comparator must define a
// total order: negative when a sorts before b, zero when equal, positive
// otherwise.
func NewOrdered[K any, V any](compare func(a, b K) int) *Ordered[K, V] {
	return &Ordered[K, V]{
		tree: redblacktree.NewWith(func(a, b interface{}) int {
			return compare(a.(K), b.(K))
		}),
	}
}

// Put inserts or replaces the entry for key.
func (o *Ordered[K, V]) Put(key K, value V) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tree.Put(key, value)
}

// Get returns the value stored under key.
func (o *Ordered[K, V]) Get(key K) (V, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	value, found := o.tree.Get(key)
	if !found {
		var zero V
		return zero, false
	}
	return value.(V), true
}

// FirstKey returns the smallest key without removing its entry.
func (o *Ordered[K, V]) FirstKey() (K, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	node := o.tree.Left()
	if node == nil {
		var zero K
		return zero, false
	}
	return node.Key.(K), true
}

// PopFirst removes and returns the entry with the smallest key.
func (o *Ordered[K, V]) PopFirst() (K, V, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.popLeft()
}

// PopFirstIf removes and returns the entry with the smallest key when that
// key satisfies cond. The check and the removal happen under one lock, so an
// entry another goroutine sneaks in is either left alone or popped
// consistently, never popped in violation of cond.
func (o *Ordered[K, V]) PopFirstIf(cond func(K) bool) (K, V, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	node := o.tree.Left()
	if node == nil || !cond(node.Key.(K)) {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	return o.popLeft()
}

func (o *Ordered[K, V]) popLeft() (K, V, bool) {
	node := o.tree.Left()
	if node == nil {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	key := node.Key.(K)
	value := node.Value.(V)
	o.tree.Remove(node.Key)
	return key, value, true
}

// Update transforms the value stored under key in place, leaving the key and
// therefore the entry's position untouched. It reports whether the key was
// present; transform is not invoked otherwise.
func (o *Ordered[K, V]) Update(key K, transform func(V) V) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	value, found := o.tree.Get(key)
	if !found {
		return false
	}
	o.tree.Put(key, transform(value.(V)))
	return true
}

// Delete removes the entry for key and reports whether it was present.
func (o *Ordered[K, V]) Delete(key K) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, found := o.tree.Get(key); !found {
		return false
	}
	o.tree.Remove(key)
	return true
}

// Len returns the number of entries.
func (o *Ordered[K, V]) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.tree.Size()
}
