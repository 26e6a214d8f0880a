// Package event publishes runtime lifecycle notifications. Events are
// delivered asynchronously on a dedicated dispatch goroutine so that
// publishers, the executor worker included, never block on a slow listener.
package event

import (
	"time"

	"github.com/viant/taskly/internal/clock"
	"github.com/viant/taskly/internal/idgen"
)

// Kind identifies the lifecycle transition an event describes.
type Kind string

const (
	KindRuntimeStarted  Kind = "runtime.started"
	KindRuntimeShutdown Kind = "runtime.shutdown"
	KindTaskSpawned     Kind = "task.spawned"
	KindTaskCompleted   Kind = "task.completed"
	KindTaskFailed      Kind = "task.failed"
	KindTaskRejected    Kind = "task.rejected"
	KindTaskAbandoned   Kind = "task.abandoned"
)

// Event records a single lifecycle transition.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Source    string    `json:"source,omitempty"`
	TaskID    string    `json:"taskID,omitempty"`
	Error     string    `json:"error,omitempty"`
	ElapsedMs int       `json:"elapsedMs,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewEvent returns an event of the given kind stamped with a fresh
// identifier and the current time.
func NewEvent(kind Kind) *Event {
	return &Event{ID: idgen.New(), Kind: kind, CreatedAt: clock.Now()}
}
