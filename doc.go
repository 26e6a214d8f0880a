// Package taskly provides a minimal cooperative task runtime built around
// polled futures.
//
// A future makes progress only when polled and arranges its own wake-up
// through the waker it receives; the runtime supplies the machinery around
// that contract:
//
//   - executor – a bounded queue and a single worker goroutine polling
//     spawned tasks
//   - timer    – a process-wide schedule waking tasks once an instant passed
//   - block    – a synchronous driver parking the calling goroutine
//   - event    – lifecycle notifications with optional persistence
//
// Taskly is designed to be embedded in host applications.  End-users
// typically interact with the runtime via the high-level Service façade
// exposed by the root package:
//
//	srv, _ := taskly.New()
//	defer srv.Shutdown(ctx)
//	handle, _ := taskly.Spawn(ctx, srv, timer.After(time.Second))
//	_, err := taskly.BlockOn(handle)
//
// For more details see the examples directory and individual sub-packages.
package taskly
