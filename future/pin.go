package future

// NoCopy discourages copying of the future that embeds it. Stateful futures
// hand interior pointers to other goroutines – a timer's schedule entry, a
// handle's stored waker – so a future copied after its first poll would
// leave two values sharing one registration, with only one of them observing
// completion. Embed NoCopy in such futures and keep them behind pointers.
//
// NoCopy has no runtime effect; it exists so that `go vet -copylocks`
// reports the copy.
type NoCopy struct{}

// Lock is a no-op used by the copylocks checker from `go vet`.
func (*NoCopy) Lock() {}

// Unlock is a no-op used by the copylocks checker from `go vet`.
func (*NoCopy) Unlock() {}
