// Package policy provides optional per-call admission rules that decide how
// spawning behaves when the executor queue is saturated – fail fast or wait
// for space. The policy travels on the context, so the call site rather than
// the executor owns the trade-off.
package policy
