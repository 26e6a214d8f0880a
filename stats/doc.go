// Package stats keeps aggregated task counters for an executor. The
// executor updates the counters as tasks move through their lifecycle;
// consumers either poll Snapshot or register an OnChange callback and are
// never coupled to how the executor schedules work.
package stats
