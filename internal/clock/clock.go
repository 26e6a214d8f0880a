package clock

import (
	"math"
	"time"

	"fortio.org/safecast"
)

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// ElapsedMillis returns the wall-clock milliseconds elapsed since start,
// saturating instead of overflowing on absurd intervals.
func ElapsedMillis(start time.Time) int {
	millis, err := safecast.Conv[int](Now().Sub(start).Milliseconds())
	if err != nil {
		return math.MaxInt
	}
	return millis
}
