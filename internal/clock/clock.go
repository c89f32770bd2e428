// Package clock is the wall clock used for timestamps on snapshots, events
// and queued messages. Scheduling never reads it; kernel time is ticks.
package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Freeze pins Now to at and returns a function restoring the previous clock.
func Freeze(at time.Time) func() {
	prev := NowFunc
	NowFunc = func() time.Time { return at }
	return func() { NowFunc = prev }
}
