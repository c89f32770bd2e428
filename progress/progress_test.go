package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/kproc/model/proc"
)

func TestProgress_Notify(t *testing.T) {
	testCases := []struct {
		description string
		events      []proc.Lifecycle
		expect      Progress
	}{
		{
			description: "fork exit reap",
			events: []proc.Lifecycle{
				{Type: proc.EventFork, PID: 1, Ticks: 0},
				{Type: proc.EventFork, PID: 2, ParentPID: 1, Ticks: 1},
				{Type: proc.EventExit, PID: 2, Ticks: 4},
				{Type: proc.EventReap, PID: 2, Ticks: 5},
			},
			expect: Progress{Spawned: 2, Live: 1, Exited: 1, Reaped: 1, LastTick: 5},
		},
		{
			description: "kill and wakeup",
			events: []proc.Lifecycle{
				{Type: proc.EventFork, PID: 3, Ticks: 2},
				{Type: proc.EventKill, PID: 3, Ticks: 3},
				{Type: proc.EventWakeup, PID: 3, Ticks: 3},
			},
			expect: Progress{Spawned: 1, Live: 1, Killed: 1, LastTick: 3},
		},
	}
	for _, tc := range testCases {
		tracker := New(tc.description, nil)
		for i := range tc.events {
			tracker.Notify(&tc.events[i])
		}
		actual := tracker.Snapshot()
		tc.expect.Name = tc.description
		tc.expect.StartedAt = actual.StartedAt
		assert.Equal(t, tc.expect, actual, tc.description)
	}
}

func TestProgress_OnChange(t *testing.T) {
	var mux sync.Mutex
	var seen []int
	tracker := New("run", func(p Progress) {
		mux.Lock()
		seen = append(seen, p.Spawned)
		mux.Unlock()
	})
	tracker.Update(Delta{Spawned: 1}, 1)
	tracker.Update(Delta{Spawned: 1}, 2)
	tracker.OnChange(nil)
	tracker.Update(Delta{Spawned: 1}, 3)
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 3, tracker.Snapshot().Spawned)

	var nilTracker *Progress
	nilTracker.Update(Delta{Spawned: 1}, 1)
	assert.Equal(t, Progress{}, nilTracker.Snapshot())
}
