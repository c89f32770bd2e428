package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kproc/model/proc"
)

func TestRenderTable(t *testing.T) {
	snapshot := &proc.Snapshot{ID: "a", Ticks: 3, Stats: []proc.Stat{
		{Slot: 0, InUse: true, PID: 1, State: proc.Sleeping, Name: "initcode", Timeslice: 1, SchedTicks: 1},
		{Slot: 1, InUse: true, PID: 2, State: proc.Running, Name: "spin", Timeslice: 2, SchedTicks: 2, Switches: 1},
		{Slot: 2},
	}}
	out := new(bytes.Buffer)
	renderTable(out, snapshot)
	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Contains(t, string(lines[0]), "SWITCHES")
	assert.Contains(t, string(lines[2]), "initcode")
	assert.Contains(t, string(lines[2]), "sleep")
	assert.Contains(t, string(lines[3]), "run")
}

func TestDiffSnapshots(t *testing.T) {
	from := &proc.Snapshot{ID: "a", Ticks: 1, Stats: []proc.Stat{
		{InUse: true, PID: 1, State: proc.Runnable, Name: "initcode", Timeslice: 1},
	}}
	to := &proc.Snapshot{ID: "b", Ticks: 5, Stats: []proc.Stat{
		{InUse: true, PID: 1, State: proc.Sleeping, Name: "initcode", Timeslice: 1, SchedTicks: 4},
	}}
	diff, err := diffSnapshots(from, to)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a (tick 1)")
	assert.Contains(t, diff, "+++ b (tick 5)")
	assert.Contains(t, diff, "-1")
	assert.Contains(t, diff, "+1")

	same, err := diffSnapshots(from, from)
	require.NoError(t, err)
	assert.Empty(t, same)
}
