package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_String(t *testing.T) {
	testCases := []struct {
		state    State
		expected string
	}{
		{Unused, "unused"},
		{Embryo, "embryo"},
		{Sleeping, "sleep"},
		{Runnable, "runble"},
		{Running, "run"},
		{Zombie, "zombie"},
		{State(42), "???"},
		{State(-1), "???"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.state.String())
		assert.Equal(t, tc.expected != "???", tc.state.IsValid())
	}
}

func TestSnapshot_Lookup(t *testing.T) {
	snap := &Snapshot{Stats: []Stat{
		{Slot: 0, InUse: true, PID: 1, Timeslice: 1},
		{Slot: 1, InUse: false, PID: 0},
		{Slot: 2, InUse: true, PID: 7, Timeslice: 5},
	}}
	st, ok := snap.Lookup(7)
	assert.True(t, ok)
	assert.Equal(t, 2, st.Slot)
	assert.Equal(t, 5, st.Timeslice)

	_, ok = snap.Lookup(0)
	assert.False(t, ok)
	assert.Len(t, snap.InUse(), 2)

	var empty *Snapshot
	assert.Nil(t, empty.InUse())
}

func TestState_UnmarshalText(t *testing.T) {
	var s State
	assert.NoError(t, s.UnmarshalText([]byte("runble")))
	assert.Equal(t, Runnable, s)
	assert.Error(t, s.UnmarshalText([]byte("???")))
}
