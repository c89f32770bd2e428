package proc

import "time"

// Stat is the accounting view of one process table slot.
type Stat struct {
	Slot      int    `json:"slot" yaml:"slot"`
	InUse     bool   `json:"inUse" yaml:"inUse"`
	PID       int    `json:"pid" yaml:"pid"`
	State     State  `json:"state" yaml:"state"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Timeslice int    `json:"timeslice" yaml:"timeslice"`
	CompTicks uint64 `json:"compTicks" yaml:"compTicks"`
	// SchedTicks is the total number of ticks the process was dispatched for.
	SchedTicks uint64 `json:"schedTicks" yaml:"schedTicks"`
	SleepTicks uint64 `json:"sleepTicks" yaml:"sleepTicks"`
	Switches   uint64 `json:"switches" yaml:"switches"`
}

// Snapshot is a consistent view of every slot of the process table, indexed
// by slot position.
type Snapshot struct {
	ID      string    `json:"id" yaml:"id"`
	Ticks   uint64    `json:"ticks" yaml:"ticks"`
	TakenAt time.Time `json:"takenAt" yaml:"takenAt"`
	Stats   []Stat    `json:"stats" yaml:"stats"`
}

// InUse returns the stats of non-UNUSED slots only.
func (s *Snapshot) InUse() []Stat {
	if s == nil {
		return nil
	}
	var ret []Stat
	for _, st := range s.Stats {
		if st.InUse {
			ret = append(ret, st)
		}
	}
	return ret
}

// Lookup returns the stat for pid.
func (s *Snapshot) Lookup(pid int) (Stat, bool) {
	if s == nil {
		return Stat{}, false
	}
	for _, st := range s.Stats {
		if st.InUse && st.PID == pid {
			return st, true
		}
	}
	return Stat{}, false
}
