package kernel

import (
	"sync/atomic"

	"github.com/viant/kproc/model/proc"
)

// Program is the code a process runs. It executes on the process's own
// goroutine and enters the kernel only through u.
type Program func(u *User)

// TrapFrame is the user state saved on kernel entry: where execution resumes
// and the value the pending call returns.
type TrapFrame struct {
	Entry Program
	Ret   int
}

// Proc is a process control block.
type Proc struct {
	slot   int
	pid    int
	state  proc.State
	parent *Proc
	wchan  Chan
	killed atomic.Bool
	name   string

	// run queue link, a slot index; -1 ends the queue
	next   int
	queued bool

	timeslice        int
	activeTicks      uint64
	activeSleepTicks uint64
	compTicks        uint64
	schedTicks       uint64
	sleepTicks       uint64
	switches         uint64
	sleepDeadline    uint64
	sleepStart       uint64

	context *Context
	kstack  KStack
	tf      *TrapFrame
	pgdir   AddressSpace
	sz      uint
	cwd     Inode
	ofile   []File
	cpu     *CPU
}

// PID returns the process id.
func (p *Proc) PID() int {
	return p.pid
}

// Name returns the display name.
func (p *Proc) Name() string {
	return p.name
}

// Killed reports whether the process has been marked for termination.
func (p *Proc) Killed() bool {
	return p.killed.Load()
}

// reset zeroes the accounting counters.
func (p *Proc) reset() {
	p.next = -1
	p.queued = false
	p.timeslice = 0
	p.activeTicks = 0
	p.activeSleepTicks = 0
	p.compTicks = 0
	p.schedTicks = 0
	p.sleepTicks = 0
	p.switches = 0
	p.sleepDeadline = 0
	p.sleepStart = 0
	p.killed.Store(false)
}

func (p *Proc) stat() proc.Stat {
	st := proc.Stat{Slot: p.slot, State: p.state}
	if p.state == proc.Unused {
		return st
	}
	st.InUse = true
	st.PID = p.pid
	st.Name = p.name
	st.Timeslice = p.timeslice
	st.CompTicks = p.compTicks
	st.SchedTicks = p.schedTicks
	st.SleepTicks = p.sleepTicks
	st.Switches = p.switches
	return st
}
