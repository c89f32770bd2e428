package progress

import (
	"sync"
	"time"

	"github.com/viant/kproc/internal/clock"
	"github.com/viant/kproc/model/proc"
)

// Delta represents an incremental counter change. The fields are signed
// and therefore can be either positive (increment) or negative (decrement).
type Delta struct {
	Spawned int
	Live    int
	Exited  int
	Reaped  int
	Killed  int
}

// Progress keeps aggregated process counters. It is safe for concurrent use.
type Progress struct {
	// Name identifies the run, informative only.
	Name      string
	StartedAt time.Time

	Spawned int
	// Live counts processes created and not yet exited.
	Live   int
	Exited int
	Reaped int
	Killed int
	// LastTick is the tick of the most recent event.
	LastTick uint64

	sync.Mutex
	onChange func(Progress)
}

// New creates a tracker. onChange, when not nil, is called after every update.
func New(name string, onChange func(Progress)) *Progress {
	return &Progress{Name: name, StartedAt: clock.Now(), onChange: onChange}
}

// Update applies the supplied delta to the tracker. If an onChange callback
// has been registered it is invoked with a copy of the updated tracker
// outside the critical section.
func (p *Progress) Update(d Delta, tick uint64) {
	if p == nil {
		return
	}
	p.Lock()
	p.Spawned += d.Spawned
	p.Live += d.Live
	p.Exited += d.Exited
	p.Reaped += d.Reaped
	p.Killed += d.Killed
	if tick > p.LastTick {
		p.LastTick = tick
	}
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Notify updates the counters for a lifecycle event.
func (p *Progress) Notify(ev *proc.Lifecycle) {
	switch ev.Type {
	case proc.EventFork:
		p.Update(Delta{Spawned: 1, Live: 1}, ev.Ticks)
	case proc.EventExit:
		p.Update(Delta{Exited: 1, Live: -1}, ev.Ticks)
	case proc.EventReap:
		p.Update(Delta{Reaped: 1}, ev.Ticks)
	case proc.EventKill:
		p.Update(Delta{Killed: 1}, ev.Ticks)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

// OnChange registers a callback that is invoked after every Update. Passing
// nil disables the callback.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

func (p *Progress) copy() Progress {
	return Progress{
		Name:      p.Name,
		StartedAt: p.StartedAt,
		Spawned:   p.Spawned,
		Live:      p.Live,
		Exited:    p.Exited,
		Reaped:    p.Reaped,
		Killed:    p.Killed,
		LastTick:  p.LastTick,
	}
}
