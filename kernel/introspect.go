package kernel

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/viant/kproc/internal/clock"
	"github.com/viant/kproc/internal/idgen"
	"github.com/viant/kproc/model/proc"
)

// GetQuota returns the timeslice of pid.
func (k *Kernel) GetQuota(pid int) (int, error) {
	return k.getQuota(nil, pid)
}

func (k *Kernel) getQuota(c *CPU, pid int) (int, error) {
	if pid <= 0 {
		return -1, errors.Wrapf(ErrInvalidPID, "getquota %d", pid)
	}
	k.lock.Acquire(c)
	defer k.lock.Release(c)
	p := k.find(pid)
	if p == nil {
		return -1, errors.Wrapf(ErrNotFound, "getquota %d", pid)
	}
	return p.timeslice, nil
}

// SetQuota sets the timeslice of pid. It takes effect from the next
// dispatch decision.
func (k *Kernel) SetQuota(pid, quota int) error {
	return k.setQuota(nil, pid, quota)
}

func (k *Kernel) setQuota(c *CPU, pid, quota int) error {
	if quota < 1 {
		return errors.Wrapf(ErrInvalidQuota, "setquota %d: %d", pid, quota)
	}
	if pid <= 0 {
		return errors.Wrapf(ErrInvalidPID, "setquota %d", pid)
	}
	k.lock.Acquire(c)
	defer k.lock.Release(c)
	p := k.find(pid)
	if p == nil {
		return errors.Wrapf(ErrNotFound, "setquota %d", pid)
	}
	p.timeslice = quota
	return nil
}

// Snapshot returns the accounting counters of every slot, indexed by slot.
func (k *Kernel) Snapshot() *proc.Snapshot {
	return k.snapshot(nil)
}

func (k *Kernel) snapshot(c *CPU) *proc.Snapshot {
	ret := &proc.Snapshot{
		ID:      idgen.New(),
		TakenAt: clock.Now(),
		Stats:   make([]proc.Stat, len(k.procs)),
	}
	k.lock.Acquire(c)
	for i := range k.procs {
		ret.Stats[i] = k.procs[i].stat()
	}
	ret.Ticks = k.clock.Ticks()
	k.lock.Release(c)
	return ret
}

// Queue returns the pids on the run queue, head first.
func (k *Kernel) Queue() []int {
	k.lock.Acquire(nil)
	defer k.lock.Release(nil)
	return k.queuePIDs()
}

// Dump prints a process listing to w. It does not wait for the table lock,
// so it works on a wedged system; the listing may then be inconsistent.
func (k *Kernel) Dump(w io.Writer) {
	if k.lock.tryAcquire() {
		defer k.lock.Release(nil)
	}
	for i := range k.procs {
		p := &k.procs[i]
		if p.state == proc.Unused {
			continue
		}
		fmt.Fprintf(w, "%d %s %s\n", p.pid, p.state, p.name)
	}
}
