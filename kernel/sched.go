package kernel

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/kproc/model/proc"
)

// Scheduler runs the dispatch loop of cpu id until ctx is done.
//
// Each pass takes the table lock and works the run queue from the head:
// a head that is no longer RUNNABLE is dropped, a head with budget left is
// granted one tick, and a head that used up its timeslice plus sleep bonus is
// rotated to the tail with a fresh budget.
func (k *Kernel) Scheduler(ctx context.Context, id int) error {
	if id < 0 || id >= len(k.cpus) {
		return fmt.Errorf("cpu %d: out of range [0,%d)", id, len(k.cpus))
	}
	c := k.cpus[id]
	k.logger.Info("cpu %d: scheduler started", id)
	defer k.logger.Info("cpu %d: scheduler stopped", id)
	for {
		// Enable interrupts on this processor.
		c.sti()
		k.lock.Acquire(c)
		k.round(ctx, c)
		k.lock.Release(c)
		if ctx.Err() != nil {
			return nil
		}
		k.idle(ctx)
	}
}

// round dispatches until the queue is empty, its head runs elsewhere or ctx
// is done. The table lock must be held.
func (k *Kernel) round(ctx context.Context, c *CPU) {
	for p := k.peek(); p != nil; p = k.peek() {
		switch p.state {
		case proc.Runnable:
		case proc.Running:
			// dispatched by another cpu
			return
		default:
			k.dequeue()
			continue
		}
		if ctx.Err() != nil {
			return
		}
		if p.activeTicks < uint64(p.timeslice)+p.activeSleepTicks {
			k.dispatch(c, p)
			continue
		}
		p.switches++
		p.activeSleepTicks = 0
		k.dequeue()
		if p.state != proc.Sleeping {
			p.activeTicks = 0
			k.enqueue(p)
		}
	}
}

// dispatch grants p one tick on c and switches to it. It returns once p
// switches back to the scheduler.
func (k *Kernel) dispatch(c *CPU, p *Proc) {
	p.schedTicks++
	p.activeTicks++
	if p.activeTicks > uint64(p.timeslice) {
		p.compTicks++
	}
	c.proc = p
	p.cpu = c
	k.mem.Switch(c.id, p.pgdir)
	p.state = proc.Running
	if k.onDispatch != nil {
		k.onDispatch(c.id, p.pid)
	}
	swtch(c.scheduler, p.context)
	k.mem.SwitchKernel(c.id)
	c.proc = nil
}

func (k *Kernel) idle(ctx context.Context) {
	t := time.NewTimer(k.cfg.IdlePoll)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-k.kick:
	case <-t.C:
	}
}

// sched enters the scheduler. The caller must hold only the table lock and
// must already have changed p.state.
func (k *Kernel) sched(p *Proc) {
	c := p.cpu
	if c == nil {
		panicf("sched: pid %d has no cpu", p.pid)
	}
	if !k.lock.Holding(c) {
		panicf("sched ptable.lock")
	}
	if c.ncli != 1 {
		panicf("sched locks")
	}
	if p.state == proc.Running {
		panicf("sched running")
	}
	if c.intrOn {
		panicf("sched interruptible")
	}
	intena := c.intena
	swtch(p.context, c.scheduler)
	p.cpu.intena = intena
}

// yield gives up the CPU for one scheduling round.
func (k *Kernel) yield(p *Proc) {
	k.lock.Acquire(p.cpu)
	p.state = proc.Runnable
	k.sched(p)
	k.lock.Release(p.cpu)
}

// relinquish gives up the CPU together with the rest of p's quota, so the
// next round rotates p to the back of the queue.
func (k *Kernel) relinquish(p *Proc) {
	k.lock.Acquire(p.cpu)
	p.activeTicks = uint64(p.timeslice) + p.activeSleepTicks
	p.state = proc.Runnable
	k.sched(p)
	k.lock.Release(p.cpu)
}

// forkret is the first code a new process runs once dispatched. The
// scheduler switched to it with the table lock held.
func (k *Kernel) forkret(p *Proc, ctx *Context) {
	if _, ok := <-ctx.resume; !ok {
		return
	}
	k.lock.Release(p.cpu)
	u := &User{k: k, p: p}
	u.run()
}
