package kernel

import (
	"github.com/cockroachdb/errors"
	"github.com/viant/kproc/model/proc"
)

// allocproc claims an UNUSED slot as EMBRYO and gives it a kernel stack, a
// trap frame and a context that starts in forkret.
func (k *Kernel) allocproc(c *CPU) (*Proc, error) {
	k.lock.Acquire(c)
	var p *Proc
	for i := range k.procs {
		if k.procs[i].state == proc.Unused {
			p = &k.procs[i]
			break
		}
	}
	if p == nil {
		k.lock.Release(c)
		return nil, ErrTableFull
	}
	p.state = proc.Embryo
	p.pid = k.nextPID
	k.nextPID++
	p.reset()
	k.lock.Release(c)

	stack, err := k.stacks.Alloc()
	if err != nil {
		k.lock.Acquire(c)
		p.state = proc.Unused
		p.pid = 0
		k.lock.Release(c)
		return nil, errors.Mark(err, ErrNoStack)
	}
	p.kstack = stack
	p.tf = &TrapFrame{}
	p.ofile = make([]File, k.cfg.NOFile)
	p.context = newContext()
	go k.forkret(p, p.context)
	return p, nil
}

// unalloc undoes allocproc for a process that never became RUNNABLE.
func (k *Kernel) unalloc(c *CPU, p *Proc) {
	k.stacks.Free(p.kstack)
	p.kstack = nil
	p.context.free()
	p.context = nil
	p.tf = nil
	p.ofile = nil
	k.lock.Acquire(c)
	p.state = proc.Unused
	p.pid = 0
	k.lock.Release(c)
}

// reap frees a ZOMBIE and returns its slot to the table. The table lock
// must be held.
func (k *Kernel) reap(p *Proc) {
	k.stacks.Free(p.kstack)
	p.kstack = nil
	if p.context != nil {
		p.context.free()
		p.context = nil
	}
	k.mem.Free(p.pgdir)
	p.pgdir = nil
	p.sz = 0
	p.pid = 0
	p.parent = nil
	p.name = ""
	p.tf = nil
	p.ofile = nil
	p.cpu = nil
	p.killed.Store(false)
	p.state = proc.Unused
}

// find returns the live process with pid. The table lock must be held.
func (k *Kernel) find(pid int) *Proc {
	for i := range k.procs {
		p := &k.procs[i]
		if p.state != proc.Unused && p.pid == pid {
			return p
		}
	}
	return nil
}
