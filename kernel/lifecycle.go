package kernel

import (
	"github.com/cockroachdb/errors"
	"github.com/viant/kproc/model/proc"
)

// InitImageSize is the size of the address space given to init and spawned
// processes.
const InitImageSize = 4096

// UserInit creates the init process. Orphans are reparented to it and it
// must never exit.
func (k *Kernel) UserInit(prog Program) (int, error) {
	k.lock.Acquire(nil)
	exists := k.initproc != nil
	k.lock.Release(nil)
	if exists {
		return -1, errors.New("kernel: init process already created")
	}
	p, err := k.allocproc(nil)
	if err != nil {
		return -1, errors.Wrap(err, "userinit")
	}
	if p.pgdir, err = k.mem.Setup(InitImageSize); err != nil {
		k.unalloc(nil, p)
		return -1, errors.Wrap(errors.Mark(err, ErrNoMemory), "userinit")
	}
	p.sz = InitImageSize
	p.tf.Entry = prog
	p.name = "initcode"
	if p.cwd, err = k.files.Namei(nil, "/"); err != nil {
		k.mem.Free(p.pgdir)
		k.unalloc(nil, p)
		return -1, errors.Wrap(err, "userinit: namei /")
	}

	k.lock.Acquire(nil)
	k.initproc = p
	p.timeslice = k.cfg.DefaultQuota
	p.state = proc.Runnable
	k.enqueue(p)
	pid := p.pid
	k.lock.Release(nil)
	k.notify(proc.Lifecycle{Type: proc.EventFork, PID: pid, Quota: k.cfg.DefaultQuota})
	return pid, nil
}

// Spawn creates a process running prog with a fresh address space as a
// child of init.
func (k *Kernel) Spawn(name string, quota int, prog Program) (int, error) {
	if quota < 1 {
		return -1, errors.Wrapf(ErrInvalidQuota, "spawn %v: quota %d", name, quota)
	}
	k.lock.Acquire(nil)
	parent := k.initproc
	k.lock.Release(nil)
	if parent == nil {
		return -1, ErrNoInit
	}
	p, err := k.allocproc(nil)
	if err != nil {
		k.logger.Warning("spawn %v: %v", name, err)
		return -1, err
	}
	if p.pgdir, err = k.mem.Setup(InitImageSize); err != nil {
		k.unalloc(nil, p)
		k.logger.Warning("spawn %v: %v", name, err)
		return -1, errors.Mark(err, ErrNoMemory)
	}
	p.sz = InitImageSize
	p.tf.Entry = prog
	p.name = name
	p.cwd = k.files.Idup(parent.cwd)

	k.lock.Acquire(nil)
	p.parent = parent
	p.timeslice = quota
	p.state = proc.Runnable
	k.enqueue(p)
	pid, ppid := p.pid, parent.pid
	k.lock.Release(nil)
	k.notify(proc.Lifecycle{Type: proc.EventFork, PID: pid, ParentPID: ppid, Quota: quota})
	return pid, nil
}

// fork2 creates a copy of cur with the given quota. The child resumes in
// entry, the continuation of the fork call site, with a zero return value.
func (k *Kernel) fork2(cur *Proc, quota int, entry Program) (int, error) {
	if quota < 1 {
		return -1, errors.Wrapf(ErrInvalidQuota, "fork2: quota %d", quota)
	}
	if entry == nil {
		return -1, errors.Wrapf(ErrNoProgram, "fork2: pid %d", cur.pid)
	}
	np, err := k.allocproc(cur.cpu)
	if err != nil {
		k.logger.Warning("fork: pid %d: %v", cur.pid, err)
		return -1, err
	}
	if np.pgdir, err = k.mem.Copy(cur.pgdir, cur.sz); err != nil {
		k.unalloc(cur.cpu, np)
		k.logger.Warning("fork: pid %d: %v", cur.pid, err)
		return -1, errors.Mark(err, ErrNoMemory)
	}
	np.sz = cur.sz
	tf := *cur.tf
	tf.Ret = 0
	tf.Entry = entry
	np.tf = &tf
	for fd, f := range cur.ofile {
		if f != nil && fd < len(np.ofile) {
			np.ofile[fd] = k.files.Dup(f)
		}
	}
	np.cwd = k.files.Idup(cur.cwd)
	np.name = cur.name

	k.lock.Acquire(cur.cpu)
	np.parent = cur
	np.timeslice = quota
	np.state = proc.Runnable
	k.enqueue(np)
	pid := np.pid
	k.lock.Release(cur.cpu)
	k.notify(proc.Lifecycle{Type: proc.EventFork, PID: pid, ParentPID: cur.pid, Quota: quota})
	return pid, nil
}

// fork is fork2 with the caller's own quota.
func (k *Kernel) fork(cur *Proc, entry Program) (int, error) {
	quota, err := k.getQuota(cur.cpu, cur.pid)
	if err != nil {
		return -1, err
	}
	return k.fork2(cur, quota, entry)
}

// exit terminates p. It does not return: p stays ZOMBIE until its parent
// reaps it in wait.
func (k *Kernel) exit(p *Proc) {
	if p == k.initproc {
		panicf("init exiting")
	}
	for fd, f := range p.ofile {
		if f != nil {
			k.files.Close(f)
			p.ofile[fd] = nil
		}
	}
	k.files.BeginOp()
	k.files.Iput(p.cwd)
	k.files.EndOp()
	p.cwd = nil
	k.notify(proc.Lifecycle{Type: proc.EventExit, PID: p.pid})

	k.lock.Acquire(p.cpu)
	// Parent might be sleeping in wait.
	k.wakeup1(p.parent)
	for i := range k.procs {
		q := &k.procs[i]
		if q.parent == p {
			q.parent = k.initproc
			if q.state == proc.Zombie {
				k.wakeup1(k.initproc)
			}
		}
	}
	p.state = proc.Zombie
	k.sched(p)
	panicf("zombie exit")
}

// wait reaps a ZOMBIE child of p and returns its pid, sleeping until one
// exits.
func (k *Kernel) wait(p *Proc) (int, error) {
	k.lock.Acquire(p.cpu)
	for {
		haveKids := false
		for i := range k.procs {
			q := &k.procs[i]
			if q.parent != p {
				continue
			}
			haveKids = true
			if q.state != proc.Zombie {
				continue
			}
			pid := q.pid
			k.reap(q)
			k.lock.Release(p.cpu)
			k.notify(proc.Lifecycle{Type: proc.EventReap, PID: pid, ParentPID: p.pid})
			return pid, nil
		}
		if !haveKids {
			k.lock.Release(p.cpu)
			return -1, ErrNoChildren
		}
		if p.Killed() {
			k.lock.Release(p.cpu)
			return -1, ErrKilled
		}
		k.sleep(p, p, k.lock, 0)
	}
}

// Kill marks pid for termination. The victim exits the next time it
// returns from the kernel; a sleeping victim is made RUNNABLE so that it gets
// there.
func (k *Kernel) Kill(pid int) error {
	return k.kill(nil, pid)
}

func (k *Kernel) kill(c *CPU, pid int) error {
	if pid <= 0 {
		return errors.Wrapf(ErrInvalidPID, "kill %d", pid)
	}
	k.lock.Acquire(c)
	p := k.find(pid)
	if p == nil {
		k.lock.Release(c)
		return errors.Wrapf(ErrNotFound, "kill %d", pid)
	}
	p.killed.Store(true)
	if p.state == proc.Sleeping {
		p.state = proc.Runnable
		if k.cfg.EnqueueKilled {
			p.activeTicks = 0
			k.enqueue(p)
		}
	}
	k.lock.Release(c)
	k.logger.Info("kill: pid %d", pid)
	k.notify(proc.Lifecycle{Type: proc.EventKill, PID: pid})
	return nil
}

// growproc grows or shrinks p's memory by n bytes.
func (k *Kernel) growproc(p *Proc, n int) error {
	newSize := int64(p.sz) + int64(n)
	if newSize < 0 {
		return errors.Wrapf(ErrNoMemory, "sbrk %d below zero", n)
	}
	sz := p.sz
	if n != 0 {
		var err error
		if sz, err = k.mem.Resize(p.pgdir, p.sz, uint(newSize)); err != nil {
			return errors.Mark(err, ErrNoMemory)
		}
	}
	p.sz = sz
	k.mem.Switch(p.cpu.id, p.pgdir)
	return nil
}

// Reaper is an init program: it reaps children forever and sleeps for a tick
// whenever it has none.
func Reaper(u *User) {
	for {
		if u.Wait() < 0 {
			u.SleepTicks(1)
		}
	}
}
