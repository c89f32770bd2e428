package kernel

import (
	"github.com/cockroachdb/errors"
	"github.com/viant/kproc/model/proc"
)

// User is the system call interface of one process. Its methods must only
// be called from the process's own Program. Calls that fail return -1.
//
// Every call checks the killed flag on the way in and out, the way trap
// return does: a killed process exits there and the call never returns.
type User struct {
	k *Kernel
	p *Proc
}

func (u *User) run() {
	if entry := u.p.tf.Entry; entry != nil && !u.p.Killed() {
		entry(u)
	}
	u.k.exit(u.p)
}

func (u *User) trapret() {
	if u.p.Killed() {
		u.k.exit(u.p)
	}
}

func (u *User) syscall(fn func() (int, error)) int {
	u.trapret()
	ret, err := fn()
	u.trapret()
	if err != nil {
		ret = -1
	}
	u.p.tf.Ret = ret
	return ret
}

// PID returns the process id.
func (u *User) PID() int {
	return u.p.pid
}

// Name returns the process name.
func (u *User) Name() string {
	return u.p.name
}

// Killed reports whether the process has been killed.
func (u *User) Killed() bool {
	return u.p.Killed()
}

// TrapFrame returns a copy of the saved user state.
func (u *User) TrapFrame() TrapFrame {
	return *u.p.tf
}

// CPU returns the cpu the process is running on.
func (u *User) CPU() int {
	return u.p.cpu.id
}

// Tick stands for a timer interrupt taken while running user code: the
// process gives up the CPU for the rest of this tick.
func (u *User) Tick() {
	u.trapret()
	u.k.yield(u.p)
	u.trapret()
}

// Yield voluntarily gives up the CPU and the rest of the quota.
func (u *User) Yield() int {
	return u.syscall(func() (int, error) {
		u.k.relinquish(u.p)
		return 0, nil
	})
}

// Fork creates a child with the caller's quota. The child continues in
// child, which stands for the code after the fork call; a nil child fails
// the call. It returns the child pid.
func (u *User) Fork(child Program) int {
	return u.syscall(func() (int, error) {
		return u.k.fork(u.p, child)
	})
}

// Fork2 is Fork with an explicit quota.
func (u *User) Fork2(quota int, child Program) int {
	return u.syscall(func() (int, error) {
		return u.k.fork2(u.p, quota, child)
	})
}

// Exit terminates the process. It does not return.
func (u *User) Exit() {
	u.k.exit(u.p)
}

// Wait reaps an exited child and returns its pid.
func (u *User) Wait() int {
	return u.syscall(func() (int, error) {
		return u.k.wait(u.p)
	})
}

// Kill marks pid for termination.
func (u *User) Kill(pid int) int {
	return u.syscall(func() (int, error) {
		return 0, u.k.kill(u.p.cpu, pid)
	})
}

// GetQuota returns the timeslice of pid.
func (u *User) GetQuota(pid int) int {
	return u.syscall(func() (int, error) {
		return u.k.getQuota(u.p.cpu, pid)
	})
}

// SetQuota sets the timeslice of pid.
func (u *User) SetQuota(pid, quota int) int {
	return u.syscall(func() (int, error) {
		return 0, u.k.setQuota(u.p.cpu, pid, quota)
	})
}

// Snapshot returns the accounting counters of every slot.
func (u *User) Snapshot() *proc.Snapshot {
	u.trapret()
	ret := u.k.snapshot(u.p.cpu)
	u.trapret()
	return ret
}

// SleepTicks sleeps for n clock ticks.
func (u *User) SleepTicks(n int) int {
	return u.syscall(func() (int, error) {
		return 0, u.k.sleepTicks(u.p, n)
	})
}

// Uptime returns the number of clock ticks since boot.
func (u *User) Uptime() int {
	return u.syscall(func() (int, error) {
		return int(u.k.clock.Ticks()), nil
	})
}

// Sbrk grows memory by n bytes and returns the previous size.
func (u *User) Sbrk(n int) int {
	return u.syscall(func() (int, error) {
		old := int(u.p.sz)
		if err := u.k.growproc(u.p, n); err != nil {
			return -1, err
		}
		return old, nil
	})
}

// Open opens path relative to the working directory and returns a file
// descriptor.
func (u *User) Open(path string, create bool) int {
	return u.syscall(func() (int, error) {
		fd := -1
		for i, f := range u.p.ofile {
			if f == nil {
				fd = i
				break
			}
		}
		if fd < 0 {
			return -1, errors.Wrapf(ErrBadFD, "open %v: too many open files", path)
		}
		f, err := u.k.files.Open(u.p.cwd, path, create)
		if err != nil {
			return -1, err
		}
		u.p.ofile[fd] = f
		return fd, nil
	})
}

// Close closes fd.
func (u *User) Close(fd int) int {
	return u.syscall(func() (int, error) {
		if fd < 0 || fd >= len(u.p.ofile) || u.p.ofile[fd] == nil {
			return -1, errors.Wrapf(ErrBadFD, "close %d", fd)
		}
		u.k.files.Close(u.p.ofile[fd])
		u.p.ofile[fd] = nil
		return 0, nil
	})
}

// Chdir changes the working directory.
func (u *User) Chdir(path string) int {
	return u.syscall(func() (int, error) {
		files := u.k.files
		files.BeginOp()
		defer files.EndOp()
		ip, err := files.Namei(u.p.cwd, path)
		if err != nil {
			return -1, err
		}
		files.Iput(u.p.cwd)
		u.p.cwd = ip
		return 0, nil
	})
}

// Acquire takes lk on the process's cpu.
func (u *User) Acquire(lk *Spinlock) {
	lk.Acquire(u.p.cpu)
}

// Release drops lk.
func (u *User) Release(lk *Spinlock) {
	lk.Release(u.p.cpu)
}

// SleepOn sleeps on ch. The caller must hold lk, which is released while
// sleeping and held again on return.
func (u *User) SleepOn(ch Chan, lk *Spinlock) {
	u.k.sleep(u.p, ch, lk, 0)
}

// Wakeup wakes every process sleeping on ch.
func (u *User) Wakeup(ch Chan) {
	u.k.wakeup(u.p.cpu, ch)
}

// sleepTicks sleeps on the tick channel until n ticks have passed.
func (k *Kernel) sleepTicks(p *Proc, n int) error {
	if n < 0 {
		n = 0
	}
	lk := k.clock.Lock()
	lk.Acquire(p.cpu)
	deadline := k.clock.Ticks() + uint64(n)
	for k.clock.Ticks() < deadline {
		if p.Killed() {
			lk.Release(p.cpu)
			return ErrKilled
		}
		k.sleep(p, k.clock.Chan(), lk, deadline)
	}
	lk.Release(p.cpu)
	return nil
}
