package kernel

import (
	"sync"
	"sync/atomic"
)

// Spinlock is a mutual-exclusion lock that also disables interrupts on the
// acquiring CPU for as long as it is held. A nil CPU denotes a caller running
// outside any logical CPU (the host, a timer goroutine); such callers skip
// interrupt accounting and the re-entrance check.
//
// Unlike sync.Mutex users elsewhere, the kernel releases a Spinlock from a
// different goroutine than the one that acquired it: the table lock travels
// with the CPU across context switches.
type Spinlock struct {
	name   string
	mu     sync.Mutex
	locked atomic.Bool
	cpu    atomic.Pointer[CPU]
}

// NewSpinlock creates a named lock
func NewSpinlock(name string) *Spinlock {
	return &Spinlock{name: name}
}

// Name returns the lock name
func (l *Spinlock) Name() string {
	return l.name
}

// Acquire takes the lock on behalf of c.
func (l *Spinlock) Acquire(c *CPU) {
	c.pushcli()
	if c != nil && l.Holding(c) {
		panicf("acquire %s: already held", l.name)
	}
	l.mu.Lock()
	l.cpu.Store(c)
	l.locked.Store(true)
}

// Release drops the lock held by c.
func (l *Spinlock) Release(c *CPU) {
	if !l.Holding(c) {
		panicf("release %s: not held", l.name)
	}
	l.locked.Store(false)
	l.cpu.Store(nil)
	l.mu.Unlock()
	c.popcli()
}

// Holding reports whether c holds the lock.
func (l *Spinlock) Holding(c *CPU) bool {
	return l.locked.Load() && l.cpu.Load() == c
}

// tryAcquire takes the lock for a CPU-less caller without blocking.
func (l *Spinlock) tryAcquire() bool {
	if !l.mu.TryLock() {
		return false
	}
	l.cpu.Store(nil)
	l.locked.Store(true)
	return true
}
