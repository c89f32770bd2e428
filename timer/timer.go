// Package timer is the tick source of the kernel. Every tick advances the
// global counter under the tick lock and wakes everything sleeping on the
// tick channel.
package timer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/viant/kproc/kernel"
)

// Waker wakes processes sleeping on a channel.
type Waker interface {
	Wakeup(ch kernel.Chan)
}

// Timer counts ticks.
type Timer struct {
	lock     *kernel.Spinlock
	ticks    atomic.Uint64
	interval time.Duration
	waker    Waker
}

// New creates a timer. A zero interval means ticks are only advanced by
// calling Advance.
func New(interval time.Duration) *Timer {
	return &Timer{lock: kernel.NewSpinlock("time"), interval: interval}
}

// Bind sets who gets woken on every tick.
func (t *Timer) Bind(w Waker) {
	t.waker = w
}

// Ticks returns the number of ticks since boot.
func (t *Timer) Ticks() uint64 {
	return t.ticks.Load()
}

// Chan returns the tick channel.
func (t *Timer) Chan() kernel.Chan {
	return t
}

// Lock returns the tick lock.
func (t *Timer) Lock() *kernel.Spinlock {
	return t.lock
}

// Interval returns the tick interval.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// Advance raises one timer interrupt.
func (t *Timer) Advance() {
	t.lock.Acquire(nil)
	t.ticks.Add(1)
	if t.waker != nil {
		t.waker.Wakeup(t)
	}
	t.lock.Release(nil)
}

// Run advances the timer every interval until ctx is done.
func (t *Timer) Run(ctx context.Context) error {
	if t.interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.Advance()
		}
	}
}

var _ kernel.Clock = (*Timer)(nil)
