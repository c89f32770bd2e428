package kernel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/viant/kproc/model/proc"
)

// manualClock advances only when told to.
type manualClock struct {
	lock  *Spinlock
	ticks atomic.Uint64
}

func newManualClock() *manualClock {
	return &manualClock{lock: NewSpinlock("time")}
}

func (c *manualClock) Ticks() uint64   { return c.ticks.Load() }
func (c *manualClock) Chan() Chan      { return c }
func (c *manualClock) Lock() *Spinlock { return c.lock }

func (c *manualClock) advance(k *Kernel, n int) {
	for i := 0; i < n; i++ {
		c.lock.Acquire(nil)
		c.ticks.Add(1)
		k.Wakeup(c)
		c.lock.Release(nil)
	}
}

type recorder struct {
	mu     sync.Mutex
	events []proc.Lifecycle
}

func (r *recorder) Notify(ev *proc.Lifecycle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
}

func (r *recorder) types(pid int) []proc.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ret []proc.EventType
	for _, ev := range r.events {
		if ev.PID == pid {
			ret = append(ret, ev.Type)
		}
	}
	return ret
}

func newTestKernel(t *testing.T, cfg *Config, opts ...Option) (*Kernel, *manualClock) {
	if cfg == nil {
		cfg = DefaultConfig()
		cfg.NProc = 8
	}
	clk := newManualClock()
	k, err := New(cfg, append([]Option{WithClock(clk)}, opts...)...)
	require.NoError(t, err)
	return k, clk
}

// runner runs the scheduler in the background until stopped.
type runner struct {
	cancel context.CancelFunc
	done   chan error
}

func start(k *Kernel) *runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &runner{cancel: cancel, done: make(chan error, 1)}
	go func() { r.done <- k.Run(ctx) }()
	return r
}

func (r *runner) stop(t *testing.T) {
	r.cancel()
	select {
	case err := <-r.done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func stateOf(k *Kernel, pid int) proc.State {
	st, ok := k.Snapshot().Lookup(pid)
	if !ok {
		return proc.Unused
	}
	return st.State
}

func eventually(t *testing.T, cond func() bool, msg string) {
	require.Eventually(t, cond, 5*time.Second, time.Millisecond, msg)
}

func spin(u *User) {
	for {
		u.Tick()
	}
}

// reaper is an init program that reaps children forever.
func reaper(u *User) {
	for {
		if u.Wait() < 0 {
			u.Tick()
		}
	}
}

// sleeper sleeps on ch once, then spins.
func sleeper(ch Chan) Program {
	lk := NewSpinlock("sleeper")
	return func(u *User) {
		u.Acquire(lk)
		u.SleepOn(ch, lk)
		u.Release(lk)
		spin(u)
	}
}
