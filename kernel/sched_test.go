package kernel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kproc/model/proc"
)

func TestScheduler_RoundRobin(t *testing.T) {
	testCases := []struct {
		description string
		quotas      []int
		dispatches  int
		expect      []int // slot order, 0 is init
	}{
		{description: "quotas 1,2,1", quotas: []int{1, 2, 1}, dispatches: 5, expect: []int{0, 1, 1, 2, 0}},
		{description: "equal quotas", quotas: []int{1, 1}, dispatches: 4, expect: []int{0, 1, 0, 1}},
		{description: "long quota first", quotas: []int{3, 1}, dispatches: 6, expect: []int{0, 0, 0, 1, 0, 0}},
	}
	for _, tc := range testCases {
		ctx, cancel := context.WithCancel(context.Background())
		var order []int
		cfg := DefaultConfig()
		cfg.NProc = 8
		cfg.DefaultQuota = tc.quotas[0]
		k, _ := newTestKernel(t, cfg, WithDispatchHook(func(cpu, pid int) {
			order = append(order, pid)
			if len(order) == tc.dispatches {
				cancel()
			}
		}))
		pids := make([]int, len(tc.quotas))
		var err error
		pids[0], err = k.UserInit(spin)
		require.NoError(t, err, tc.description)
		for i, quota := range tc.quotas[1:] {
			pids[i+1], err = k.Spawn("spin", quota, spin)
			require.NoError(t, err, tc.description)
		}
		require.NoError(t, k.Run(ctx), tc.description)
		k.Shutdown()

		var expect []int
		for _, slot := range tc.expect {
			expect = append(expect, pids[slot])
		}
		assert.Equal(t, expect, order, tc.description)
	}
}

func TestScheduler_YieldGivesUpQuota(t *testing.T) {
	testCases := []struct {
		description string
		program     Program
		expect      []int // slot order, 0 is init
	}{
		{description: "tick keeps quota", program: spin, expect: []int{0, 0, 0, 1}},
		{description: "yield gives up quota", program: func(u *User) {
			for {
				u.Yield()
			}
		}, expect: []int{0, 1, 0, 1}},
	}
	for _, tc := range testCases {
		ctx, cancel := context.WithCancel(context.Background())
		var order []int
		cfg := DefaultConfig()
		cfg.NProc = 8
		cfg.DefaultQuota = 3
		k, _ := newTestKernel(t, cfg, WithDispatchHook(func(cpu, pid int) {
			order = append(order, pid)
			if len(order) == len(tc.expect) {
				cancel()
			}
		}))
		initPID, err := k.UserInit(tc.program)
		require.NoError(t, err, tc.description)
		spinPID, err := k.Spawn("spin", 1, spin)
		require.NoError(t, err, tc.description)
		require.NoError(t, k.Run(ctx), tc.description)
		k.Shutdown()

		pids := []int{initPID, spinPID}
		var expect []int
		for _, slot := range tc.expect {
			expect = append(expect, pids[slot])
		}
		assert.Equal(t, expect, order, tc.description)
	}
}

func TestScheduler_QuotaAccounting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dispatched := 0
	cfg := DefaultConfig()
	cfg.NProc = 4
	cfg.DefaultQuota = 3
	k, _ := newTestKernel(t, cfg, WithDispatchHook(func(cpu, pid int) {
		dispatched++
		if dispatched == 7 {
			cancel()
		}
	}))
	pid, err := k.UserInit(spin)
	require.NoError(t, err)
	require.NoError(t, k.Run(ctx))
	defer k.Shutdown()

	p := k.find(pid)
	require.NotNil(t, p)
	assert.EqualValues(t, 7, p.schedTicks)
	assert.EqualValues(t, 1, p.activeTicks)
	assert.EqualValues(t, 2, p.switches)
	assert.EqualValues(t, 0, p.compTicks)
	assert.Equal(t, proc.Runnable, p.state)
	assert.Equal(t, []int{pid}, k.Queue())
}

func TestScheduler_SleepBonus(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NProc = 4
	cfg.DefaultQuota = 2
	var order []int
	var limit int
	var cancel context.CancelFunc
	k, clk := newTestKernel(t, cfg, WithDispatchHook(func(cpu, pid int) {
		order = append(order, pid)
		if len(order) == limit && cancel != nil {
			cancel()
		}
	}))
	x := new(int)
	p1, err := k.UserInit(sleeper(x))
	require.NoError(t, err)
	p2, err := k.Spawn("spin", 1, spin)
	require.NoError(t, err)

	r := start(k)
	eventually(t, func() bool { return stateOf(k, p1) == proc.Sleeping }, "p1 never slept")
	r.stop(t)

	assert.NotContains(t, k.Queue(), p1)
	clk.advance(k, 3)
	assert.Equal(t, proc.Sleeping, stateOf(k, p1))
	k.Wakeup(x)
	k.Wakeup(x)

	assert.Equal(t, []int{p2, p1}, k.Queue())
	p := k.find(p1)
	assert.Equal(t, proc.Runnable, p.state)
	assert.EqualValues(t, 0, p.activeTicks)
	assert.EqualValues(t, 3, p.activeSleepTicks)
	assert.EqualValues(t, 3, p.sleepTicks)

	// p1 now runs for its quota plus the three bonus ticks.
	order = nil
	limit = 8
	ctx, c := context.WithCancel(context.Background())
	cancel = c
	require.NoError(t, k.Run(ctx))
	k.Shutdown()

	run, first := 0, -1
	for i, pid := range order {
		if pid == p1 {
			first = i
			break
		}
	}
	require.True(t, first >= 0)
	for _, pid := range order[first:] {
		if pid != p1 {
			break
		}
		run++
	}
	assert.Equal(t, 5, run)
	assert.EqualValues(t, 3, p.compTicks)
	assert.EqualValues(t, 0, p.activeSleepTicks)
}

func TestScheduler_MaxSleepBonus(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NProc = 4
	cfg.MaxSleepBonus = 2
	k, clk := newTestKernel(t, cfg)
	x := new(int)
	pid, err := k.UserInit(sleeper(x))
	require.NoError(t, err)

	r := start(k)
	eventually(t, func() bool { return stateOf(k, pid) == proc.Sleeping }, "never slept")
	r.stop(t)
	defer k.Shutdown()

	clk.advance(k, 5)
	k.Wakeup(x)
	p := k.find(pid)
	assert.EqualValues(t, 2, p.activeSleepTicks)
	assert.EqualValues(t, 5, p.sleepTicks)
}

func TestScheduler_TimedSleep(t *testing.T) {
	k, clk := newTestKernel(t, nil)
	done := make(chan int, 1)
	pid, err := k.UserInit(func(u *User) {
		done <- u.SleepTicks(3)
		spin(u)
	})
	require.NoError(t, err)

	r := start(k)
	eventually(t, func() bool { return stateOf(k, pid) == proc.Sleeping }, "never slept")
	r.stop(t)

	for tick := 1; tick < 3; tick++ {
		clk.advance(k, 1)
		st, _ := k.Snapshot().Lookup(pid)
		assert.Equal(t, proc.Sleeping, st.State, "tick %d", tick)
		assert.EqualValues(t, tick, st.SleepTicks)
		assert.Empty(t, k.Queue())
	}
	clk.advance(k, 1)
	assert.Equal(t, proc.Runnable, stateOf(k, pid))
	assert.Equal(t, []int{pid}, k.Queue())

	r = start(k)
	assert.Equal(t, 0, <-done)
	r.stop(t)
	k.Shutdown()
}

func TestScheduler_MultiCPU(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := DefaultConfig()
	cfg.NProc = 8
	cfg.NCPU = 3
	counts := map[int]int{}
	total := 0
	k, _ := newTestKernel(t, cfg, WithDispatchHook(func(cpu, pid int) {
		counts[pid]++
		total++
		if total == 30 {
			cancel()
		}
	}))
	_, err := k.UserInit(spin)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = k.Spawn("spin", 1, spin)
		require.NoError(t, err)
	}
	require.NoError(t, k.Run(ctx))
	k.Shutdown()
	assert.Len(t, counts, 3)
	for pid, n := range counts {
		assert.Equal(t, 10, n, "pid %d", pid)
	}
}

func TestScheduler_BadCPU(t *testing.T) {
	k, _ := newTestKernel(t, nil)
	assert.Error(t, k.Scheduler(context.Background(), 3))
}
