package kproc

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/viant/kproc/kernel"
	"github.com/viant/kproc/logger"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/progress"
	"github.com/viant/kproc/scenario"
	"github.com/viant/kproc/service/dao"
	"github.com/viant/kproc/service/event"
	"github.com/viant/kproc/timer"
	"github.com/viant/kproc/tracing"
	"golang.org/x/sync/errgroup"
)

// Runtime boots and stops the kernel.
type Runtime struct {
	kernel    *kernel.Kernel
	timer     *timer.Timer
	tracer    *tracing.Tracer
	events    *event.Service
	snapshots dao.Service[string, proc.Snapshot]
	logger    logger.Logger
	progress  *progress.Progress

	span atomic.Pointer[tracing.Span]

	mux    sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// Start creates init, if needed, and runs the scheduler on every CPU
// together with the timer until Shutdown.
func (r *Runtime) Start(ctx context.Context) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.group != nil {
		return fmt.Errorf("runtime already started")
	}
	cfg := r.kernel.Config()
	ctx, span := r.tracer.Start(ctx, "kproc.boot", map[string]string{
		"ncpu":  strconv.Itoa(cfg.NCPU),
		"nproc": strconv.Itoa(cfg.NProc),
	})
	r.span.Store(span)
	if _, err := r.kernel.UserInit(kernel.Reaper); err != nil {
		r.span.Store(nil)
		span.End(err)
		return err
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.group, ctx = errgroup.WithContext(ctx)
	r.group.Go(func() error {
		return r.kernel.Run(ctx)
	})
	r.group.Go(func() error {
		return r.timer.Run(ctx)
	})
	r.logger.Info("kernel started on %d cpu(s), tick %v", cfg.NCPU, r.timer.Interval())
	return nil
}

// Shutdown stops the schedulers and the timer and releases every process.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.group == nil {
		return nil
	}
	r.cancel()
	err := r.group.Wait()
	r.group = nil
	r.kernel.Shutdown()
	if span := r.span.Swap(nil); span != nil {
		span.End(err)
	}
	if r.events != nil {
		r.events.Close()
	}
	if tErr := r.tracer.Shutdown(ctx); err == nil {
		err = tErr
	}
	r.logger.Info("kernel stopped at tick %d", r.timer.Ticks())
	return err
}

// Notify records ev on the boot span.
func (r *Runtime) Notify(ev *proc.Lifecycle) {
	r.span.Load().Notify(ev)
}

// Spawn starts prog as a child of init.
func (r *Runtime) Spawn(name string, quota int, prog kernel.Program) (int, error) {
	return r.kernel.Spawn(name, quota, prog)
}

// RunScenario compiles s and spawns its processes.
func (r *Runtime) RunScenario(s *scenario.Scenario) ([]int, error) {
	programs, err := s.Compile()
	if err != nil {
		return nil, err
	}
	var pids []int
	for _, p := range s.Processes {
		count := p.Count
		if count == 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			pid, err := r.kernel.Spawn(p.Name, p.Quota, programs[p.Program])
			if err != nil {
				return pids, fmt.Errorf("failed to spawn %v: %w", p.Name, err)
			}
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

// Kill marks pid for termination.
func (r *Runtime) Kill(pid int) error {
	return r.kernel.Kill(pid)
}

// Snapshot returns the current process table.
func (r *Runtime) Snapshot() *proc.Snapshot {
	return r.kernel.Snapshot()
}

// SaveSnapshot takes and stores a snapshot.
func (r *Runtime) SaveSnapshot(ctx context.Context) (*proc.Snapshot, error) {
	snapshot := r.kernel.Snapshot()
	if err := r.snapshots.Save(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// LoadSnapshot loads a stored snapshot.
func (r *Runtime) LoadSnapshot(ctx context.Context, id string) (*proc.Snapshot, error) {
	return r.snapshots.Load(ctx, id)
}

// Snapshots lists stored snapshots matching parameters, oldest first.
func (r *Runtime) Snapshots(ctx context.Context, parameters ...*dao.Parameter) ([]*proc.Snapshot, error) {
	return r.snapshots.List(ctx, parameters...)
}

// Progress returns the process counters since boot.
func (r *Runtime) Progress() progress.Progress {
	return r.progress.Snapshot()
}
