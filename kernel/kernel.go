package kernel

import (
	"context"

	"github.com/viant/kproc/collab/vm"
	"github.com/viant/kproc/logger"
	"github.com/viant/kproc/model/proc"
	"golang.org/x/sync/errgroup"
)

// Kernel owns the process table, the run queue and the logical CPUs.
// It is created once and shared by reference with every caller.
type Kernel struct {
	cfg  Config
	lock *Spinlock // the table lock

	procs      []Proc
	head, tail int
	nextPID    int
	initproc   *Proc
	cpus       []*CPU
	kick       chan struct{}

	mem      Memory
	stacks   Stacks
	files    Files
	clock    Clock
	logger   logger.Logger
	observer Observer

	onDispatch func(cpu, pid int)
}

// New creates a kernel.
func New(cfg *Config, opts ...Option) (*Kernel, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k := &Kernel{
		cfg:     *cfg,
		lock:    NewSpinlock("ptable"),
		procs:   make([]Proc, cfg.NProc),
		head:    -1,
		tail:    -1,
		nextPID: 1,
		kick:    make(chan struct{}, 1),
	}
	for i := range k.procs {
		k.procs[i].slot = i
		k.procs[i].next = -1
	}
	for i := 0; i < cfg.NCPU; i++ {
		k.cpus = append(k.cpus, newCPU(i))
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.mem == nil {
		k.mem = vm.New(vm.DefaultConfig())
	}
	if k.stacks == nil {
		k.stacks = vm.NewStackPool(cfg.NProc)
	}
	if k.files == nil {
		k.files = nopFiles{}
	}
	if k.clock == nil {
		k.clock = &frozenClock{lock: NewSpinlock("time")}
	}
	if k.logger == nil {
		k.logger = logger.NewNopLogger()
	}
	return k, nil
}

// Config returns the kernel configuration.
func (k *Kernel) Config() Config {
	return k.cfg
}

// Lock returns the table lock.
func (k *Kernel) Lock() *Spinlock {
	return k.lock
}

// Clock returns the tick source.
func (k *Kernel) Clock() Clock {
	return k.clock
}

// Run runs the scheduler on every CPU until ctx is done.
func (k *Kernel) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range k.cpus {
		c := c
		g.Go(func() error {
			return k.Scheduler(ctx, c.id)
		})
	}
	return g.Wait()
}

// Shutdown releases the goroutine of every live process. It must only be
// called once no scheduler is running.
func (k *Kernel) Shutdown() {
	k.lock.Acquire(nil)
	defer k.lock.Release(nil)
	for i := range k.procs {
		p := &k.procs[i]
		if p.state == proc.Unused || p.context == nil {
			continue
		}
		p.context.free()
		p.context = nil
	}
}

// notify publishes ev. Callers must not hold the table lock.
func (k *Kernel) notify(ev proc.Lifecycle) {
	if k.observer == nil {
		return
	}
	ev.Ticks = k.clock.Ticks()
	k.observer.Notify(&ev)
}

// nopFiles is the file layer of a kernel without a file system.
type nopFiles struct{}

func (nopFiles) Open(cwd Inode, path string, create bool) (File, error) {
	return nil, ErrBadFD
}
func (nopFiles) Dup(f File) File                            { return f }
func (nopFiles) Close(f File)                               {}
func (nopFiles) Namei(cwd Inode, path string) (Inode, error) { return path, nil }
func (nopFiles) Idup(ip Inode) Inode                        { return ip }
func (nopFiles) Iput(ip Inode)                              {}
func (nopFiles) BeginOp()                                   {}
func (nopFiles) EndOp()                                     {}
