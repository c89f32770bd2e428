package kproc

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/kproc/collab/fs"
	"github.com/viant/kproc/collab/vm"
	"github.com/viant/kproc/kernel"
	"github.com/viant/kproc/logger"
	"github.com/viant/kproc/metrics"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/progress"
	"github.com/viant/kproc/service/dao"
	snapfs "github.com/viant/kproc/service/dao/snapshot/fs"
	snapmem "github.com/viant/kproc/service/dao/snapshot/memory"
	"github.com/viant/kproc/service/event"
	"github.com/viant/kproc/service/messaging"
	"github.com/viant/kproc/service/messaging/memory"
	"github.com/viant/kproc/timer"
	"github.com/viant/kproc/tracing"
)

// Service wires the kernel with its collaborators.
type Service struct {
	config     *Config
	logger     logger.Logger
	tracer     *tracing.Tracer
	tracerErr  error
	events     *event.Service
	observers  observers
	snapshots  dao.Service[string, proc.Snapshot]
	memory     kernel.Memory
	files      kernel.Files
	onDispatch func(cpu, pid int)
	onProgress func(progress.Progress)
	registry   prometheus.Registerer

	timer    *timer.Timer
	kernel   *kernel.Kernel
	counters *metrics.Events
	progress *progress.Progress
	runtime  *Runtime
}

// New creates a service from cfg, or from DefaultConfig when cfg is nil.
func New(ctx context.Context, cfg *Config, options ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	config := *cfg
	ret := &Service{config: &config, logger: logger.NewNopLogger()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if err := ret.init(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context) error {
	if err := s.ensureBaseSetup(ctx); err != nil {
		return err
	}
	s.timer = timer.New(s.config.Timer.Interval)
	s.counters = metrics.NewEvents()
	s.progress = progress.New("kernel", s.onProgress)
	s.runtime = &Runtime{
		progress:  s.progress,
		tracer:    s.tracer,
		timer:     s.timer,
		events:    s.events,
		snapshots: s.snapshots,
		logger:    s.logger,
	}
	observed := append(observers{s.counters, s.progress, s.runtime, s.events}, s.observers...)
	options := []kernel.Option{
		kernel.WithClock(s.timer),
		kernel.WithMemory(s.memory),
		kernel.WithStacks(vm.NewStackPool(s.config.Memory.KStacks)),
		kernel.WithFiles(s.files),
		kernel.WithLogger(s.logger),
		kernel.WithObserver(observed),
	}
	if s.onDispatch != nil {
		options = append(options, kernel.WithDispatchHook(s.onDispatch))
	}
	k, err := kernel.New(&s.config.Kernel, options...)
	if err != nil {
		return fmt.Errorf("failed to create kernel: %w", err)
	}
	s.kernel = k
	s.runtime.kernel = k
	s.timer.Bind(k)
	if s.registry != nil {
		if err = metrics.Register(s.registry, metrics.NewCollector(k), s.counters); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return nil
}

func (s *Service) ensureBaseSetup(ctx context.Context) error {
	var err error
	if s.tracerErr != nil {
		return fmt.Errorf("failed to init tracing: %w", s.tracerErr)
	}
	if s.tracer == nil {
		if s.config.Tracing.Enabled {
			t := s.config.Tracing
			if s.tracer, err = tracing.New(t.ServiceName, t.Version, t.OutputFile); err != nil {
				return fmt.Errorf("failed to init tracing: %w", err)
			}
		} else {
			s.tracer = tracing.Noop()
		}
	}
	if s.events == nil {
		queueConfig := memory.DefaultConfig()
		queueConfig.QueueBuffer = s.config.Events.Buffer
		s.events, err = event.New(messaging.VendorMemory,
			event.WithMemoryQueueConfig(queueConfig),
			event.WithLogger(s.logger))
		if err != nil {
			return err
		}
	}
	if s.snapshots == nil {
		if URL := s.config.Snapshots.URL; URL != "" {
			if s.snapshots, err = snapfs.New(URL, s.logger); err != nil {
				return fmt.Errorf("failed to create snapshot store: %w", err)
			}
		} else {
			s.snapshots = snapmem.New()
		}
	}
	if s.memory == nil {
		s.memory = vm.New(&s.config.Memory)
	}
	if s.files == nil {
		files, err := fs.New(ctx, &s.config.Files)
		if err != nil {
			return fmt.Errorf("failed to create file layer: %w", err)
		}
		s.files = files
	}
	return nil
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return *s.config
}

// Runtime returns the runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Kernel returns the kernel.
func (s *Service) Kernel() *kernel.Kernel {
	return s.kernel
}

// Timer returns the tick source.
func (s *Service) Timer() *timer.Timer {
	return s.timer
}

// Events returns the lifecycle event service.
func (s *Service) Events() *event.Service {
	return s.events
}
