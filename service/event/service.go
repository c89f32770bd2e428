package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/kproc/internal/idgen"
	"github.com/viant/kproc/logger"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/service/messaging"
	"github.com/viant/kproc/service/messaging/memory"
)

// Service fans kernel lifecycle events out to a listener. It is the kernel
// observer: Notify never blocks, a full queue drops the event.
type Service struct {
	vendor    messaging.Vendor
	memConfig memory.Config
	context   *Context
	queue     *memory.Queue[Event[proc.Lifecycle]]
	publisher *Publisher[proc.Lifecycle]
	logger    logger.Logger

	mux      sync.Mutex
	listener *Listener[proc.Lifecycle]
}

// New creates an event service.
func New(vendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{
		vendor:    vendor,
		memConfig: memory.DefaultConfig(),
		context:   &Context{BootID: idgen.New(), Source: "kernel"},
		logger:    logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	switch vendor {
	case messaging.VendorMemory:
		ret.queue = memory.NewQueue[Event[proc.Lifecycle]](ret.memConfig)
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", vendor)
	}
	ret.publisher = NewPublisher[proc.Lifecycle](ret.queue)
	return ret, nil
}

// Notify publishes a lifecycle event.
func (s *Service) Notify(ev *proc.Lifecycle) {
	if err := s.publisher.TryPublish(NewEvent(s.context, *ev)); err != nil {
		s.logger.Warning("event %v pid %d dropped: %v", ev.Type, ev.PID, err)
	}
}

// Publisher returns the lifecycle publisher.
func (s *Service) Publisher() *Publisher[proc.Lifecycle] {
	return s.publisher
}

// Dropped returns the number of events dropped on a full queue.
func (s *Service) Dropped() uint64 {
	return s.queue.Dropped()
}

// SetListener replaces the lifecycle listener.
func (s *Service) SetListener(ctx context.Context, handler func(*Event[proc.Lifecycle])) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[proc.Lifecycle](s.publisher, handler)
	s.listener.Start(ctx)
}

// Close stops the listener.
func (s *Service) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
}
