package kproc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/kproc/kernel"
	"github.com/viant/kproc/logger"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/progress"
	"github.com/viant/kproc/service/dao"
	"github.com/viant/kproc/service/event"
	"github.com/viant/kproc/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures a Service.
type Option func(s *Service)

// WithLogger sets the logger shared by every subsystem.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithTracing enables OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the file.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.config.Tracing = TracingConfig{Enabled: true, ServiceName: serviceName, Version: serviceVersion, OutputFile: outputFile}
	}
}

// WithTracingExporter enables tracing with a custom span exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracer, s.tracerErr = tracing.NewWithExporter(serviceName, serviceVersion, exporter)
	}
}

// WithEventService sets the lifecycle event service.
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
	}
}

// WithObserver adds a lifecycle observer.
func WithObserver(o kernel.Observer) Option {
	return func(s *Service) {
		s.observers = append(s.observers, o)
	}
}

// WithMemory sets the address-space manager.
func WithMemory(m kernel.Memory) Option {
	return func(s *Service) {
		s.memory = m
	}
}

// WithFiles sets the file layer.
func WithFiles(f kernel.Files) Option {
	return func(s *Service) {
		s.files = f
	}
}

// WithSnapshotDAO sets the snapshot store.
func WithSnapshotDAO(d dao.Service[string, proc.Snapshot]) Option {
	return func(s *Service) {
		s.snapshots = d
	}
}

// WithDispatchHook registers fn to be called on every dispatch.
func WithDispatchHook(fn func(cpu, pid int)) Option {
	return func(s *Service) {
		s.onDispatch = fn
	}
}

// WithRegistry registers the kernel metrics with reg.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(s *Service) {
		s.registry = reg
	}
}

// WithProgress registers fn to be called with the process counters after
// every lifecycle event.
func WithProgress(fn func(progress.Progress)) Option {
	return func(s *Service) {
		s.onProgress = fn
	}
}
