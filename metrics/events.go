package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/kproc/model/proc"
)

// Events counts lifecycle events by type.
type Events struct {
	counter *prometheus.CounterVec
}

// NewEvents creates a lifecycle event counter.
func NewEvents() *Events {
	return &Events{counter: prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_events_total",
		Help:      "Process lifecycle events by type.",
	}, []string{"type"})}
}

// Notify counts ev.
func (e *Events) Notify(ev *proc.Lifecycle) {
	e.counter.WithLabelValues(string(ev.Type)).Inc()
}

// Describe implements prometheus.Collector.
func (e *Events) Describe(ch chan<- *prometheus.Desc) {
	e.counter.Describe(ch)
}

// Collect implements prometheus.Collector.
func (e *Events) Collect(ch chan<- prometheus.Metric) {
	e.counter.Collect(ch)
}

// Register registers collectors with reg.
func Register(reg prometheus.Registerer, collectors ...prometheus.Collector) error {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
