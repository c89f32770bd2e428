package kproc

import (
	"github.com/viant/kproc/kernel"
	"github.com/viant/kproc/model/proc"
)

// observers fans a lifecycle event out to every observer in order.
type observers []kernel.Observer

func (o observers) Notify(ev *proc.Lifecycle) {
	for _, item := range o {
		item.Notify(ev)
	}
}
