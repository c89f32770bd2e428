// Package metrics exposes kernel accounting to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/kproc/model/proc"
)

const namespace = "kproc"

// Source provides process table snapshots.
type Source interface {
	Snapshot() *proc.Snapshot
}

// Collector reports per-process counters from a fresh snapshot on every
// scrape.
type Collector struct {
	source     Source
	ticks      *prometheus.Desc
	procs      *prometheus.Desc
	timeslice  *prometheus.Desc
	schedTicks *prometheus.Desc
	compTicks  *prometheus.Desc
	sleepTicks *prometheus.Desc
	switches   *prometheus.Desc
}

// NewCollector creates a collector over source.
func NewCollector(source Source) *Collector {
	labels := []string{"pid", "name"}
	return &Collector{
		source:     source,
		ticks:      prometheus.NewDesc(namespace+"_ticks", "Global tick counter.", nil, nil),
		procs:      prometheus.NewDesc(namespace+"_processes", "Process table slots by state.", []string{"state"}, nil),
		timeslice:  prometheus.NewDesc(namespace+"_timeslice_ticks", "Quota of a process.", labels, nil),
		schedTicks: prometheus.NewDesc(namespace+"_sched_ticks_total", "Ticks a process was dispatched for.", labels, nil),
		compTicks:  prometheus.NewDesc(namespace+"_comp_ticks_total", "Ticks run on sleep bonus beyond the quota.", labels, nil),
		sleepTicks: prometheus.NewDesc(namespace+"_sleep_ticks_total", "Ticks a process spent sleeping.", labels, nil),
		switches:   prometheus.NewDesc(namespace+"_switches_total", "Quota exhaustion requeues.", labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.ticks
	ch <- c.procs
	ch <- c.timeslice
	ch <- c.schedTicks
	ch <- c.compTicks
	ch <- c.sleepTicks
	ch <- c.switches
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.source.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.ticks, prometheus.CounterValue, float64(snapshot.Ticks))
	byState := map[proc.State]int{}
	for _, st := range snapshot.Stats {
		byState[st.State]++
		if !st.InUse {
			continue
		}
		pid := strconv.Itoa(st.PID)
		ch <- prometheus.MustNewConstMetric(c.timeslice, prometheus.GaugeValue, float64(st.Timeslice), pid, st.Name)
		ch <- prometheus.MustNewConstMetric(c.schedTicks, prometheus.CounterValue, float64(st.SchedTicks), pid, st.Name)
		ch <- prometheus.MustNewConstMetric(c.compTicks, prometheus.CounterValue, float64(st.CompTicks), pid, st.Name)
		ch <- prometheus.MustNewConstMetric(c.sleepTicks, prometheus.CounterValue, float64(st.SleepTicks), pid, st.Name)
		ch <- prometheus.MustNewConstMetric(c.switches, prometheus.CounterValue, float64(st.Switches), pid, st.Name)
	}
	for state := proc.Unused; state <= proc.Zombie; state++ {
		ch <- prometheus.MustNewConstMetric(c.procs, prometheus.GaugeValue, float64(byState[state]), state.String())
	}
}

var _ prometheus.Collector = (*Collector)(nil)
