package kernel

import (
	"reflect"

	"github.com/viant/kproc/model/proc"
)

// sleep atomically releases lk and sleeps on ch; lk is reacquired when
// woken. deadline is the tick at which a sleep on the tick channel ends.
func (k *Kernel) sleep(p *Proc, ch Chan, lk *Spinlock, deadline uint64) {
	if p == nil {
		panicf("sleep")
	}
	if lk == nil {
		panicf("sleep without lk")
	}
	checkChan("sleep", ch)

	// Once the table lock is held no wakeup can be missed: wakeup runs
	// with it held too.
	if lk != k.lock {
		k.lock.Acquire(p.cpu)
		lk.Release(p.cpu)
	}
	p.wchan = ch
	p.state = proc.Sleeping
	p.sleepStart = k.clock.Ticks()
	p.sleepDeadline = deadline
	if k.head == p.slot {
		k.dequeue()
	}
	k.sched(p)

	p.wchan = nil
	if lk != k.lock {
		k.lock.Release(p.cpu)
		lk.Acquire(p.cpu)
	}
}

// wakeup1 wakes every process sleeping on ch and returns their pids.
// The table lock must be held.
func (k *Kernel) wakeup1(ch Chan) []int {
	now := k.clock.Ticks()
	tick := ch == k.clock.Chan()
	var woken []int
	for i := range k.procs {
		p := &k.procs[i]
		if p.state != proc.Sleeping || p.wchan != ch {
			continue
		}
		if tick {
			p.sleepTicks++
			k.addBonus(p, 1)
			if now < p.sleepDeadline {
				continue
			}
		} else {
			elapsed := now - p.sleepStart
			p.sleepTicks += elapsed
			k.addBonus(p, elapsed)
		}
		p.state = proc.Runnable
		k.enqueue(p)
		p.activeTicks = 0
		woken = append(woken, p.pid)
	}
	return woken
}

func (k *Kernel) addBonus(p *Proc, n uint64) {
	p.activeSleepTicks += n
	if limit := uint64(k.cfg.MaxSleepBonus); limit > 0 && p.activeSleepTicks > limit {
		p.activeSleepTicks = limit
	}
}

// Wakeup wakes all processes sleeping on ch.
func (k *Kernel) Wakeup(ch Chan) {
	k.wakeup(nil, ch)
}

func (k *Kernel) wakeup(c *CPU, ch Chan) {
	checkChan("wakeup", ch)
	k.lock.Acquire(c)
	woken := k.wakeup1(ch)
	k.lock.Release(c)
	for _, pid := range woken {
		k.notify(proc.Lifecycle{Type: proc.EventWakeup, PID: pid})
	}
}

func checkChan(op string, ch Chan) {
	if ch == nil {
		panicf("%s: nil channel", op)
	}
	if !reflect.TypeOf(ch).Comparable() {
		panicf("%s: channel of type %T is not comparable", op, ch)
	}
}
