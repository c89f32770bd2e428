package kernel

// The run queue is threaded through the process table: head, tail and each
// Proc.next are slot indexes. All operations require the table lock.

// enqueue appends p to the tail. Enqueueing nil or an already queued process
// is a no-op.
func (k *Kernel) enqueue(p *Proc) {
	if p == nil || p.queued {
		return
	}
	p.next = -1
	p.queued = true
	if k.tail < 0 {
		k.head = p.slot
	} else {
		k.procs[k.tail].next = p.slot
	}
	k.tail = p.slot
	select {
	case k.kick <- struct{}{}:
	default:
	}
}

// dequeue removes and returns the head, or nil when the queue is empty.
func (k *Kernel) dequeue() *Proc {
	if k.head < 0 {
		return nil
	}
	p := &k.procs[k.head]
	k.head = p.next
	if k.head < 0 {
		k.tail = -1
	}
	p.next = -1
	p.queued = false
	return p
}

// peek returns the head without removing it.
func (k *Kernel) peek() *Proc {
	if k.head < 0 {
		return nil
	}
	return &k.procs[k.head]
}

// queuePIDs lists the queued pids in order.
func (k *Kernel) queuePIDs() []int {
	var ret []int
	for i := k.head; i >= 0; i = k.procs[i].next {
		ret = append(ret, k.procs[i].pid)
	}
	return ret
}
