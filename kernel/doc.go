// Package kernel implements a cooperative-preemptive process scheduler over a
// fixed-capacity process table.
//
// Every logical CPU runs Scheduler, which repeatedly dispatches the head of a
// single FIFO run queue for one tick at a time, rotating a process to the tail
// once it has used its timeslice plus any bonus ticks earned while sleeping.
// Processes block with sleep on an opaque channel value and are made runnable
// again by wakeup on the same value; the timer's tick channel additionally
// honours per-process deadlines.
//
// All table state, counters and queue membership are guarded by one table-wide
// spinlock. The lock is handed across context switches exactly as in a
// uniprocessor-style kernel: the scheduler acquires it, switches to the
// process, and the process releases it (and re-acquires it before switching
// back). A context switch is a synchronous hand-off between the CPU goroutine
// and the goroutine standing in for the process's kernel stack.
//
// Invariant violations (switching without the lock, switching while RUNNING,
// sleeping without a lock, init exiting, ...) panic with an assertion failure:
// the system state past such a point is undefined.
package kernel
