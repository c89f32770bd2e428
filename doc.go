// Package kproc boots a simulated round-robin kernel: a process table with
// per-process timeslice quotas, a FIFO run queue, sleep/wakeup on opaque
// channels and a fork/exit/wait/kill lifecycle, backed by in-memory address
// spaces, an afs file layer and a tick timer.
//
// Typical usage:
//
//	srv, _ := kproc.New(ctx, kproc.DefaultConfig())
//	rt := srv.Runtime()
//	_ = rt.Start(ctx)
//	pids, _ := rt.RunScenario(s)
//	snapshot, _ := rt.SaveSnapshot(ctx)
//	_ = rt.Shutdown(ctx)
package kproc
