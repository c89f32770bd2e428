// Package progress keeps aggregated process counters for a kernel run. The
// tracker is a lifecycle observer: every fork, exit, reap and kill moves its
// counters.
package progress
