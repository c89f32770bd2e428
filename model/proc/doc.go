// Package proc defines the data types shared between the kernel scheduler and
// its observers: process states, per-slot accounting statistics and the
// lifecycle event kinds published by the kernel.
package proc
