package kernel

import "github.com/viant/kproc/logger"

// Option configures a Kernel.
type Option func(k *Kernel)

// WithMemory sets the address-space manager.
func WithMemory(m Memory) Option {
	return func(k *Kernel) {
		k.mem = m
	}
}

// WithStacks sets the kernel-stack allocator.
func WithStacks(s Stacks) Option {
	return func(k *Kernel) {
		k.stacks = s
	}
}

// WithFiles sets the file layer.
func WithFiles(f Files) Option {
	return func(k *Kernel) {
		k.files = f
	}
}

// WithClock sets the tick source.
func WithClock(c Clock) Option {
	return func(k *Kernel) {
		k.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(k *Kernel) {
		k.logger = l
	}
}

// WithObserver sets the lifecycle event observer.
func WithObserver(o Observer) Option {
	return func(k *Kernel) {
		k.observer = o
	}
}

// WithDispatchHook registers fn to be called, with the table lock held, every
// time a CPU grants a tick to a process.
func WithDispatchHook(fn func(cpu, pid int)) Option {
	return func(k *Kernel) {
		k.onDispatch = fn
	}
}
