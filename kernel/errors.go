package kernel

import "github.com/cockroachdb/errors"

// Recoverable kernel errors. Syscalls report any of them as -1.
var (
	ErrTableFull    = errors.New("kernel: process table full")
	ErrNoStack      = errors.New("kernel: out of kernel stacks")
	ErrNoMemory     = errors.New("kernel: out of memory")
	ErrInvalidQuota = errors.New("kernel: invalid quota")
	ErrInvalidPID   = errors.New("kernel: invalid pid")
	ErrNotFound     = errors.New("kernel: no such process")
	ErrNoChildren   = errors.New("kernel: no children")
	ErrKilled       = errors.New("kernel: process killed")
	ErrNoInit       = errors.New("kernel: init process not created")
	ErrBadFD        = errors.New("kernel: bad file descriptor")
	ErrNoProgram    = errors.New("kernel: fork without a child program")
)

// panicf halts the system on a violated kernel invariant.
func panicf(format string, args ...interface{}) {
	panic(errors.AssertionFailedf(format, args...))
}
