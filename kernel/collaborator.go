package kernel

import "github.com/viant/kproc/model/proc"

// Opaque handles owned by collaborators. The kernel stores and passes them
// back; it never looks inside.
type (
	// Chan is a sleep channel. Any comparable value works; identity is ==.
	Chan = any
	// AddressSpace is a user address space handle.
	AddressSpace = any
	// KStack is a kernel stack handle.
	KStack = any
	// File is an open file handle.
	File = any
	// Inode is a directory handle.
	Inode = any
)

// Memory manages user address spaces.
type Memory interface {
	// Setup creates an address space holding the initial image of size bytes.
	Setup(size uint) (AddressSpace, error)
	// Copy duplicates the first size bytes of as.
	Copy(as AddressSpace, size uint) (AddressSpace, error)
	// Resize grows or shrinks as from oldSize to newSize and returns the new size.
	Resize(as AddressSpace, oldSize, newSize uint) (uint, error)
	// Free releases as and everything it maps.
	Free(as AddressSpace)
	// Switch installs as on cpu.
	Switch(cpu int, as AddressSpace)
	// SwitchKernel installs the kernel-only address space on cpu.
	SwitchKernel(cpu int)
}

// Stacks allocates kernel stacks.
type Stacks interface {
	Alloc() (KStack, error)
	Free(stack KStack)
}

// Files is the file layer: open files, directories and the log scope that
// wraps directory releases.
type Files interface {
	Open(cwd Inode, path string, create bool) (File, error)
	Dup(f File) File
	Close(f File)
	Namei(cwd Inode, path string) (Inode, error)
	Idup(ip Inode) Inode
	Iput(ip Inode)
	BeginOp()
	EndOp()
}

// Clock is the global tick source.
type Clock interface {
	// Ticks returns the current tick count.
	Ticks() uint64
	// Chan returns the channel broadcast on every tick.
	Chan() Chan
	// Lock returns the lock guarding the tick counter.
	Lock() *Spinlock
}

// Observer receives lifecycle events. Notify is never called with the table
// lock held.
type Observer interface {
	Notify(event *proc.Lifecycle)
}

// frozenClock never advances; it stands in until a timer is bound.
type frozenClock struct {
	lock *Spinlock
}

func (c *frozenClock) Ticks() uint64   { return 0 }
func (c *frozenClock) Chan() Chan      { return c }
func (c *frozenClock) Lock() *Spinlock { return c.lock }
