package vm

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrNoStack is returned when every kernel stack is in use.
var ErrNoStack = errors.New("vm: out of kernel stacks")

// Stack is a kernel stack.
type Stack struct {
	ID int
}

// StackPool hands out a fixed number of kernel stacks.
type StackPool struct {
	mu   sync.Mutex
	free []*Stack
	size int
}

// NewStackPool creates a pool of n stacks.
func NewStackPool(n int) *StackPool {
	p := &StackPool{size: n, free: make([]*Stack, 0, n)}
	for i := n - 1; i >= 0; i-- {
		p.free = append(p.free, &Stack{ID: i})
	}
	return p
}

// Alloc takes a stack from the pool.
func (p *StackPool) Alloc() (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) == 0 {
		return nil, ErrNoStack
	}
	s := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return s, nil
}

// Free returns a stack to the pool.
func (p *StackPool) Free(stack any) {
	s, ok := stack.(*Stack)
	if !ok || s == nil {
		return
	}
	p.mu.Lock()
	p.free = append(p.free, s)
	p.mu.Unlock()
}

// InUse returns the number of allocated stacks.
func (p *StackPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size - len(p.free)
}
