package vm

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/viant/kproc/internal/idgen"
)

var (
	// ErrOutOfPages is returned when the page budget is exhausted.
	ErrOutOfPages = errors.New("vm: out of pages")
	// ErrBadSpace is returned for a handle that is not a live *Space.
	ErrBadSpace = errors.New("vm: bad address space")
)

// Space is a user address space.
type Space struct {
	ID    string
	Size  uint
	pages int
	freed bool
}

// Pages returns the number of pages charged to the space.
func (s *Space) Pages() int {
	return s.pages
}

// Manager allocates address spaces from a shared page budget.
type Manager struct {
	mu       sync.Mutex
	pageSize uint
	budget   int
	used     int
	current  map[int]*Space // per-cpu installed space, nil is the kernel space
}

// New creates a memory manager.
func New(cfg *Config) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Manager{
		pageSize: uint(cfg.PageSize),
		budget:   cfg.Pages,
		current:  make(map[int]*Space),
	}
}

func (m *Manager) pagesFor(size uint) int {
	return int((size + m.pageSize - 1) / m.pageSize)
}

// charge reserves n pages; m.mu must be held.
func (m *Manager) charge(n int) error {
	if m.used+n > m.budget {
		return errors.Wrapf(ErrOutOfPages, "need %d, %d of %d in use", n, m.used, m.budget)
	}
	m.used += n
	return nil
}

func space(as any) (*Space, error) {
	s, ok := as.(*Space)
	if !ok || s == nil || s.freed {
		return nil, ErrBadSpace
	}
	return s, nil
}

// Setup creates an address space holding an initial image of size bytes.
func (m *Manager) Setup(size uint) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.pagesFor(size)
	if err := m.charge(n); err != nil {
		return nil, err
	}
	return &Space{ID: idgen.New(), Size: size, pages: n}, nil
}

// Copy duplicates the first size bytes of as.
func (m *Manager) Copy(as any, size uint) (any, error) {
	src, err := space(as)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.pagesFor(size)
	if src.pages < n {
		n = src.pages
	}
	if err := m.charge(n); err != nil {
		return nil, errors.Wrap(err, "copy")
	}
	return &Space{ID: idgen.New(), Size: size, pages: n}, nil
}

// Resize grows or shrinks as and returns the new size.
func (m *Manager) Resize(as any, oldSize, newSize uint) (uint, error) {
	s, err := space(as)
	if err != nil {
		return oldSize, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	want := m.pagesFor(newSize)
	if delta := want - s.pages; delta > 0 {
		if err := m.charge(delta); err != nil {
			return oldSize, err
		}
	} else {
		m.used += delta
	}
	s.pages = want
	s.Size = newSize
	return newSize, nil
}

// Free releases as. Freeing a nil or already freed space is a no-op.
func (m *Manager) Free(as any) {
	s, err := space(as)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used -= s.pages
	s.pages = 0
	s.freed = true
	for cpu, cur := range m.current {
		if cur == s {
			m.current[cpu] = nil
		}
	}
}

// Switch installs as on cpu.
func (m *Manager) Switch(cpu int, as any) {
	s, _ := space(as)
	m.mu.Lock()
	m.current[cpu] = s
	m.mu.Unlock()
}

// SwitchKernel installs the kernel-only address space on cpu.
func (m *Manager) SwitchKernel(cpu int) {
	m.mu.Lock()
	m.current[cpu] = nil
	m.mu.Unlock()
}

// Current returns the space installed on cpu, nil for the kernel space.
func (m *Manager) Current(cpu int) *Space {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current[cpu]
}

// Used returns the number of pages in use.
func (m *Manager) Used() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}
