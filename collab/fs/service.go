package fs

import (
	"bytes"
	"context"
	"path"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrNotFound is returned when a path does not exist.
	ErrNotFound = errors.New("fs: no such file or directory")
	// ErrNotDir is returned when a directory was expected.
	ErrNotDir = errors.New("fs: not a directory")
)

// Service implements the kernel file layer over afs.
type Service struct {
	fs     afs.Service
	root   string
	log    *semaphore.Weighted
	mu     sync.Mutex
	inodes map[string]*Inode
	ops    int
}

// New creates the file layer, creating the root directory when missing.
func New(ctx context.Context, cfg *Config) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fs := afs.New()
	root := strings.TrimRight(cfg.Root, "/")
	exists, _ := fs.Exists(ctx, root)
	if !exists {
		if err := fs.Create(ctx, root, file.DefaultDirOsMode, true); err != nil {
			return nil, errors.Wrapf(err, "failed to create root %v", root)
		}
	}
	return &Service{
		fs:     fs,
		root:   root,
		log:    semaphore.NewWeighted(int64(cfg.MaxOpBlocks)),
		inodes: make(map[string]*Inode),
	}, nil
}

// resolve returns the clean absolute path of name relative to cwd.
func (s *Service) resolve(cwd any, name string) string {
	if path.IsAbs(name) {
		return path.Clean(name)
	}
	base := "/"
	if ip, ok := cwd.(*Inode); ok && ip != nil {
		base = ip.Path
	}
	return path.Join(base, name)
}

func (s *Service) url(p string) string {
	if p == "/" {
		return s.root
	}
	return s.root + p
}

// Namei looks up a directory.
func (s *Service) Namei(cwd any, name string) (any, error) {
	p := s.resolve(cwd, name)
	ctx := context.Background()
	if p != "/" {
		object, err := s.fs.Object(ctx, s.url(p))
		if err != nil || object == nil {
			return nil, errors.Wrapf(ErrNotFound, "%v", p)
		}
		if !object.IsDir() {
			return nil, errors.Wrapf(ErrNotDir, "%v", p)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ip, ok := s.inodes[p]
	if !ok {
		ip = &Inode{Path: p}
		s.inodes[p] = ip
	}
	ip.ref++
	return ip, nil
}

// Idup increments the reference count of ip.
func (s *Service) Idup(ip any) any {
	if i, ok := ip.(*Inode); ok && i != nil {
		s.mu.Lock()
		i.ref++
		s.mu.Unlock()
	}
	return ip
}

// Iput drops a reference to ip. It must be called inside a log scope.
func (s *Service) Iput(ip any) {
	i, ok := ip.(*Inode)
	if !ok || i == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ops == 0 {
		panic(errors.AssertionFailedf("iput %s outside log scope", i.Path))
	}
	i.ref--
	if i.ref <= 0 {
		delete(s.inodes, i.Path)
	}
}

// Mkdir creates a directory.
func (s *Service) Mkdir(cwd any, name string) error {
	p := s.resolve(cwd, name)
	return s.fs.Create(context.Background(), s.url(p), file.DefaultDirOsMode, true)
}

// Open opens a file, creating an empty one when create is set.
func (s *Service) Open(cwd any, name string, create bool) (any, error) {
	p := s.resolve(cwd, name)
	ctx := context.Background()
	URL := s.url(p)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check %v", p)
	}
	if !exists {
		if !create {
			return nil, errors.Wrapf(ErrNotFound, "%v", p)
		}
		if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(nil)); err != nil {
			return nil, errors.Wrapf(err, "failed to create %v", p)
		}
	}
	return &File{Path: p, Writable: create, ref: 1}, nil
}

// Dup increments the reference count of f.
func (s *Service) Dup(f any) any {
	if fl, ok := f.(*File); ok && fl != nil {
		s.mu.Lock()
		fl.ref++
		s.mu.Unlock()
	}
	return f
}

// Close drops a reference to f.
func (s *Service) Close(f any) {
	if fl, ok := f.(*File); ok && fl != nil {
		s.mu.Lock()
		if fl.ref > 0 {
			fl.ref--
		}
		s.mu.Unlock()
	}
}

// BeginOp enters the log scope, waiting while it is full.
func (s *Service) BeginOp() {
	_ = s.log.Acquire(context.Background(), 1)
	s.mu.Lock()
	s.ops++
	s.mu.Unlock()
}

// EndOp leaves the log scope.
func (s *Service) EndOp() {
	s.mu.Lock()
	s.ops--
	s.mu.Unlock()
	s.log.Release(1)
}

// Cached returns the number of directories with live references.
func (s *Service) Cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inodes)
}
