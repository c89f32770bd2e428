// Package memory stores snapshots in memory.
package memory

import (
	"context"

	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/service/dao"
	"github.com/viant/kproc/service/dao/criteria"
	"github.com/viant/kproc/service/dao/snapshot"
	"github.com/viant/kproc/service/dao/store"
)

// Service is an in-memory snapshot store.
type Service struct {
	*store.MemoryStore[string, proc.Snapshot]
}

var _ dao.Service[string, proc.Snapshot] = (*Service)(nil)

// List returns matching snapshots, oldest first.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*proc.Snapshot, error) {
	if err := criteria.Validate(parameters); err != nil {
		return nil, err
	}
	ret, err := s.MemoryStore.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	snapshot.Sort(ret)
	return ret, nil
}

// New creates an in-memory snapshot store.
func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[string, proc.Snapshot](
		func(s *proc.Snapshot) string { return s.ID },
		criteria.Match,
	)}
}
