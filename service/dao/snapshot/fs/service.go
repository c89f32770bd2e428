// Package fs stores snapshots as JSON files on an afs URL.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/kproc/logger"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/service/dao"
	"github.com/viant/kproc/service/dao/criteria"
	"github.com/viant/kproc/service/dao/snapshot"
)

// Service implements a filesystem-based snapshot storage
type Service struct {
	basePath string
	fs       afs.Service
	logger   logger.Logger
	mu       sync.RWMutex
}

// Ensure Service implements dao.Service
var _ dao.Service[string, proc.Snapshot] = (*Service)(nil)

// Save persists a snapshot
func (s *Service) Save(ctx context.Context, snap *proc.Snapshot) error {
	if snap == nil {
		return dao.ErrNilEntity
	}
	if snap.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.snapshotPath(snap.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "failed to save snapshot to file %s", filePath)
	}
	return nil
}

// Load retrieves a snapshot
func (s *Service) Load(ctx context.Context, id string) (*proc.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	filePath := s.snapshotPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check if snapshot exists")
	}
	if !exists {
		return nil, errors.Wrapf(dao.ErrNotFound, "snapshot %s", id)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot file")
	}
	var ret proc.Snapshot
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal snapshot")
	}
	return &ret, nil
}

// Delete removes a snapshot
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.snapshotPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return errors.Wrap(err, "failed to check if snapshot exists")
	}
	if !exists {
		return errors.Wrapf(dao.ErrNotFound, "snapshot %s", id)
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return errors.Wrap(err, "failed to delete snapshot file")
	}
	return nil
}

// List returns matching snapshots, oldest first. Unreadable files are
// logged and skipped.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*proc.Snapshot, error) {
	if err := criteria.Validate(parameters); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list snapshot files")
	}
	var ret []*proc.Snapshot
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warning("snapshot: failed to read %v: %v", object.URL(), err)
			continue
		}
		var snap proc.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			s.logger.Warning("snapshot: failed to decode %v: %v", object.URL(), err)
			continue
		}
		if !criteria.Match(&snap, parameters) {
			continue
		}
		ret = append(ret, &snap)
	}
	snapshot.Sort(ret)
	return ret, nil
}

func (s *Service) snapshotPath(id string) string {
	return url.Join(s.basePath, id+".json")
}

// New creates a snapshot store under basePath, creating it when missing.
func New(basePath string, l logger.Logger) (*Service, error) {
	if basePath == "" {
		return nil, errors.New("base path cannot be empty")
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, errors.Wrap(err, "failed to create base directory")
		}
	}
	basePath = url.Normalize(basePath, file.Scheme)
	return &Service{basePath: strings.TrimRight(basePath, "/"), fs: fs, logger: l}, nil
}

