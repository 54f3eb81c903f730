// Package fs provides a file-backed modwiki.Store that keeps the whole
// record set in one JSON snapshot.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fwojciec/modwiki"
	"github.com/google/uuid"
)

// Ensure SnapshotStore implements modwiki.Store at compile time.
var _ modwiki.Store = (*SnapshotStore)(nil)

// snapshot is the on-disk document.
type snapshot struct {
	Generation *modwiki.Generation  `json:"generation"`
	Mods       []*modwiki.ModRecord `json:"mods"`
}

// SnapshotStore implements modwiki.Store with atomic update semantics.
// A new generation is written to path.tmp, synced, then renamed over path.
type SnapshotStore struct {
	path string
	mu   sync.RWMutex
}

// NewSnapshotStore creates a store backed by the file at path. The file
// and its directory are created on the first ReplaceAll.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

func (s *SnapshotStore) tempPath() string {
	return s.path + ".tmp"
}

// ReplaceAll validates records and swaps them in as the new generation.
func (s *SnapshotStore) ReplaceAll(ctx context.Context, records []*modwiki.ModRecord, at time.Time) error {
	seen := make(map[string]bool, len(records))
	mods := make([]*modwiki.ModRecord, 0, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return modwiki.Errorf(modwiki.EINVALID, "duplicate mod id %q", r.ID)
		}
		seen[r.ID] = true
		mods = append(mods, r.Clone())
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].ID < mods[j].ID })

	data, err := json.MarshalIndent(&snapshot{
		Generation: &modwiki.Generation{ID: uuid.New().String(), UpdatedAt: at.UTC(), Count: len(mods)},
		Mods:       mods,
	}, "", "  ")
	if err != nil {
		return modwiki.Errorf(modwiki.ESTORE, "failed to encode snapshot: %v", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return modwiki.Errorf(modwiki.ESTORE, "failed to create directory: %v", err)
	}
	if err := s.writeTemp(data); err != nil {
		_ = os.Remove(s.tempPath())
		return modwiki.Errorf(modwiki.ESTORE, "failed to write snapshot: %v", err)
	}
	if err := os.Rename(s.tempPath(), s.path); err != nil {
		_ = os.Remove(s.tempPath())
		return modwiki.Errorf(modwiki.ESTORE, "failed to replace snapshot: %v", err)
	}
	return nil
}

func (s *SnapshotStore) writeTemp(data []byte) error {
	f, err := os.OpenFile(s.tempPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// load reads the current snapshot. A missing file yields nil.
func (s *SnapshotStore) load() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, modwiki.Errorf(modwiki.ESTORE, "failed to read snapshot: %v", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, modwiki.Errorf(modwiki.ESTORE, "corrupt snapshot %s: %v", s.path, err)
	}
	return &snap, nil
}

// Get returns the record with the given ID.
func (s *SnapshotStore) Get(ctx context.Context, id string) (*modwiki.ModRecord, error) {
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	if snap != nil {
		i := sort.Search(len(snap.Mods), func(i int) bool { return snap.Mods[i].ID >= id })
		if i < len(snap.Mods) && snap.Mods[i].ID == id {
			return snap.Mods[i], nil
		}
	}
	return nil, modwiki.Errorf(modwiki.ENOTFOUND, "mod %q not found", id)
}

// List returns all records ordered by ID.
func (s *SnapshotStore) List(ctx context.Context) ([]*modwiki.ModRecord, error) {
	snap, err := s.load()
	if err != nil || snap == nil {
		return nil, err
	}
	return snap.Mods, nil
}

// Freshness returns the current generation.
func (s *SnapshotStore) Freshness(ctx context.Context) (*modwiki.Generation, error) {
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	if snap == nil || snap.Generation == nil {
		return nil, modwiki.Errorf(modwiki.ENOTFOUND, "mod cache is empty")
	}
	return snap.Generation, nil
}

// Close is a no-op; the store holds no open handles.
func (s *SnapshotStore) Close() error {
	return nil
}
