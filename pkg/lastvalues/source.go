package lastvalues

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"parkapi/models"
	"parkapi/pkg/keys"
)

// DefaultDir is where the scraper leaves its per-city snapshots.
const DefaultDir = "cache"

// Source is a read-only view over cached snapshots, keyed by city.
//
// Load returns ErrNotFound when nothing is cached for the city, and a nil
// snapshot with a nil error when the cached document is JSON null.
type Source interface {
	Load(ctx context.Context, city string) (*models.Snapshot, error)
}

// FileSource reads <Dir>/<city>.json from the local filesystem.
type FileSource struct {
	Dir string
}

func (s FileSource) path(city string) string {
	dir := s.Dir
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, keys.CacheObject(city))
}

func (s FileSource) Load(_ context.Context, city string) (*models.Snapshot, error) {
	path := s.path(city)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &IOError{Path: path, Err: err}
	}
	// Only regular files count as a cache.
	if !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	snap, err := models.ParseSnapshot(data)
	if err != nil {
		return nil, &DataFormatError{City: city, Err: err}
	}
	return snap, nil
}

// MemorySource keeps snapshots in memory. It is safe for concurrent use and
// is meant to be kept warm by a watcher while lookups read from it.
type MemorySource struct {
	mu    sync.RWMutex
	cache map[string]*models.Snapshot
}

func NewMemorySource() *MemorySource {
	return &MemorySource{cache: make(map[string]*models.Snapshot)}
}

// Put replaces the snapshot for a city. A nil snapshot is stored as-is and
// reads back like a null document.
func (m *MemorySource) Put(city string, snap *models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[city] = snap
}

func (m *MemorySource) Delete(city string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, city)
}

func (m *MemorySource) Load(_ context.Context, city string) (*models.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.cache[city]
	if !ok {
		return nil, ErrNotFound
	}
	return snap, nil
}
