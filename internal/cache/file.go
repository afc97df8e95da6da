package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// FileStore persists every entry in a single JSON document which is read in
// full on each lookup and rewritten in full on each write
type FileStore struct {
	path   string
	logger *zap.Logger

	// serializes read-modify-write within this process only
	mu sync.Mutex
}

// NewFileStore creates a file-backed store, creating the parent directory
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{path: path, logger: logger}, nil
}

// Path returns the backing file location
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the entry for key, or nil
func (s *FileStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	e, ok := all[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// Put stores or overwrites an entry
func (s *FileStore) Put(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	all[entry.Key] = entry
	return s.writeAll(all)
}

// List returns all entries ordered by key
func (s *FileStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(all))
	for _, e := range all {
		out = append(out, e)
	}
	sortByKey(out)
	return out, nil
}

// Close is a no-op; the file is not held open between calls
func (s *FileStore) Close() error {
	return nil
}

// readAll loads the whole document. A missing file is an empty cache and an
// unreadable one is treated the same way so a corrupt file never blocks builds.
func (s *FileStore) readAll() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]Entry), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	all := make(map[string]Entry)
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		s.logger.Warn("Cache file is corrupt, starting empty", zap.String("path", s.path), zap.Error(err))
		return make(map[string]Entry), nil
	}
	return all, nil
}

// writeAll replaces the document via a temp file and rename
func (s *FileStore) writeAll(all map[string]Entry) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}
