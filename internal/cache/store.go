package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"draftcoach/internal/draft"
)

// DefaultFreshness is how long a generated build is served without regenerating
const DefaultFreshness = 24 * time.Hour

// Entry is one cached build. Entries are overwritten on successful generation
// and never deleted; stale entries remain available as a fallback.
type Entry struct {
	Key           string       `json:"key"`
	CreatedAt     time.Time    `json:"createdAt"`
	Text          string       `json:"text"`
	PatchDetected string       `json:"patchDetected"`
	Source        draft.Origin `json:"source"`
}

// IsFresh reports whether the entry is younger than window at now
func (e *Entry) IsFresh(now time.Time, window time.Duration) bool {
	return now.Sub(e.CreatedAt) < window
}

// Store is a durable key -> entry mapping.
// Get returns (nil, nil) when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, entry Entry) error
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// MemoryStore keeps entries in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get returns the entry for key, or nil
func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// Put stores or overwrites an entry
func (s *MemoryStore) Put(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = entry
	return nil
}

// List returns all entries ordered by key
func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sortByKey(out)
	return out, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func sortByKey(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
}
