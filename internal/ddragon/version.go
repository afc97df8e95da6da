package ddragon

import (
	"context"
	"sync"
	"time"
)

// VersionCache holds the latest known version and when it was fetched.
// A value older than the TTL is refetched on the next Get.
type VersionCache struct {
	fetch func(ctx context.Context) (string, error)
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	value     string
	fetchedAt time.Time
}

// NewVersionCache creates a holder around fetch
func NewVersionCache(fetch func(ctx context.Context) (string, error), ttl time.Duration, now func() time.Time) *VersionCache {
	if now == nil {
		now = time.Now
	}
	return &VersionCache{fetch: fetch, ttl: ttl, now: now}
}

// Get returns the cached version, fetching a new one when expired
func (v *VersionCache) Get(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	if v.value != "" && now.Sub(v.fetchedAt) < v.ttl {
		return v.value, nil
	}

	version, err := v.fetch(ctx)
	if err != nil {
		return "", err
	}
	v.value = version
	v.fetchedAt = now
	return version, nil
}

// Invalidate forgets the cached version
func (v *VersionCache) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = ""
	v.fetchedAt = time.Time{}
}
