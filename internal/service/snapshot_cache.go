// Package service wires the feed, storage, and analytics layers together.
package service

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/pairwatch/internal/models"
)

// SnapshotCache provides in-memory caching of the latest analysis per pair.
// Status queries hit the cache first and fall back to the database.
type SnapshotCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewSnapshotCache creates a new snapshot cache
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves the cached snapshot for a pair
func (sc *SnapshotCache) Get(pair string) *models.PairSnapshot {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if result, found := sc.cache.Get(pair); found {
		sc.hitCount++
		if snapshot, ok := result.(*models.PairSnapshot); ok {
			return snapshot
		}
	}

	sc.missCount++
	return nil
}

// Set stores a snapshot for a pair
func (sc *SnapshotCache) Set(pair string, snapshot *models.PairSnapshot) {
	sc.cache.Set(pair, snapshot, sc.ttl)
}

// Invalidate removes the cached snapshot for a pair
func (sc *SnapshotCache) Invalidate(pair string) {
	sc.cache.Delete(pair)
}

// Clear flushes the entire cache
func (sc *SnapshotCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.cache.Flush()
	sc.hitCount = 0
	sc.missCount = 0
}

// Stats returns cache statistics
func (sc *SnapshotCache) Stats() (hits, misses uint64, ratio float64) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	hits = sc.hitCount
	misses = sc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of cached pairs
func (sc *SnapshotCache) ItemCount() int {
	return sc.cache.ItemCount()
}
