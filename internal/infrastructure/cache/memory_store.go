package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a bounded in-process Store. Entries expire after their own
// TTL, capped by the store's maximum TTL.
// WARNING: state is not shared across instances, so revalidation webhooks
// only clear the instance that receives them.
type MemoryStore struct {
	lru    *expirable.LRU[string, memoryEntry]
	maxTTL time.Duration
	now    func() time.Time

	mu   sync.Mutex
	tags map[string]map[string]struct{}
}

// NewMemoryStore creates a store holding at most maxEntries values
func NewMemoryStore(maxEntries int, maxTTL time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if maxTTL <= 0 {
		maxTTL = time.Hour
	}
	return &MemoryStore{
		lru:    expirable.NewLRU[string, memoryEntry](maxEntries, nil, maxTTL),
		maxTTL: maxTTL,
		now:    time.Now,
		tags:   make(map[string]map[string]struct{}),
	}
}

// Get implements Store
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.lru.Remove(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set implements Store
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	if ttl <= 0 || ttl > s.maxTTL {
		ttl = s.maxTTL
	}
	s.lru.Add(key, memoryEntry{value: value, expiresAt: s.now().Add(ttl)})

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tag := range tags {
		keys, ok := s.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.tags[tag] = keys
		}
		keys[key] = struct{}{}
		s.pruneLocked(keys)
	}
	return nil
}

// pruneLocked drops index entries for keys the LRU already evicted
func (s *MemoryStore) pruneLocked(keys map[string]struct{}) {
	if len(keys) <= 2*s.lru.Len()+16 {
		return
	}
	for k := range keys {
		if !s.lru.Contains(k) {
			delete(keys, k)
		}
	}
}

// InvalidateTags implements Store
func (s *MemoryStore) InvalidateTags(_ context.Context, tags ...string) (int, error) {
	s.mu.Lock()
	var keys []string
	for _, tag := range tags {
		for k := range s.tags[tag] {
			keys = append(keys, k)
		}
		delete(s.tags, tag)
	}
	s.mu.Unlock()

	removed := 0
	for _, k := range keys {
		if s.lru.Remove(k) {
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live entries
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}

// Close implements Store
func (s *MemoryStore) Close() error {
	s.lru.Purge()
	return nil
}
