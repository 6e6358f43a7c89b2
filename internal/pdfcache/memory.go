package pdfcache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	payload   string
	createdAt time.Time
}

// MemoryStore is the process-local Store. It is explicitly non-persistent and
// unsuitable for horizontally scaled deployments; use RedisStore there.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a memory store with the given TTL (DefaultTTL when
// zero).
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return newMemoryStore(ttl, time.Now)
}

func newMemoryStore(ttl time.Duration, now func() time.Time) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

func (s *MemoryStore) Store(_ context.Context, payloadBase64 string) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.entries[id] = entry{payload: payloadBase64, createdAt: s.now()}

	return id, nil
}

func (s *MemoryStore) Retrieve(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	e, found := s.entries[id]
	s.mu.RUnlock()

	if !found || s.expired(e) {
		return "", ErrNotFound
	}

	return e.payload, nil
}

func (s *MemoryStore) Sweep(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

// Len reports the number of live entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) sweepLocked() int {
	removed := 0
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) expired(e entry) bool {
	return s.now().Sub(e.createdAt) > s.ttl
}
