package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with passive TTL expiry. It is
// safe for concurrent use and serves as the fallback when no Redis
// address is configured, and as the test double everywhere else.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, ErrMiss
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return 0, nil
	}
	delete(s.entries, key)
	return 1, nil
}

func (s *MemoryStore) Pipeline() Pipeline {
	return &memoryPipeline{store: s}
}

// Len reports the number of live entries. Used by tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

type memoryPipeline struct {
	store  *MemoryStore
	queued []queuedSet
}

type queuedSet struct {
	key   string
	value []byte
	ttl   time.Duration
}

func (p *memoryPipeline) Set(key string, value []byte, ttl time.Duration) {
	p.queued = append(p.queued, queuedSet{key: key, value: value, ttl: ttl})
}

func (p *memoryPipeline) Exec(ctx context.Context) error {
	for _, q := range p.queued {
		if err := p.store.Set(ctx, q.key, q.value, q.ttl); err != nil {
			return err
		}
	}
	p.queued = nil
	return nil
}
