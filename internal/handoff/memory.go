package handoff

import (
	"context"
	"github.com/google/uuid"
	"sync"
	"time"
)

type memoryEntry struct {
	password string
	expires  time.Time
}

// MemoryStore keeps handoffs in process memory. A stored handoff is never
// evicted before it is taken or expires; Put fails with ErrFull instead.
type MemoryStore struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration, maxEntries int64) (*MemoryStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = 1024
	}

	return &MemoryStore{
		ttl:        ttl,
		maxEntries: int(maxEntries),
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
	}, nil
}

func (m *MemoryStore) Put(_ context.Context, password string) (string, error) {
	token := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.maxEntries {
		m.prune()
		if len(m.entries) >= m.maxEntries {
			return "", ErrFull
		}
	}
	m.entries[token] = memoryEntry{password: password, expires: m.now().Add(m.ttl)}

	return token, nil
}

func (m *MemoryStore) Take(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[token]
	if !ok {
		return "", ErrNotFound
	}
	delete(m.entries, token)

	if !m.now().Before(e.expires) {
		return "", ErrNotFound
	}
	return e.password, nil
}

// Len is the number of stored handoffs, expired ones included until they are
// pruned.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// prune drops expired entries. mu must be held.
func (m *MemoryStore) prune() {
	now := m.now()
	for token, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, token)
		}
	}
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}
