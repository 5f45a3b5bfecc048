package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

const (
	DefaultMaxEntries    = 1000
	DefaultSweepInterval = 5 * time.Minute
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	storedAt  time.Time
}

// MemoryStore keeps entries in process. Expired entries are dropped lazily on
// read and by a periodic sweep; when over maxEntries the oldest are evicted.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
	done       chan struct{}
	closeOnce  sync.Once
}

// NewMemoryStore creates a store and starts its sweeper. A non-positive
// maxEntries disables the size limit.
func NewMemoryStore(maxEntries int, sweepInterval time.Duration) *MemoryStore {
	m := &MemoryStore{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
		done:       make(chan struct{}),
	}
	if sweepInterval > 0 {
		go m.periodicSweep(sweepInterval)
	}
	return m
}

func (m *MemoryStore) periodicSweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.done:
			return
		}
	}
}

// sweep removes expired entries and enforces the size limit
func (m *MemoryStore) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
}

func (m *MemoryStore) sweepLocked() {
	now := m.now()
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
		}
	}

	if m.maxEntries <= 0 || len(m.entries) <= m.maxEntries {
		return
	}

	type aged struct {
		key      string
		storedAt time.Time
	}
	entries := make([]aged, 0, len(m.entries))
	for key, entry := range m.entries {
		entries = append(entries, aged{key, entry.storedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].storedAt.Before(entries[j].storedAt)
	})
	for i := 0; i < len(entries)-m.maxEntries; i++ {
		delete(m.entries, entries[i].key)
	}
}

// Put stores a copy of value for ttl. A non-positive ttl deletes the key.
func (m *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl <= 0 {
		delete(m.entries, key)
		return nil
	}

	now := m.now()
	m.entries[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: now.Add(ttl),
		storedAt:  now,
	}
	if m.maxEntries > 0 && len(m.entries) > m.maxEntries {
		m.sweepLocked()
	}
	return nil
}

// Get returns ErrMiss for absent or expired keys
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, found := m.entries[key]
	m.mu.RUnlock()

	if !found {
		return nil, ErrMiss
	}
	if !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		if current, ok := m.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, ErrMiss
	}
	return append([]byte(nil), entry.value...), nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len reports the number of stored entries, expired or not
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close stops the sweeper and drops all entries
func (m *MemoryStore) Close() error {
	m.closeOnce.Do(func() {
		close(m.done)
		m.mu.Lock()
		m.entries = make(map[string]memoryEntry)
		m.mu.Unlock()
	})
	return nil
}
