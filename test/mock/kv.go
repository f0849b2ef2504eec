// test/mock/kv.go
package mock

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

type kvEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryKV is an in-process db.KVStore with TTL handling driven by Now.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]kvEntry

	Now func() time.Time
	// Err, when set, is returned by every operation.
	Err error
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]kvEntry), Now: time.Now}
}

func (m *MemoryKV) live(key string) (kvEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return kvEntry{}, false
	}
	if !e.expiresAt.IsZero() && !m.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		return kvEntry{}, false
	}
	return e, true
}

func (m *MemoryKV) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.Now().Add(ttl)
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	e, ok := m.live(key)
	return e.value, ok, nil
}

func (m *MemoryKV) Put(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.entries[key] = kvEntry{value: value, expiresAt: m.expiry(ttl)}
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.entries, key)
	return nil
}

func (m *MemoryKV) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	if e, ok := m.live(key); ok {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, err
		}
		n = parsed
	}
	n++
	m.entries[key] = kvEntry{value: strconv.FormatInt(n, 10), expiresAt: m.expiry(ttl)}
	return n, nil
}

// Keys lists the live keys starting with prefix.
func (m *MemoryKV) Keys(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.entries {
		if _, ok := m.live(k); ok && strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// TTL reports the remaining lifetime of key, or zero when it has none.
func (m *MemoryKV) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok || e.expiresAt.IsZero() {
		return 0
	}
	return e.expiresAt.Sub(m.Now())
}
