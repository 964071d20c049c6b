package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// KeyValue is the slot storage behind the cart store. The redis client
// satisfies it in production; MemoryKeyValue backs tests and local dev.
// Get returns the empty string with a nil error for an absent key; a non-nil
// error always means the storage itself failed.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(profileID string) string
}

// MemoryKeyValue is a process-local KeyValue used when no redis is wired.
type MemoryKeyValue struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryKeyValue builds an empty in-memory slot store.
func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{slots: map[string]string{}}
}

// Get returns the value stored at key; an absent key yields the empty string.
func (m *MemoryKeyValue) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[key], nil
}

// Set stores a value. TTL is ignored; carts have no expiry.
func (m *MemoryKeyValue) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	text, ok := value.(string)
	if !ok {
		raw, isBytes := value.([]byte)
		if !isBytes {
			return errors.New("memory keyvalue only stores strings")
		}
		text = string(raw)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = text
	return nil
}

// Del removes the provided keys.
func (m *MemoryKeyValue) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.slots, key)
	}
	return nil
}

// CartKey mirrors the redis client's namespaced key layout.
func (m *MemoryKeyValue) CartKey(profileID string) string {
	return strings.Join([]string{"fc", "cart", profileID}, ":")
}
