package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/scout/pkg/domain"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache implements ports.Cache in memory with lazy expiration.
// Safe for concurrent use.
type Cache struct {
	data map[string]entry
	mu   sync.RWMutex
	now  func() time.Time
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get returns a copy of the cached value.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if c.expired(e) {
		// A Set may have landed since the read lock was released.
		c.mu.Lock()
		e, ok = c.data[key]
		if ok && c.expired(e) {
			delete(c.data, key)
			ok = false
		}
		c.mu.Unlock()
		if !ok {
			return nil, domain.ErrCacheMiss
		}
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (c *Cache) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}

// Set stores a copy of value.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = e
	return nil
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
