package memory

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// LRUCache implements Cache using an in-memory LRU
type LRUCache struct {
	entries *lru.Cache[string, entry]
	now     func() time.Time
}

// NewLRUCache creates a cache holding at most size entries
func NewLRUCache(size int) (*LRUCache, error) {
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	return &LRUCache{
		entries: entries,
		now:     time.Now,
	}, nil
}

// Get returns a cached value unless it has expired
func (c *LRUCache) Get(ctx context.Context, key string) (string, bool, error) {
	e, ok := c.entries.Get(key)
	if !ok {
		return "", false, nil
	}

	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.entries.Remove(key)
		return "", false, nil
	}

	return e.value, true, nil
}

// Set stores a value; a zero ttl never expires
func (c *LRUCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.entries.Add(key, e)
	return nil
}

// Len returns the number of cached entries, expired ones included
func (c *LRUCache) Len() int {
	return c.entries.Len()
}
