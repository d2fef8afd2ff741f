package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a small typed facade over go-cache with a fixed TTL. Entries
// expire on their own; Invalidate drops one eagerly after a write.
type Cache struct {
	store *gocache.Cache
}

func New(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(ttl, cleanupInterval),
	}
}

func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *Cache) Set(key string, value any) {
	c.store.SetDefault(key, value)
}

func (c *Cache) Invalidate(key string) {
	c.store.Delete(key)
}
