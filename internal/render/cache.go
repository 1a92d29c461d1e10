package render

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache memoizes rendered documents keyed by page and revision. A new save
// bumps the revision, so stale entries simply age out.
type Cache struct {
	lru *expirable.LRU[string, string]
}

func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func CacheKey(pageID string, revision int) string {
	return fmt.Sprintf("%s@%d", pageID, revision)
}

func (c *Cache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.lru.Get(key)
}

func (c *Cache) Add(key, markup string) {
	if c == nil {
		return
	}
	c.lru.Add(key, markup)
}
