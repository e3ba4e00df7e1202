package version

import (
	"fmt"

	"github.com/golang/groupcache/lru"
)

// Cache memoizes ParseWithOp results keyed by (input, eapi id), per
// spec §5: "Parsed atom and version values for common strings are
// cached in a bounded LRU ... eviction never changes observable
// semantics." Not safe for concurrent use on its own: callers sharing
// one Cache across goroutines hold their own mutex around it.
type Cache struct {
	lru *lru.Cache
}

// NewCache returns a cache bounded to maxEntries; a non-positive value
// means unbounded (matches groupcache/lru's own convention).
func NewCache(maxEntries int) *Cache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Cache{lru: lru.New(maxEntries)}
}

func (c *Cache) key(input, eapi string) string {
	return fmt.Sprintf("%s\x00%s", eapi, input)
}

// Get returns a memoized parse result, if present.
func (c *Cache) Get(input, eapi string) (Version, bool) {
	v, ok := c.lru.Get(c.key(input, eapi))
	if !ok {
		return Version{}, false
	}
	return v.(Version), true
}

// Put stores a parse result.
func (c *Cache) Put(input, eapi string, v Version) {
	c.lru.Add(c.key(input, eapi), v)
}

// ParseWithOpCached parses via ParseWithOp, consulting and populating
// cache for the given eapi id.
func ParseWithOpCached(cache *Cache, eapi, s string) (Version, error) {
	if cache != nil {
		if v, ok := cache.Get(s, eapi); ok {
			return v, nil
		}
	}
	v, err := ParseWithOp(s)
	if err != nil {
		return Version{}, err
	}
	if cache != nil {
		cache.Put(s, eapi, v)
	}
	return v, nil
}
