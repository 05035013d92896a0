package cache

import (
	"errors"
	"time"

	"github.com/dgraph-io/ristretto"
)

var errRejected = errors.New("cache rejected the entry")

// Cache is an in-process fiber.Storage used for login sessions.
type Cache struct {
	cache *ristretto.Cache
}

func NewCache() (*Cache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,     // number of keys to track frequency of (100k).
		MaxCost:     1 << 26, // maximum cost of cache (64MB).
		BufferItems: 64,      // number of keys per Get buffer.
	})
	if err != nil {
		return nil, err
	}

	return &Cache{
		cache: cache,
	}, nil
}

func (c *Cache) Get(key string) ([]byte, error) {
	value, ok := c.cache.Get(key)
	if !ok {
		return nil, nil
	}
	return value.([]byte), nil
}

// Set blocks until the entry is visible to Get. exp == 0 keeps it until evicted.
func (c *Cache) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	buf := make([]byte, len(val))
	copy(buf, val)

	if !c.cache.SetWithTTL(key, buf, int64(len(buf)), exp) {
		return errRejected
	}
	c.cache.Wait()
	return nil
}

func (c *Cache) Delete(key string) error {
	c.cache.Del(key)
	return nil
}

func (c *Cache) Reset() error {
	c.cache.Clear()
	return nil
}

func (c *Cache) Close() error {
	c.cache.Close()
	return nil
}
