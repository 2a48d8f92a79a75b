package rates

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Source is anything that can look up a rate. It matches
// finance.RateProvider.
type Source interface {
	LookupRate(ctx context.Context, from, to string) (float64, error)
}

// CachingProvider remembers successful lookups for a fixed TTL, evicting the
// least recently used pair once maxSize is reached. Failures are not cached.
type CachingProvider struct {
	next Source
	now  func() time.Time

	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type cachedRate struct {
	key       string
	rate      float64
	expiresAt time.Time
}

// NewCachingProvider wraps next. A non-positive maxSize defaults to 128.
func NewCachingProvider(next Source, ttl time.Duration, maxSize int) *CachingProvider {
	if maxSize <= 0 {
		maxSize = 128
	}
	return &CachingProvider{
		next:    next,
		now:     time.Now,
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// LookupRate serves a fresh cached rate or asks the wrapped source. Errors
// are never cached.
func (c *CachingProvider) LookupRate(ctx context.Context, from, to string) (float64, error) {
	key := from + "/" + to
	if rate, ok := c.get(key); ok {
		return rate, nil
	}

	rate, err := c.next.LookupRate(ctx, from, to)
	if err != nil {
		return 0, err
	}
	c.set(key, rate)
	return rate, nil
}

// Size returns the number of cached pairs, expired ones included.
func (c *CachingProvider) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *CachingProvider) get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return 0, false
	}
	item := elem.Value.(*cachedRate)
	if c.now().After(item.expiresAt) {
		c.remove(elem)
		return 0, false
	}
	c.lru.MoveToFront(elem)
	return item.rate, true
}

func (c *CachingProvider) set(key string, rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cachedRate{key: key, rate: rate, expiresAt: c.now().Add(c.ttl)}
	if elem, ok := c.items[key]; ok {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	c.items[key] = c.lru.PushFront(item)
	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

func (c *CachingProvider) remove(elem *list.Element) {
	delete(c.items, elem.Value.(*cachedRate).key)
	c.lru.Remove(elem)
}
