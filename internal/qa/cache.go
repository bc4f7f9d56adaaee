package qa

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// AnswerCache is an LRU cache for answers keyed by question and passage.
type AnswerCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key   string
	value Answer
}

// NewAnswerCache creates a new cache with the given capacity.
func NewAnswerCache(capacity int) *AnswerCache {
	return &AnswerCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached answer for key if present.
func (c *AnswerCache) Get(key string) (Answer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).value, true
	}
	return Answer{}, false
}

// Set stores the answer for key, evicting the oldest entry if at capacity.
func (c *AnswerCache) Set(key string, value Answer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	entry := &cacheEntry{key: key, value: value}
	elem := c.lru.PushFront(entry)
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached answers.
func (c *AnswerCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// CachedEngine memoizes the answers of an underlying Engine. Failed inferences are not cached.
type CachedEngine struct {
	engine Engine
	cache  *AnswerCache
}

// NewCachedEngine wraps engine with an LRU cache of the given capacity.
func NewCachedEngine(engine Engine, capacity int) *CachedEngine {
	return &CachedEngine{engine: engine, cache: NewAnswerCache(capacity)}
}

// Infer returns the cached answer when the same question and passage were answered before.
func (c *CachedEngine) Infer(ctx context.Context, question, passage string) (*Answer, error) {
	key := cacheKey(question, passage)
	if cached, ok := c.cache.Get(key); ok {
		return &cached, nil
	}
	answer, err := c.engine.Infer(ctx, question, passage)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, *answer)
	return answer, nil
}

// Name returns the underlying engine's name.
func (c *CachedEngine) Name() string {
	return c.engine.Name()
}

// Close closes the underlying engine.
func (c *CachedEngine) Close() error {
	return c.engine.Close()
}

func cacheKey(question, passage string) string {
	h := sha256.New()
	h.Write([]byte(question))
	h.Write([]byte{0})
	h.Write([]byte(passage))
	return hex.EncodeToString(h.Sum(nil))
}
