package cache

import (
	"sync"
	"time"
)

// Cache keeps loader results per key for ttl.
type Cache[K comparable, T any] struct {
	m      sync.Map
	ttl    time.Duration
	loader func(key K) T
}

type entry[T any] struct {
	mx    sync.Mutex
	value T
	ts    time.Time
}

func NewWithTTL[K comparable, T any](ttl time.Duration, loader func(key K) T) *Cache[K, T] {
	return &Cache[K, T]{
		m:      sync.Map{},
		ttl:    ttl,
		loader: loader,
	}
}

// Clean drops entries that have not been refreshed for ten ttl periods.
func (c *Cache[K, T]) Clean() {
	c.m.Range(func(key, value any) bool {
		e := value.(*entry[T])

		if !e.mx.TryLock() {
			return true
		}

		defer e.mx.Unlock()

		if time.Since(e.ts) > c.ttl*10 {
			c.m.Delete(key)
		}

		return true
	})
}

func (c *Cache[K, T]) Forget(key K) {
	c.m.Delete(key)
}

func (c *Cache[K, T]) Load(key K) T {
	var e *entry[T]

	if v, ok := c.m.Load(key); ok {
		e = v.(*entry[T])
	} else {
		v1, _ := c.m.LoadOrStore(key, new(entry[T]))
		e = v1.(*entry[T])
	}

	e.mx.Lock()
	defer e.mx.Unlock()

	if e.ts.IsZero() || time.Since(e.ts) > c.ttl {
		e.value = c.loader(key)
		e.ts = time.Now()
	}

	return e.value
}
