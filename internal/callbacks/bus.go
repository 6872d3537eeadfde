package callbacks

import (
	"sync"
)

// Bus delivers every published message to each subscriber in its own goroutine.
// A subscriber returning false is unsubscribed.
type Bus[V any] struct {
	handlers sync.Map
	wg       sync.WaitGroup
}

func New[V any]() *Bus[V] {
	return &Bus[V]{
		handlers: sync.Map{},
	}
}

func (b *Bus[V]) Publish(msg V) {
	if b == nil {
		return
	}

	b.handlers.Range(func(key, value any) bool {
		if fn, ok := value.(func(msg V) bool); ok {
			b.wg.Add(1)

			go func() {
				defer b.wg.Done()

				if !fn(msg) {
					b.handlers.Delete(key)
				}
			}()
		}

		return true
	})
}

func (b *Bus[V]) Subscribe(name string, fn func(msg V) bool) {
	b.handlers.Store(name, fn)
}

func (b *Bus[V]) Unsubscribe(name string) bool {
	_, found := b.handlers.LoadAndDelete(name)

	return found
}

// Wait blocks until deliveries already started have finished.
func (b *Bus[V]) Wait() {
	b.wg.Wait()
}
