package service

import "sync"

// viewCache is the ordered, in-memory copy of a remote collection owned by one view.
type viewCache[T any] struct {
	mu     sync.RWMutex
	items  []T
	loaded bool
	idOf   func(T) int64
	clone  func(T) T
}

func newViewCache[T any](idOf func(T) int64, clone func(T) T) *viewCache[T] {
	return &viewCache[T]{idOf: idOf, clone: clone}
}

func (c *viewCache[T]) replace(items []T) {
	copied := make([]T, len(items))
	for i, item := range items {
		copied[i] = c.clone(item)
	}
	c.mu.Lock()
	c.items = copied
	c.loaded = true
	c.mu.Unlock()
}

func (c *viewCache[T]) reset() {
	c.mu.Lock()
	c.items = nil
	c.loaded = false
	c.mu.Unlock()
}

func (c *viewCache[T]) isLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *viewCache[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// snapshot returns a detached copy of every record in order.
func (c *viewCache[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = c.clone(item)
	}
	return out
}

func (c *viewCache[T]) find(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.clone(c.items[i]), true
	}
	var zero T
	return zero, false
}

// mutate applies fn to the record with id in place.
func (c *viewCache[T]) mutate(id int64, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	fn(&c.items[i])
	return true
}

// put replaces the record with id wherever it currently sits.
func (c *viewCache[T]) put(id int64, item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items[i] = c.clone(item)
	return true
}

func (c *viewCache[T]) add(item T) {
	c.mu.Lock()
	c.items = append(c.items, c.clone(item))
	c.mu.Unlock()
}

func (c *viewCache[T]) remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return true
}

func (c *viewCache[T]) indexOf(id int64) int {
	for i, item := range c.items {
		if c.idOf(item) == id {
			return i
		}
	}
	return -1
}
