package store

import (
	"sync"
)

// OwnerCache keeps one snapshot per owner. A snapshot is either a list or an
// error, never both: Set with an error drops the items.
type OwnerCache[T any] struct {
	mu     sync.RWMutex
	owners map[string]*snapshot[T]
}

type snapshot[T any] struct {
	items  []T
	err    error
	loaded bool
	sub    Subscription
}

func NewOwnerCache[T any]() *OwnerCache[T] {
	return &OwnerCache[T]{owners: make(map[string]*snapshot[T])}
}

// Get returns a copy of the owner's items, whether a refresh has completed at
// least once, and the error state.
func (c *OwnerCache[T]) Get(owner string) ([]T, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.owners[owner]
	if !ok {
		return []T{}, false, nil
	}
	items := make([]T, len(s.items))
	copy(items, s.items)
	return items, s.loaded, s.err
}

// Fresh reports whether the owner has a loaded snapshot without an error.
// Readers re-fetch when it is false, so a failed load or write never sticks.
func (c *OwnerCache[T]) Fresh(owner string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.owners[owner]
	return ok && s.loaded && s.err == nil
}

func (c *OwnerCache[T]) Set(owner string, items []T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.entry(owner)
	if err != nil {
		items = nil
	}
	s.items = items
	s.err = err
	s.loaded = true
}

// SetError records a failed write without discarding the current items. The
// next read re-fetches.
func (c *OwnerCache[T]) SetError(owner string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry(owner).err = err
}

// Watch stores sub for owner unless one is already active; it reports whether
// sub was kept.
func (c *OwnerCache[T]) Watch(owner string, sub Subscription) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.entry(owner)
	if s.sub != nil {
		return false
	}
	s.sub = sub
	return true
}

func (c *OwnerCache[T]) Watching(owner string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.owners[owner]
	return ok && s.sub != nil
}

// Close unsubscribes every owner.
func (c *OwnerCache[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.owners {
		if s.sub != nil {
			_ = s.sub.Unsubscribe()
			s.sub = nil
		}
	}
}

func (c *OwnerCache[T]) entry(owner string) *snapshot[T] {
	s, ok := c.owners[owner]
	if !ok {
		s = &snapshot[T]{}
		c.owners[owner] = s
	}
	return s
}
