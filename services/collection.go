package services

import "sync"

// View is the read side of a Collection handed to observers.
type View[T any] interface {
	Snapshot() []T
	Len() int
	Subscribe() (<-chan []T, func())
}

// Collection is an ordered list owned by the coordinator. Every mutation is
// applied under the lock and published as a fresh snapshot, so readers never
// see a half-applied merge.
type Collection[T any] struct {
	mu          sync.RWMutex
	items       []T
	subscribers map[int]chan []T
	nextID      int
}

func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{subscribers: make(map[int]chan []T)}
}

func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.items)
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Subscribe returns a channel that receives the latest snapshot after each
// mutation. Slow readers only ever see the most recent one. The returned func
// cancels the subscription and closes the channel.
func (c *Collection[T]) Subscribe() (<-chan []T, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan []T, 1)
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
			close(ch)
		})
	}
}

// Replace swaps the whole content.
func (c *Collection[T]) Replace(items []T) {
	c.Mutate(func([]T) []T { return clone(items) })
}

// Mutate applies f to a copy of the items and publishes the result.
func (c *Collection[T]) Mutate(f func(items []T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = f(clone(c.items))
	c.publish()
}

// AppendMissing appends, in order, the items whose key is not present yet and
// returns how many were added. Items repeated within the input are added once.
func (c *Collection[T]) AppendMissing(items []T, key func(T) string) int {
	added := 0
	c.Mutate(func(current []T) []T {
		present := make(map[string]struct{}, len(current)+len(items))
		for _, item := range current {
			present[key(item)] = struct{}{}
		}
		for _, item := range items {
			k := key(item)
			if _, ok := present[k]; ok {
				continue
			}
			present[k] = struct{}{}
			current = append(current, item)
			added++
		}
		return current
	})
	return added
}

// RemoveWhere drops every item matching pred and returns how many were removed.
func (c *Collection[T]) RemoveWhere(pred func(T) bool) int {
	removed := 0
	c.Mutate(func(current []T) []T {
		kept := current[:0]
		for _, item := range current {
			if pred(item) {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		return kept
	})
	return removed
}

func (c *Collection[T]) publish() {
	for _, ch := range c.subscribers {
		snapshot := clone(c.items)
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
